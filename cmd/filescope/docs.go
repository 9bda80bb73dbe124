package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bamsammich/filescope/internal/filter"
)

var docsCmd = &cobra.Command{
	Use:    "gen-docs",
	Short:  "Generate man pages or markdown, plus the category reference",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDocs,
}

func init() {
	docsCmd.Flags().String("dir", "docs", "output directory")
	docsCmd.Flags().String("format", "man", "output format (man or markdown)")
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")       //nolint:errcheck // flag name is hardcoded
	format, _ := cmd.Flags().GetString("format") //nolint:errcheck // flag name is hardcoded

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	root := cmd.Root()
	switch format {
	case "man":
		header := &doc.GenManHeader{
			Title:   "FILESCOPE",
			Section: "1",
			Source:  "filescope " + version,
		}
		if err := doc.GenManTree(root, header, dir); err != nil {
			return fmt.Errorf("generate man pages: %w", err)
		}
	case "markdown":
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			return fmt.Errorf("generate markdown: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (use man or markdown)", format)
	}

	path := filepath.Join(dir, "filescope_categories.md")
	if err := os.WriteFile(path, []byte(categoryReference()), 0o644); err != nil { //nolint:gosec // docs are world-readable
		return fmt.Errorf("write category reference: %w", err)
	}
	return nil
}

// categoryReference renders the extension catalog as markdown.
func categoryReference() string {
	var b strings.Builder
	b.WriteString("## filescope categories\n\n")
	b.WriteString("Extensions are matched case-insensitively on the part after the last dot.\n\n")
	for _, c := range filter.AllCategories() {
		exts := filter.Extensions(c)
		fmt.Fprintf(&b, "### %s (`--%s`)\n\n", c, c)
		for i, ext := range exts {
			exts[i] = "`" + ext + "`"
		}
		b.WriteString(strings.Join(exts, ", "))
		b.WriteString("\n\n")
	}
	return b.String()
}
