package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bamsammich/filescope/internal/config"
	"github.com/bamsammich/filescope/internal/engine"
	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/platform"
	"github.com/bamsammich/filescope/internal/search"
)

// options holds the raw flag values before they are resolved into a
// search.Request.
type options struct {
	root       string
	output     string
	images     bool
	videos     bool
	archives   bool
	sounds     bool
	all        bool
	categories string
	workers    int
	collision  string
	filterFile string
	minSize    string
	maxSize    string
	verify     bool
	bwLimit    string
	timeout    time.Duration
	dryRun     bool
	open       bool
	preserve   bool
	benchmark  bool
	tui        bool
	feed       bool
	rate       bool
	noProgress bool
	verbose    bool
	quiet      bool
	logFile    string
	version    bool
}

// filterFlag is a custom pflag.Value that preserves CLI ordering of
// --exclude and --include rules by appending to a shared filter.Chain.
type filterFlag struct {
	chain   *filter.Chain
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "string" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.chain.AddInclude(val)
	}
	return f.chain.AddExclude(val)
}

func registerFlags(fs *pflag.FlagSet, o *options, chain *filter.Chain) {
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	fs.StringVarP(&o.root, "root", "s", "", "directory to search (default: home directory)")
	fs.BoolVar(&o.images, "images", false, "copy image files")
	fs.BoolVar(&o.videos, "videos", false, "copy video files")
	fs.BoolVar(&o.archives, "archives", false, "copy compressed archives")
	fs.BoolVar(&o.sounds, "sounds", false, "copy audio files")
	fs.BoolVar(&o.all, "all", false, "copy every supported category")
	fs.StringVar(&o.categories, "categories", "", "comma-separated categories (images,videos,archives,sounds)")

	fs.IntVarP(&o.workers, "workers", "n", 0, "number of copy workers (default: NumCPU)")
	fs.StringVar(&o.collision, "collision", "overwrite", "what to do when two files share a name: overwrite, rename or skip")

	fs.Var(&filterFlag{chain: chain}, "exclude", "exclude files matching PATTERN (repeatable)")
	fs.Var(&filterFlag{chain: chain, include: true}, "include", "include files matching PATTERN (repeatable)")
	fs.StringVar(&o.filterFile, "filter", "", "read filter rules from FILE")
	fs.StringVar(&o.minSize, "min-size", "", "skip files smaller than SIZE (e.g. 100K)")
	fs.StringVar(&o.maxSize, "max-size", "", "skip files larger than SIZE (e.g. 4G)")

	fs.BoolVar(&o.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	fs.StringVar(&o.bwLimit, "bwlimit", "", "bandwidth limit (e.g. 100M, 1G)")
	fs.DurationVar(&o.timeout, "timeout", 0, "give up after this long (e.g. 10m)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "show what would be copied without writing")
	fs.BoolVar(&o.open, "open", false, "open the output folder in the file manager when done")
	fs.BoolVar(&o.preserve, "preserve", true, "keep permissions and timestamps on copies")
	fs.BoolVar(&o.benchmark, "benchmark", false, "measure throughput before copying and auto-tune workers")

	fs.BoolVar(&o.tui, "tui", false, "full-screen progress view")
	fs.BoolVar(&o.feed, "feed", false, "force feed mode (one line per file)")
	fs.BoolVar(&o.rate, "rate", false, "force rate mode (sparkline + throughput)")
	fs.BoolVar(&o.noProgress, "no-progress", false, "disable progress display")

	fs.BoolVarP(&o.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "suppress all output except errors")
	fs.StringVar(&o.logFile, "log", "", "write structured JSON log to FILE")
}

var categoryFlags = []string{"images", "videos", "archives", "sounds", "all", "categories"}

// applyConfigDefaults applies config file defaults for flags not explicitly
// set on the CLI. Root and output may also come from positional arguments,
// so those are only filled when still empty.
func applyConfigDefaults(fs *pflag.FlagSet, d config.DefaultsConfig, o *options, chain *filter.Chain) error {
	setString := func(name string, dst *string, v *string) {
		if !fs.Changed(name) && v != nil {
			*dst = *v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if !fs.Changed(name) && v != nil {
			*dst = *v
		}
	}

	if o.root == "" {
		setString("root", &o.root, d.Root)
	}
	setString("collision", &o.collision, d.Collision)
	setString("bwlimit", &o.bwLimit, d.BWLimit)
	setBool("verify", &o.verify, d.Verify)
	setBool("tui", &o.tui, d.TUI)
	setBool("open", &o.open, d.Open)
	setBool("preserve", &o.preserve, d.Preserve)
	if !fs.Changed("workers") && d.Workers != nil {
		o.workers = *d.Workers
	}
	if o.output == "" && d.Output != nil {
		o.output = *d.Output
	}

	anyCategory := false
	for _, name := range categoryFlags {
		anyCategory = anyCategory || fs.Changed(name)
	}
	if !anyCategory && len(d.Categories) > 0 {
		cats, err := parseCategoryList(d.Categories)
		if err != nil {
			return fmt.Errorf("config defaults.categories: %w", err)
		}
		o.categories = joinCategories(cats)
	}

	// Config excludes go after CLI rules, so the command line wins on
	// first match.
	for _, pattern := range d.Exclude {
		if err := chain.AddExclude(pattern); err != nil {
			return fmt.Errorf("config defaults.exclude: %w", err)
		}
	}
	return nil
}

func parseCategoryList(names []string) ([]filter.Category, error) {
	out := make([]filter.Category, 0, len(names))
	for _, n := range names {
		c, err := filter.ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func joinCategories(cats []filter.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}

// selectedCategories merges the category toggles, --all and --categories.
func (o *options) selectedCategories() ([]filter.Category, error) {
	if o.all {
		return filter.AllCategories(), nil
	}

	var cats []filter.Category
	seen := make(map[filter.Category]bool)
	add := func(c filter.Category) {
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}

	for _, t := range []struct {
		on  bool
		cat filter.Category
	}{
		{o.images, filter.Images},
		{o.videos, filter.Videos},
		{o.archives, filter.Archives},
		{o.sounds, filter.Sounds},
	} {
		if t.on {
			add(t.cat)
		}
	}

	listed, err := filter.ParseCategories(o.categories)
	if err != nil {
		return nil, fmt.Errorf("invalid --categories: %w", err)
	}
	for _, c := range listed {
		add(c)
	}
	return cats, nil
}

// setPaths fills root and output from positional arguments.
func (o *options) setPaths(args []string, rootChanged bool) error {
	switch len(args) {
	case 1:
		o.output = args[0]
	case 2:
		if rootChanged {
			return errors.New("root given both as --root and as an argument")
		}
		o.root, o.output = args[0], args[1]
	}
	return nil
}

// buildRequest resolves options into a search request. The filter chain
// must already hold any CLI and config rules.
func (o *options) buildRequest(chain *filter.Chain) (search.Request, error) {
	if o.output == "" {
		return search.Request{}, errors.New("no output directory given (pass it as an argument or set defaults.output)")
	}

	root := o.root
	if root == "" {
		root = platform.DefaultRoot()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return search.Request{}, fmt.Errorf("resolve root: %w", err)
	}
	output, err := filepath.Abs(o.output)
	if err != nil {
		return search.Request{}, fmt.Errorf("resolve output: %w", err)
	}

	cats, err := o.selectedCategories()
	if err != nil {
		return search.Request{}, err
	}

	collision, err := engine.ParseCollisionPolicy(o.collision)
	if err != nil {
		return search.Request{}, fmt.Errorf("invalid --collision: %w", err)
	}

	var bwLimit int64
	if o.bwLimit != "" {
		bwLimit, err = filter.ParseSize(o.bwLimit)
		if err != nil {
			return search.Request{}, fmt.Errorf("invalid --bwlimit: %w", err)
		}
	}

	if o.filterFile != "" {
		if err := chain.LoadFile(o.filterFile); err != nil {
			return search.Request{}, fmt.Errorf("load filter file: %w", err)
		}
	}
	if o.minSize != "" {
		n, err := filter.ParseSize(o.minSize)
		if err != nil {
			return search.Request{}, fmt.Errorf("invalid --min-size: %w", err)
		}
		chain.SetMinSize(n)
	}
	if o.maxSize != "" {
		n, err := filter.ParseSize(o.maxSize)
		if err != nil {
			return search.Request{}, fmt.Errorf("invalid --max-size: %w", err)
		}
		chain.SetMaxSize(n)
	}

	if o.timeout < 0 {
		return search.Request{}, fmt.Errorf("invalid --timeout: %s", o.timeout)
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	req := search.Request{
		Root:          root,
		Output:        output,
		Categories:    cats,
		Workers:       workers,
		BWLimit:       bwLimit,
		Timeout:       o.timeout,
		Collision:     collision,
		Verify:        o.verify,
		DryRun:        o.dryRun,
		PreserveMode:  o.preserve,
		PreserveTimes: o.preserve,
	}
	if !chain.Empty() {
		req.Filter = chain
	}
	return req, nil
}

// exitCode maps a finished search to the process exit status: 0 when every
// match was copied, 1 on partial failure, 2 when nothing could be done.
func exitCode(out engine.Outcome) int {
	switch {
	case out.OK():
		return 0
	case out.Err != nil && out.Copied == 0:
		return 2
	default:
		return 1
	}
}

// wantReveal reports whether --open should show the output folder. Nothing
// is shown after a cancel or when the run failed, since the folder may not
// exist.
func wantReveal(open bool, state search.State, out engine.Outcome) bool {
	return open && state != search.Failed && !errors.Is(out.Err, context.Canceled)
}
