package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/filescope/internal/config"
	"github.com/bamsammich/filescope/internal/engine"
	"github.com/bamsammich/filescope/internal/filter"
	"github.com/bamsammich/filescope/internal/search"
	"github.com/bamsammich/filescope/internal/ui"
	"github.com/bamsammich/filescope/internal/ui/tui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates flag parsing and mode selection
func run() int {
	var o options
	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "filescope [flags] [root] <output>",
		Short: "Find images, videos, archives and sounds under a directory and copy them into one folder",
		Args: func(cmd *cobra.Command, args []string) error {
			if o.version {
				return nil
			}
			return cobra.MaximumNArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.version {
				fmt.Fprintf(os.Stdout, "filescope %s\n", version)
				return nil
			}

			if err := o.setPaths(args, cmd.Flags().Changed("root")); err != nil {
				return err
			}

			// Logging comes first so a config problem respects --quiet
			// and reaches the --log file.
			logs, err := setupLogging(&o, os.Stderr)
			if err != nil {
				return err
			}
			defer logs.close()
			slog.SetDefault(logs.logger)

			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "path", config.Path(), "error", err)
			}
			if err := applyConfigDefaults(cmd.Flags(), cfg.Defaults, &o, chain); err != nil {
				return err
			}

			req, err := o.buildRequest(chain)
			if err != nil {
				return err
			}
			if len(req.Categories) == 0 {
				slog.Warn("no categories selected, nothing will be copied (use --images, --videos, --archives, --sounds or --all)")
			}
			if o.dryRun {
				slog.Info("dry run mode")
			}

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Benchmark mode: measure throughput and auto-tune workers.
			if o.benchmark {
				benchResult, benchErr := engine.RunBenchmark(ctx, req.Root, req.Output, filter.Active(req.Categories...))
				if benchErr != nil {
					slog.Warn("benchmark failed", "error", benchErr)
				} else {
					fmt.Fprintln(os.Stderr, engine.FormatBenchmark(benchResult))
					if !cmd.Flags().Changed("workers") {
						req.Workers = benchResult.SuggestedWorkers
					}
				}
			}

			slog.Debug("starting search",
				"root", req.Root,
				"dst", req.Output,
				"categories", req.Categories,
				"workers", req.Workers,
				"collision", req.Collision,
				"filter", chain.String(),
			)

			runCtx, cancelRun := context.WithCancel(ctx)
			defer cancelRun()
			r := search.Start(runCtx, req)

			events := r.Events()
			// Per-file records go to the log file only, never the terminal.
			if logs.eventLog != nil {
				events = ui.TeeEvents(events, logs.eventLog)
			}

			isTTY := ui.IsTTY(os.Stderr.Fd())
			useTUI := o.tui && isTTY
			if o.tui && !isTTY {
				slog.Warn("--tui requires a terminal, falling back to inline output")
			}

			var presenter ui.Presenter
			var out engine.Outcome
			if useTUI {
				var reveal func() error
				if o.open {
					reveal = func() error {
						if !wantReveal(true, r.State(), r.Wait()) {
							return nil
						}
						return r.Reveal()
					}
				}
				tp := tui.NewPresenter(tui.Config{
					Stats:   r.Counter(),
					Workers: req.Workers,
					Root:    req.Root,
					Output:  req.Output,
					Theme:   cfg.Theme,
					Reveal:  reveal,
				})
				presenter = tp

				// The TUI owns the foreground so Bubble Tea can read stdin.
				if err := tp.Run(events); err != nil {
					slog.Warn("tui failed", "error", err)
				}

				// Leaving before completion cancels the search; drain until
				// the run closes the stream.
				cancelRun()
				for range events {
				}
				out = r.Wait()
			} else {
				presenter = ui.NewPresenter(ui.Config{
					Writer:     os.Stdout,
					ErrWriter:  os.Stderr,
					Stats:      r.Counter(),
					Root:       req.Root,
					Workers:    req.Workers,
					IsTTY:      isTTY,
					Quiet:      o.quiet,
					ForceFeed:  o.feed,
					ForceRate:  o.rate,
					NoProgress: o.noProgress,
				})

				var presenterErr error
				var presenterWg sync.WaitGroup
				presenterWg.Add(1)
				go func() {
					defer presenterWg.Done()
					presenterErr = presenter.Run(events)
				}()

				out = r.Wait()
				presenterWg.Wait()
				if presenterErr != nil {
					fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
				}

				if wantReveal(o.open, r.State(), out) {
					if err := r.Reveal(); err != nil {
						slog.Warn("could not open output folder", "dst", req.Output, "error", err)
					}
				}
			}
			stop()

			if !o.quiet {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if code := exitCode(out); code != 0 {
				err := out.Err
				if err == nil {
					err = out.FailureSummary()
				}
				if err != nil {
					slog.Error("search finished with errors", "state", r.State(), "error", err)
				}
				if out.VerifyFailed > 0 {
					slog.Error("verification failed", "mismatches", out.VerifyFailed)
				}
				return &exitError{code: code}
			}
			return nil
		},
	}

	registerFlags(rootCmd.Flags(), &o, chain)
	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
