package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/monitor"
	"github.com/mverhagen/bpdoc/pkg/pipeline"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// watchCommand creates the watch command for continuous re-export.
func (c *CLI) watchCommand() *cobra.Command {
	opts := exportOpts{index: true}
	var debounce time.Duration
	var initial bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the source directory and re-export on change",
		Long: `Watch monitors the asset definition directory and re-exports each
blueprint as its definition file is created or modified. Saves are
debounced so editors writing in bursts trigger one export.

Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context(), &opts, debounce, initial)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "asset definition directory")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s) (comma-separated)")
	cmd.Flags().BoolVar(&opts.toc, "toc", false, "prepend a table of contents to markdown pages")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include port details in graph visualizations")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", "", "graph layout direction (LR, TB)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay after the last write before exporting (default from config)")
	cmd.Flags().BoolVar(&initial, "initial", false, "export everything once before watching")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts *exportOpts, debounce time.Duration, initial bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	root := sourceRoot(cfg, opts.source)
	repo := registry.NewDir(root)

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts, err := exportOptions(cfg, opts, c)
	if err != nil {
		return err
	}

	if initial {
		if err := c.exportAll(ctx, runner, repo, popts); err != nil {
			return err
		}
	}

	if debounce == 0 {
		if debounce, err = cfg.Watch.DebounceDuration(); err != nil {
			return err
		}
	}

	watcher, err := monitor.NewWatcher(root, monitor.WatcherOptions{
		Debounce: debounce,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	mon, err := monitor.New(watcher, repo, monitor.Options{Logger: c.Logger})
	if err != nil {
		return err
	}
	if err := mon.Start(func(a *asset.ScriptAsset) {
		c.exportChanged(ctx, runner, popts, a)
	}); err != nil {
		return err
	}
	defer mon.Stop()

	watcher.Start(ctx)

	printInfo("Watching %s", root)
	printDetail("formats: %s %s %s", strings.Join(popts.Formats, ", "), iconArrow, popts.OutDir)
	printDetail("press ctrl+c to stop")

	<-ctx.Done()
	printNewline()
	printInfo("Stopped watching")
	return nil
}

// exportChanged handles one changed asset. It runs on the watcher's
// delivery goroutine, so failures are reported instead of returned.
func (c *CLI) exportChanged(ctx context.Context, runner *pipeline.Runner, popts pipeline.Options, a *asset.ScriptAsset) {
	result, err := runner.Export(ctx, a, popts)
	if err != nil {
		printError("%s: %s", a.Name, errors.UserMessage(err))
		return
	}
	if result.Skipped {
		printInfo("%s unchanged", a.Name)
		return
	}

	printSuccess("Exported %s", a.Name)
	for _, f := range result.OutputFiles {
		printFile(f)
	}
}
