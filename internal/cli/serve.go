package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mverhagen/bpdoc/pkg/monitor"
	"github.com/mverhagen/bpdoc/pkg/registry"
	"github.com/mverhagen/bpdoc/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := exportOpts{index: true}
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation API over HTTP",
		Long: `Serve exposes the repository over HTTP: asset listings, encoded
documents with JSONPath selection, rendered markdown and graph SVGs,
export history, and a websocket feed of asset changes at /api/watch.

Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "asset definition directory")
	cmd.Flags().BoolVar(&opts.toc, "toc", false, "prepend a table of contents to markdown responses")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include port details in graph visualizations")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", "", "graph layout direction (LR, TB)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *exportOpts, addr string) error {
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

	if addr == "" {
		addr = cfg.Server.Addr
	}

	// The websocket feed needs a running watcher. If the source directory
	// cannot be watched the API still serves, just without /api/watch.
	var events monitor.Source
	debounce, err := cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}
	watcher, err := monitor.NewWatcher(root, monitor.WatcherOptions{
		Debounce: debounce,
		Logger:   c.Logger,
	})
	if err != nil {
		c.Logger.Warn("watch feed disabled", "error", err)
	} else {
		defer watcher.Close()
		watcher.Start(ctx)
		events = watcher
	}

	srv, err := server.New(server.Options{
		Addr:   addr,
		Repo:   repo,
		Runner: runner,
		Events: events,
		Export: popts,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Serving on %s", addr)
	printDetail("source: %s", root)
	printDetail("api: http://localhost%s/api/assets", addr)

	return srv.ListenAndServe(ctx)
}
