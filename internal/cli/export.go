package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/mverhagen/bpdoc/pkg/config"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/pipeline"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	source   string // asset definition directory (overrides config)
	out      string // output directory (overrides config)
	formats  string // comma-separated formats (overrides config)
	all      bool   // export every asset instead of named ones
	index    bool   // write the index page on batch export
	refresh  bool   // re-export even when content is unchanged
	toc      bool   // prepend a table of contents to markdown pages
	detailed bool   // include port details in graph visualizations
	rankdir  string // graph layout direction (LR, TB, ...)
	noCache  bool   // disable the artifact cache
	query    string // JSONPath selection printed instead of exporting
}

// exportCommand creates the export command.
//
// Assets are referenced by name or content path. With --all the whole
// source directory is exported in one pass; with no arguments an
// interactive picker shows the repository listing.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{index: true}

	cmd := &cobra.Command{
		Use:   "export [asset...]",
		Short: "Export blueprint documentation",
		Long: `Export serializes blueprint assets into JSON documents and renders
markdown pages and graph visualizations into the output directory.

Unchanged assets are skipped based on the export history; pass --refresh
to force a re-export.

With --query no artifacts are written; the JSONPath selection over the
encoded document is printed instead.

Examples:
  bpdoc export BP_Door
  bpdoc export /Game/Doors/BP_Door --format json,markdown,svg
  bpdoc export --all --out docs/blueprints
  bpdoc export BP_Door --query '$.dependencies'
  bpdoc export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), &opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "asset definition directory")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, markdown, dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "export every blueprint in the source directory")
	cmd.Flags().BoolVar(&opts.index, "index", opts.index, "write the index page on --all")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-export even when content is unchanged")
	cmd.Flags().BoolVar(&opts.toc, "toc", false, "prepend a table of contents to markdown pages")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include port details in graph visualizations")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", "", "graph layout direction (LR, TB)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.query, "query", "", "print a JSONPath selection of the document instead of exporting")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts *exportOpts, args []string) error {
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

	if opts.all {
		if opts.query != "" {
			return errors.New(errors.ErrCodeInvalidInput, "--query inspects a single asset and cannot be combined with --all")
		}
		return c.exportAll(ctx, runner, repo, popts)
	}

	if len(args) == 0 {
		handles, err := repo.QueryByKind(ctx, registry.KindBlueprint)
		if err != nil {
			return err
		}
		if len(handles) == 0 {
			printWarning("No blueprint definitions under %s", root)
			return nil
		}
		h, ok, err := runAssetPicker(handles)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		args = []string{h.Path}
	}

	if opts.query != "" {
		for _, ref := range args {
			if err := c.queryOne(ctx, runner, repo, ref, opts.query); err != nil {
				return err
			}
		}
		return nil
	}

	for _, ref := range args {
		if err := c.exportOne(ctx, runner, repo, popts, ref); err != nil {
			return err
		}
	}
	return nil
}

// queryOne prints the JSONPath selection over one asset's encoded document.
func (c *CLI) queryOne(ctx context.Context, runner *pipeline.Runner, repo registry.Repository, ref, query string) error {
	expr, err := jp.ParseString(query)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid jsonpath '%s'", query)
	}

	h, err := findHandle(ctx, repo, ref)
	if err != nil {
		return err
	}
	a, err := repo.Resolve(ctx, h)
	if err != nil {
		return err
	}
	_, data, err := runner.EncodeDocument(ctx, a)
	if err != nil {
		return err
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, err, "decode document for %s", h.Name)
	}
	out, err := json.MarshalIndent(expr.Get(payload), "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode query result for %s", h.Name)
	}
	fmt.Println(string(out))
	return nil
}

// exportOne exports a single asset referenced by name or content path.
func (c *CLI) exportOne(ctx context.Context, runner *pipeline.Runner, repo registry.Repository, popts pipeline.Options, ref string) error {
	h, err := findHandle(ctx, repo, ref)
	if err != nil {
		return err
	}

	a, err := repo.Resolve(ctx, h)
	if err != nil {
		return err
	}

	sp := newSpinner(fmt.Sprintf("Exporting %s", h.Name))
	sp.Start()
	result, err := runner.Export(ctx, a, popts)
	sp.Stop()
	if err != nil {
		return err
	}

	if result.Skipped {
		printInfo("%s is up to date", h.Name)
		printDetail("use --refresh to re-export")
		return nil
	}

	printSuccess("Exported %s", h.Name)
	for _, f := range result.OutputFiles {
		printFile(f)
	}
	printStats(result.Stats.NodeCount, result.Stats.GraphCount, result.CacheInfo.ArtifactHit)
	return nil
}

// exportAll exports every blueprint under the repository and reports a
// summary, continuing past individual failures.
func (c *CLI) exportAll(ctx context.Context, runner *pipeline.Runner, repo registry.Repository, popts pipeline.Options) error {
	prog := newProgress(c.Logger)
	res, err := runner.ExportAll(ctx, repo, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d blueprints", res.Total))

	if res.Total == 0 {
		printWarning("No blueprint definitions found")
		return nil
	}

	printSuccess("Exported %d blueprints (%d up to date)", res.Exported, res.Skipped)
	if res.IndexFile != "" {
		printFile(res.IndexFile)
	}

	if res.Failed > 0 {
		printNewline()
		printWarning("%d blueprints failed", res.Failed)
		for path, ferr := range res.Errors {
			printDetail("%s: %v", path, errors.UserMessage(ferr))
		}
	}

	printNewline()
	printNextStep("Browse the docs", "bpdoc serve")
	return nil
}

// findHandle locates an asset by content path or short name.
func findHandle(ctx context.Context, repo registry.Repository, ref string) (registry.Handle, error) {
	handles, err := repo.QueryByKind(ctx, registry.KindBlueprint)
	if err != nil {
		return registry.Handle{}, err
	}
	for _, h := range handles {
		if h.Path == ref || h.Name == ref {
			return h, nil
		}
	}
	return registry.Handle{}, errors.New(errors.ErrCodeAssetNotFound, "no asset '%s' in the source directory", ref)
}

// sourceRoot picks the asset definition directory: flag, then config,
// then the working directory.
func sourceRoot(cfg config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	if cfg.AssetRoot != "" {
		return cfg.AssetRoot
	}
	return "."
}

// exportOptions builds pipeline options from the config file with flag
// overrides applied.
func exportOptions(cfg config.Config, opts *exportOpts, c *CLI) (pipeline.Options, error) {
	ttl, err := cfg.Cache.TTLDuration()
	if err != nil {
		return pipeline.Options{}, err
	}

	p := pipeline.Options{
		Formats:    cfg.Formats,
		OutDir:     cfg.OutDir,
		WriteIndex: cfg.Index && opts.index,
		Refresh:    opts.refresh,
		TOC:        opts.toc,
		Detailed:   opts.detailed,
		Rankdir:    opts.rankdir,
		CacheTTL:   ttl,
		Logger:     c.Logger,
	}
	if f := parseFormats(opts.formats); f != nil {
		p.Formats = f
	}
	if opts.out != "" {
		p.OutDir = opts.out
	}
	return p, nil
}
