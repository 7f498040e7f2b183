package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/registry"
	"github.com/mverhagen/bpdoc/pkg/render"
)

// IndexFileName is the name of the index page written at the output root.
const IndexFileName = "index.md"

// BatchResult summarizes an ExportAll run.
type BatchResult struct {
	// Total is the number of assets the repository reported.
	Total int

	// Exported counts assets whose artifacts were rendered and written.
	Exported int

	// Skipped counts assets whose content was unchanged.
	Skipped int

	// Failed counts assets that could not be resolved or exported.
	Failed int

	// Errors maps asset paths to their failure, for every failed asset.
	Errors map[string]error

	// OutputFiles lists every file written during the batch, the index
	// page included.
	OutputFiles []string

	// IndexFile is the path of the written index page, or empty when no
	// index was written.
	IndexFile string
}

// ExportAll exports every asset the repository knows about.
//
// Per-asset failures are logged and counted but do not stop the batch; the
// returned error covers only repository listing, index writing, and context
// cancellation. When opts.WriteIndex is set and markdown is among the
// requested formats, an index page linking all exported assets is written at
// the output root.
func (r *Runner) ExportAll(ctx context.Context, repo registry.Repository, opts Options) (*BatchResult, error) {
	if repo == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "repository is nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	handles, err := repo.QueryByKind(ctx, registry.KindBlueprint)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{
		Total:  len(handles),
		Errors: make(map[string]error),
	}
	entries := make([]render.IndexEntry, 0, len(handles))

	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, err := repo.Resolve(ctx, h)
		if err != nil {
			r.Logger.Warn("skipping unresolvable asset", "asset", h.Path, "error", err)
			batch.Failed++
			batch.Errors[h.Path] = err
			continue
		}

		res, err := r.Export(ctx, a, opts)
		if err != nil {
			r.Logger.Warn("failed to export asset", "asset", h.Path, "error", err)
			batch.Failed++
			batch.Errors[h.Path] = err
			continue
		}

		if res.Skipped {
			batch.Skipped++
		} else {
			batch.Exported++
			batch.OutputFiles = append(batch.OutputFiles, res.OutputFiles...)
		}
		entries = append(entries, render.IndexEntry{
			Name: res.Document.Name,
			Path: res.Document.Path,
			Link: RelDocPath(res.Document.Path) + formatExtensions[FormatMarkdown],
		})
	}

	if opts.WriteIndex && opts.HasFormat(FormatMarkdown) && len(entries) > 0 {
		indexFile, err := writeIndex(entries, opts)
		if err != nil {
			return nil, err
		}
		batch.IndexFile = indexFile
		batch.OutputFiles = append(batch.OutputFiles, indexFile)
	}

	r.Logger.Info("batch export complete",
		"total", batch.Total,
		"exported", batch.Exported,
		"skipped", batch.Skipped,
		"failed", batch.Failed)

	return batch, nil
}

// writeIndex renders the index page and writes it at the output root.
func writeIndex(entries []render.IndexEntry, opts Options) (string, error) {
	var mdOpts []render.MarkdownOption
	if opts.GeneratedBy != "" {
		mdOpts = append(mdOpts, render.WithGeneratedBy(opts.GeneratedBy))
	}

	data, err := render.Index(entries, mdOpts...)
	if err != nil {
		return "", err
	}

	path := filepath.Join(opts.OutDir, IndexFileName)
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to create output directory %s", opts.OutDir)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to write index %s", path)
	}
	return path, nil
}
