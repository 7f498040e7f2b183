package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/cache"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/ledger"
	"github.com/mverhagen/bpdoc/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, history ledger, and logger -
// it doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// History records completed exports and enables change detection.
	// A nil History disables both.
	History *ledger.Ledger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Export runs the complete encode → render → write pipeline for one asset.
func (r *Runner) Export(ctx context.Context, a *asset.ScriptAsset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Encode
	encodeStart := time.Now()
	doc, data, err := r.EncodeDocument(ctx, a)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.ContentHash = cache.Hash(data)
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.Stats.NodeCount = doc.NodeCount()
	result.Stats.GraphCount = len(doc.Graphs)

	r.Logger.Info("encoded document",
		"asset", doc.Path,
		"nodes", result.Stats.NodeCount,
		"graphs", result.Stats.GraphCount,
		"duration", result.Stats.EncodeTime)

	// Skip unchanged content when history is available
	if !opts.Refresh && r.History != nil {
		last, err := r.History.Last(ctx, doc.Path)
		if err != nil {
			r.Logger.Warn("failed to read export history", "asset", doc.Path, "error", err)
		} else if last != nil && last.ContentHash == result.ContentHash {
			result.Skipped = true
			result.OutputFiles = last.OutputFiles
			r.Logger.Info("content unchanged, skipping export", "asset", doc.Path)
			return result, nil
		}
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, result.ContentHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.ArtifactHit = renderHit

	r.Logger.Info("rendered artifacts",
		"asset", doc.Path,
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	// Stage 3: Write
	writeStart := time.Now()
	files, err := WriteArtifacts(ctx, doc, artifacts, opts)
	if err != nil {
		return nil, err
	}
	result.OutputFiles = files
	result.Stats.WriteTime = time.Since(writeStart)

	r.Logger.Info("wrote artifacts",
		"asset", doc.Path,
		"files", len(files),
		"duration", result.Stats.WriteTime)

	// Record the export so the next run can detect unchanged content
	if r.History != nil {
		entry := ledger.Entry{
			AssetPath:   doc.Path,
			ContentHash: result.ContentHash,
			Formats:     opts.Formats,
			OutputFiles: files,
		}
		if err := r.History.Record(ctx, entry); err != nil {
			r.Logger.Warn("failed to record export history", "asset", doc.Path, "error", err)
		}
	}

	return result, nil
}

// EncodeDocument converts an asset into its document and canonical JSON.
// The content hash identifying this asset revision is cache.Hash of the
// returned JSON.
func (r *Runner) EncodeDocument(ctx context.Context, a *asset.ScriptAsset) (*export.Document, []byte, error) {
	assetPath := ""
	if a != nil {
		assetPath = a.Path
	}

	start := time.Now()
	observability.Export().OnEncodeStart(ctx, assetPath)

	doc, err := export.Encode(a)
	var data []byte
	if err == nil {
		data, err = export.MarshalDocument(doc)
	}

	nodes := 0
	if doc != nil {
		nodes = doc.NodeCount()
	}
	observability.Export().OnEncodeComplete(ctx, assetPath, nodes, time.Since(start), err)

	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// RenderWithCacheInfo renders all requested formats with caching and returns
// cache hit info. The hit flag is true only when every format came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *export.Document, contentHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache (unless refresh requested)
	if !opts.Refresh {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(doc.Path, contentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	start := time.Now()
	observability.Export().OnRenderStart(ctx, doc.Path, opts.Formats)
	rendered, err := RenderDocument(ctx, doc, opts)
	observability.Export().OnRenderComplete(ctx, doc.Path, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(doc.Path, contentHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, opts.CacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *export.Document, contentHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, contentHash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (the cache and the history
// ledger).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		firstErr = r.Cache.Close()
	}
	if r.History != nil {
		if err := r.History.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
