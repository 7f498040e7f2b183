// Package pipeline provides the core export pipeline for bpdoc.
//
// This package implements the complete encode → render → write pipeline that
// can be used by CLI, API, and watcher components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Encode: Convert a script asset into its hierarchical JSON document
//  2. Render: Generate output artifacts in the requested formats
//  3. Write: Persist artifacts under the output directory, mirroring asset paths
//
// Each stage can be run independently or as part of the complete pipeline.
// Rendered artifacts are cached by asset path, content hash, and render
// settings, so re-exporting an unchanged asset is cheap. When a history
// ledger is attached, exports of unchanged content are skipped entirely
// unless a refresh is forced.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"json", "markdown"},
//	    OutDir:  "docs/blueprints",
//	}
//	result, err := runner.Export(ctx, a, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["markdown"]
//
// Run individual stages:
//
//	// Encode only
//	doc, data, err := runner.EncodeDocument(ctx, a)
//
//	// Render with an existing document
//	artifacts, err := runner.Render(ctx, doc, contentHash, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mverhagen/bpdoc/pkg/cache"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watcher
// =============================================================================

// DefaultOutDir is the default output directory for exported documentation.
const DefaultOutDir = "docs/blueprints"

// Format constants for output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatPNG      = "png"
)

// DefaultFormats are the formats produced when none are requested.
var DefaultFormats = []string{FormatJSON, FormatMarkdown}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the export pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats     []string `json:"formats,omitempty"`
	TOC         bool     `json:"toc,omitempty"`
	SkipChains  bool     `json:"skip_chains,omitempty"` // Omit execution chains from markdown
	Detailed    bool     `json:"detailed,omitempty"`    // Include node class details in graph labels
	Rankdir     string   `json:"rankdir,omitempty"`
	GeneratedBy string   `json:"generated_by,omitempty"` // Footer line for markdown pages

	// Write options
	OutDir     string `json:"out_dir,omitempty"`
	WriteIndex bool   `json:"write_index,omitempty"`

	// Cache options
	Refresh  bool          `json:"refresh,omitempty"`
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run for one asset.
type Result struct {
	// Document is the encoded document.
	Document *export.Document

	// ContentHash is the content hash of the canonical document JSON.
	ContentHash string

	// Artifacts contains rendered outputs keyed by format. Empty when the
	// export was skipped.
	Artifacts map[string][]byte

	// OutputFiles lists the files written for this asset. For a skipped
	// export it carries the files recorded by the previous run.
	OutputFiles []string

	// Skipped reports that the content was unchanged since the last
	// recorded export and no artifacts were rendered or written.
	Skipped bool

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	GraphCount int
	EncodeTime time.Duration
	RenderTime time.Duration
	WriteTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ArtifactHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// HasFormat reports whether format is among the requested formats.
func (o *Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ShouldRenderChains returns whether markdown pages include execution chains.
func (o *Options) ShouldRenderChains() bool {
	return !o.SkipChains
}

// MarkdownOptions returns render options for markdown pages.
func (o *Options) MarkdownOptions() []render.MarkdownOption {
	var mdOpts []render.MarkdownOption
	if o.TOC {
		mdOpts = append(mdOpts, render.WithTOC())
	}
	if o.SkipChains {
		mdOpts = append(mdOpts, render.WithExecutionChains(false))
	}
	if o.GeneratedBy != "" {
		mdOpts = append(mdOpts, render.WithGeneratedBy(o.GeneratedBy))
	}
	return mdOpts
}

// DOTOptions returns render options for graph visualizations.
func (o *Options) DOTOptions() render.DOTOptions {
	return render.DOTOptions{
		Detailed: o.Detailed,
		Rankdir:  o.Rankdir,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		TOC:         o.TOC,
		Chains:      o.ShouldRenderChains(),
		Detailed:    o.Detailed,
		Rankdir:     o.Rankdir,
		GeneratedBy: o.GeneratedBy,
	}
}
