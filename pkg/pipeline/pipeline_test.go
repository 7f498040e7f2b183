package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/cache"
	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/ledger"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// doorAsset builds the canonical two-node door fixture: a BeginPlay event
// wired to an external interface call.
func doorAsset() *asset.ScriptAsset {
	g := asset.NewGraph("EventGraph")
	_ = g.AddNode(asset.Node{
		ID:    "EvtBeginPlay",
		Class: "K2Node_Event",
		Title: "Event BeginPlay",
		Ports: []asset.Port{
			{Name: "then", Direction: asset.Output, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
		},
	})
	_ = g.AddNode(asset.Node{
		ID:     "CallOpen",
		Class:  "K2Node_CallFunction",
		Title:  "Open",
		Member: &asset.MemberRef{Name: "Open", Parent: "/Game/Interact.InteractInterface"},
		Ports: []asset.Port{
			{Name: "exec", Direction: asset.Input, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
		},
	})
	_ = g.Connect("EvtBeginPlay", "then", "CallOpen", "exec")

	return &asset.ScriptAsset{
		Name:   "Door",
		Path:   "/Game/Doors/Door",
		Graphs: []*asset.Graph{g},
	}
}

func lampAsset() *asset.ScriptAsset {
	return &asset.ScriptAsset{
		Name: "Lamp",
		Path: "/Game/Lamps/Lamp",
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "markdown", "dot", "svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "yaml"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if len(opts.Formats) != 2 || opts.Formats[0] != FormatJSON || opts.Formats[1] != FormatMarkdown {
		t.Errorf("Formats should default to [json markdown], got %v", opts.Formats)
	}
	if opts.OutDir != DefaultOutDir {
		t.Errorf("OutDir should be %s, got %s", DefaultOutDir, opts.OutDir)
	}
	if opts.CacheTTL != cache.DefaultTTL {
		t.Errorf("CacheTTL should be %v, got %v", cache.DefaultTTL, opts.CacheTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsRejectUnknownFormat(t *testing.T) {
	opts := Options{Formats: []string{"yaml"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("got code %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{OutDir: "custom"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalFormats := opts.Formats
	originalOutDir := opts.OutDir

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
	if opts.OutDir != originalOutDir {
		t.Error("OutDir changed on second call")
	}
}

func TestOptionsShouldRenderChains(t *testing.T) {
	opts := Options{}
	if !opts.ShouldRenderChains() {
		t.Error("Default should render chains")
	}

	opts.SkipChains = true
	if opts.ShouldRenderChains() {
		t.Error("SkipChains=true should not render chains")
	}
}

func TestOptionsHasFormat(t *testing.T) {
	opts := Options{Formats: []string{FormatJSON, FormatMarkdown}}
	if !opts.HasFormat(FormatMarkdown) {
		t.Error("markdown should be reported present")
	}
	if opts.HasFormat(FormatSVG) {
		t.Error("svg should not be reported present")
	}
}

func TestArtifactKeyOptsCarryRenderSettings(t *testing.T) {
	opts := Options{TOC: true, Rankdir: "TB"}
	keyOpts := opts.ArtifactKeyOpts(FormatMarkdown)

	if keyOpts.Format != FormatMarkdown {
		t.Errorf("Format = %q, want markdown", keyOpts.Format)
	}
	if !keyOpts.TOC || !keyOpts.Chains {
		t.Errorf("render settings not carried: %+v", keyOpts)
	}
	if keyOpts.Rankdir != "TB" {
		t.Errorf("Rankdir = %q, want TB", keyOpts.Rankdir)
	}
}

func TestRelDocPath(t *testing.T) {
	tests := []struct {
		assetPath string
		want      string
	}{
		{"/Game/Doors/BP_Door", "Doors/BP_Door"},
		{"/Game/BP_Root", "BP_Root"},
		{"/Engine/BP_Other", "Engine/BP_Other"},
	}

	for _, tt := range tests {
		if got := RelDocPath(tt.assetPath); got != tt.want {
			t.Errorf("RelDocPath(%q) = %q, want %q", tt.assetPath, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	got := OutputPath("docs", "/Game/Doors/BP_Door", FormatMarkdown)
	want := filepath.Join("docs", "Doors", "BP_Door") + ".md"
	if got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
}

func TestRenderDocumentNil(t *testing.T) {
	_, err := RenderDocument(context.Background(), nil, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got code %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRenderDocumentFormats(t *testing.T) {
	doc, err := export.Encode(doorAsset())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	artifacts, err := RenderDocument(context.Background(), doc, Options{
		Formats: []string{FormatJSON, FormatMarkdown, FormatDOT},
	})
	if err != nil {
		t.Fatalf("RenderDocument failed: %v", err)
	}

	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}
	if !strings.Contains(string(artifacts[FormatMarkdown]), "# Door") {
		t.Error("markdown artifact missing page header")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), "digraph G") {
		t.Error("dot artifact missing digraph prologue")
	}
	if !strings.HasPrefix(string(artifacts[FormatJSON]), "{") {
		t.Error("json artifact is not an object")
	}
}

func TestRenderDocumentSkipsGraphFormatsWithoutGraphs(t *testing.T) {
	doc, err := export.Encode(lampAsset())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	artifacts, err := RenderDocument(context.Background(), doc, Options{
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("RenderDocument failed: %v", err)
	}

	if _, ok := artifacts[FormatDOT]; ok {
		t.Error("dot artifact should be omitted for graphless assets")
	}
	if _, ok := artifacts[FormatJSON]; !ok {
		t.Error("json artifact should still be rendered")
	}
}

func TestExportWritesArtifacts(t *testing.T) {
	ctx := context.Background()
	outDir := t.TempDir()
	runner := NewRunner(nil, nil, testLogger())

	res, err := runner.Export(ctx, doorAsset(), Options{
		Formats: []string{FormatJSON, FormatMarkdown, FormatDOT},
		OutDir:  outDir,
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if res.Skipped {
		t.Error("fresh export should not be skipped")
	}
	if res.ContentHash == "" {
		t.Error("missing content hash")
	}
	if res.Stats.NodeCount != 2 || res.Stats.GraphCount != 1 {
		t.Errorf("stats = %d nodes / %d graphs, want 2/1", res.Stats.NodeCount, res.Stats.GraphCount)
	}
	if len(res.OutputFiles) != 3 {
		t.Fatalf("got %d output files, want 3: %v", len(res.OutputFiles), res.OutputFiles)
	}

	// The output tree mirrors the asset path
	page, err := os.ReadFile(filepath.Join(outDir, "Doors", "Door.md"))
	if err != nil {
		t.Fatalf("markdown page missing: %v", err)
	}
	if !strings.Contains(string(page), "# Door") {
		t.Error("markdown page missing header")
	}
}

func TestExportSkipsUnchangedContent(t *testing.T) {
	ctx := context.Background()
	outDir := t.TempDir()

	history, err := ledger.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("ledger open failed: %v", err)
	}
	t.Cleanup(func() { _ = history.Close() })

	runner := NewRunner(nil, nil, testLogger())
	runner.History = history
	opts := Options{Formats: []string{FormatJSON}, OutDir: outDir}

	first, err := runner.Export(ctx, doorAsset(), opts)
	if err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	if first.Skipped {
		t.Fatal("first export should not be skipped")
	}

	second, err := runner.Export(ctx, doorAsset(), opts)
	if err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if !second.Skipped {
		t.Error("unchanged content should be skipped")
	}
	if len(second.OutputFiles) != len(first.OutputFiles) {
		t.Errorf("skipped export should report previous output files: %v", second.OutputFiles)
	}

	forced, err := runner.Export(ctx, doorAsset(), Options{Formats: []string{FormatJSON}, OutDir: outDir, Refresh: true})
	if err != nil {
		t.Fatalf("forced export failed: %v", err)
	}
	if forced.Skipped {
		t.Error("refresh should bypass change detection")
	}
}

func TestRenderArtifactCaching(t *testing.T) {
	ctx := context.Background()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("cache setup failed: %v", err)
	}
	runner := NewRunner(c, nil, testLogger())
	t.Cleanup(func() { _ = runner.Close() })

	doc, err := export.Encode(doorAsset())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data, err := export.MarshalDocument(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	hash := cache.Hash(data)
	opts := Options{Formats: []string{FormatJSON, FormatMarkdown}}

	_, hit, err := runner.RenderWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}

	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if !strings.Contains(string(artifacts[FormatMarkdown]), "# Door") {
		t.Error("cached markdown artifact corrupted")
	}

	// Different render settings must not reuse the cached artifact
	_, hit, err = runner.RenderWithCacheInfo(ctx, doc, hash, Options{Formats: []string{FormatJSON, FormatMarkdown}, TOC: true})
	if err != nil {
		t.Fatalf("third render failed: %v", err)
	}
	if hit {
		t.Error("changed render settings should miss the cache")
	}
}

// failingRepo fails resolution for one path and delegates the rest.
type failingRepo struct {
	*registry.Memory
	failPath string
}

func (f *failingRepo) Resolve(ctx context.Context, h registry.Handle) (*asset.ScriptAsset, error) {
	if h.Path == f.failPath {
		return nil, errors.New(errors.ErrCodeAssetNotFound, "asset %q is gone", h.Path)
	}
	return f.Memory.Resolve(ctx, h)
}

func TestExportAllWritesIndex(t *testing.T) {
	ctx := context.Background()
	outDir := t.TempDir()

	repo := registry.NewMemory()
	repo.Add(doorAsset())
	repo.Add(lampAsset())

	runner := NewRunner(nil, nil, testLogger())
	batch, err := runner.ExportAll(ctx, repo, Options{
		Formats:    []string{FormatJSON, FormatMarkdown},
		OutDir:     outDir,
		WriteIndex: true,
	})
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	if batch.Total != 2 || batch.Exported != 2 || batch.Failed != 0 {
		t.Errorf("batch = %d/%d exported, %d failed", batch.Exported, batch.Total, batch.Failed)
	}
	if batch.IndexFile == "" {
		t.Fatal("index file should have been written")
	}

	index, err := os.ReadFile(batch.IndexFile)
	if err != nil {
		t.Fatalf("index missing: %v", err)
	}
	content := string(index)
	if !strings.Contains(content, "# Blueprint Index") {
		t.Error("index missing header")
	}
	if !strings.Contains(content, "**Total Blueprints:** 2") {
		t.Error("index missing total count")
	}
	if !strings.Contains(content, "Doors/Door.md") {
		t.Error("index missing link to exported page")
	}
}

func TestExportAllContinuesOnFailure(t *testing.T) {
	ctx := context.Background()

	mem := registry.NewMemory()
	mem.Add(doorAsset())
	mem.Add(lampAsset())
	repo := &failingRepo{Memory: mem, failPath: "/Game/Lamps/Lamp"}

	runner := NewRunner(nil, nil, testLogger())
	batch, err := runner.ExportAll(ctx, repo, Options{
		Formats: []string{FormatJSON},
		OutDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	if batch.Exported != 1 || batch.Failed != 1 {
		t.Errorf("batch = %d exported / %d failed, want 1/1", batch.Exported, batch.Failed)
	}
	if _, ok := batch.Errors["/Game/Lamps/Lamp"]; !ok {
		t.Error("failure should be recorded per asset")
	}
}

func TestExportAllNilRepository(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	_, err := runner.ExportAll(context.Background(), nil, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got code %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}
