package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/observability"
	"github.com/mverhagen/bpdoc/pkg/registry"
)

// formatExtensions maps formats to output file extensions.
var formatExtensions = map[string]string{
	FormatJSON:     ".json",
	FormatMarkdown: ".md",
	FormatDOT:      ".dot",
	FormatSVG:      ".svg",
	FormatPNG:      ".png",
}

// RelDocPath returns the output-relative path (slash-separated, without
// extension) for an asset. The output tree mirrors asset paths: the content
// prefix is stripped and the remaining segments become directories.
func RelDocPath(assetPath string) string {
	if rel, ok := strings.CutPrefix(assetPath, registry.ContentPrefix+"/"); ok {
		return rel
	}
	return strings.TrimPrefix(assetPath, "/")
}

// OutputPath returns the file path for one rendered format of an asset.
func OutputPath(outDir, assetPath, format string) string {
	return filepath.Join(outDir, filepath.FromSlash(RelDocPath(assetPath))) + formatExtensions[format]
}

// WriteArtifacts persists rendered artifacts under opts.OutDir and returns
// the written file paths in format order.
func WriteArtifacts(ctx context.Context, doc *export.Document, artifacts map[string][]byte, opts Options) ([]string, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Export().OnWriteStart(ctx, doc.Path)

	files := make([]string, 0, len(artifacts))
	var writeErr error
	for _, format := range opts.Formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := OutputPath(opts.OutDir, doc.Path, format)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			writeErr = errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to create output directory for %s", doc.Path)
			break
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			writeErr = errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to write %s", path)
			break
		}
		files = append(files, path)
	}

	observability.Export().OnWriteComplete(ctx, doc.Path, files, time.Since(start), writeErr)
	if writeErr != nil {
		return nil, writeErr
	}
	return files, nil
}
