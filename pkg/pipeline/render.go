package pipeline

import (
	"context"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
	"github.com/mverhagen/bpdoc/pkg/render"
)

// RenderDocument generates output artifacts in the requested formats.
//
// The json artifact is the canonical document; markdown is the full
// documentation page. The graph formats (dot, svg, png) visualize the
// asset's main graph - the first top-level graph - and are omitted for
// assets without graphs.
func RenderDocument(ctx context.Context, doc *export.Document, opts Options) (map[string][]byte, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = export.MarshalDocument(doc)
		case FormatMarkdown:
			data, err = render.Markdown(doc, opts.MarkdownOptions()...)
		case FormatDOT, FormatSVG, FormatPNG:
			data, err = renderMainGraph(ctx, doc, format, opts)
			if err == nil && data == nil {
				opts.Logger.Debug("asset has no graphs, skipping graph format",
					"asset", doc.Path, "format", format)
				continue
			}
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %q", format)
		}

		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderMainGraph renders the asset's first top-level graph in the given
// graph format. Returns nil data for assets without graphs.
func renderMainGraph(ctx context.Context, doc *export.Document, format string, opts Options) ([]byte, error) {
	if len(doc.Graphs) == 0 {
		return nil, nil
	}

	dot := render.ToDOT(doc.Graphs[0], opts.DOTOptions())

	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return render.RenderSVG(ctx, dot)
	case FormatPNG:
		return render.RenderPNG(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported graph format: %q", format)
}
