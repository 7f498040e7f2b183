package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
)

// DOTOptions configures graph diagram generation.
type DOTOptions struct {
	// Detailed adds the node type tag and category to each label.
	// When false, only the node title is shown.
	Detailed bool

	// Rankdir sets the layout direction. Defaults to "LR", matching how
	// script graphs read in the editor.
	Rankdir string
}

// fillColors maps taxonomy tags to the fill used in diagrams, loosely
// following the editor's node palette.
var fillColors = map[string]string{
	"Event":                "lightcoral",
	"FunctionEntry":        "plum",
	"CallExternalFunction": "lightblue",
	"VariableRead":         "palegreen",
	"VariableWrite":        "darkseagreen",
}

// ToDOT converts one encoded graph to Graphviz DOT. The resulting
// string renders with [RenderSVG] or [RenderPNG].
func ToDOT(g export.GraphDoc, opts DOTOptions) string {
	rankdir := opts.Rankdir
	if rankdir == "" {
		rankdir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(n, opts.Detailed))}
		if color, ok := fillColors[n.Type]; ok {
			attrs = append(attrs, "fillcolor="+color)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range g.Nodes {
		n := &g.Nodes[i]
		for _, target := range n.Connections {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n *export.NodeDoc, detailed bool) string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	parts := []string{label, n.Type}
	if n.Category != "" {
		parts = append(parts, n.Category)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to initialize graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "failed to render %s", format)
	}
	return buf.Bytes(), nil
}
