package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mverhagen/bpdoc/pkg/errors"
	"github.com/mverhagen/bpdoc/pkg/export"
)

// Hard limits keeping generated pages readable for very large assets.
const (
	maxListedDeps = 15
	maxChainSteps = 50
)

// MarkdownOption configures [Markdown] and [Index] output.
type MarkdownOption func(*markdownConfig)

type markdownConfig struct {
	toc         bool
	chains      bool
	generatedBy string
}

// WithTOC prepends a table of contents linking the page's sections.
func WithTOC() MarkdownOption {
	return func(c *markdownConfig) { c.toc = true }
}

// WithExecutionChains controls whether per-graph execution chains are
// traced from event and entry nodes. Enabled by default.
func WithExecutionChains(enabled bool) MarkdownOption {
	return func(c *markdownConfig) { c.chains = enabled }
}

// WithGeneratedBy appends a footer line naming the generator.
func WithGeneratedBy(name string) MarkdownOption {
	return func(c *markdownConfig) { c.generatedBy = name }
}

func newMarkdownConfig(opts []MarkdownOption) markdownConfig {
	cfg := markdownConfig{chains: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Markdown renders a documentation page for one exported asset.
func Markdown(doc *export.Document, opts ...MarkdownOption) ([]byte, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document to render")
	}
	cfg := newMarkdownConfig(opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", doc.Name)
	fmt.Fprintf(&buf, "**Type:** %s\n", doc.ClassType)
	fmt.Fprintf(&buf, "**Path:** `%s`\n", doc.Path)
	if doc.ParentClass != "" {
		fmt.Fprintf(&buf, "**Parent Class:** %s\n", doc.ParentClass)
	}
	if doc.GeneratedClass != "" {
		fmt.Fprintf(&buf, "**Generated Class:** %s\n", doc.GeneratedClass)
	}
	buf.WriteString("\n")

	if cfg.toc {
		writeTOC(&buf, doc)
	}

	if len(doc.Components) > 0 {
		buf.WriteString("## Components\n\n")
		for _, comp := range doc.Components {
			fmt.Fprintf(&buf, "- **%s** (%s)\n", comp.Name, comp.Class)
		}
		buf.WriteString("\n")
	}

	if len(doc.Variables) > 0 {
		buf.WriteString("## Variables\n\n")
		buf.WriteString("| Name | Type | Category | Exposed | Default |\n")
		buf.WriteString("|------|------|----------|---------|--------|\n")
		for _, v := range doc.Variables {
			fmt.Fprintf(&buf, "| %s | %s | %s | %t | %s |\n",
				v.Name, v.Type, v.Category, v.IsExposed, v.DefaultValue)
		}
		buf.WriteString("\n")
	}

	if len(doc.Functions) > 0 {
		buf.WriteString("## Functions\n\n")
		for _, fn := range doc.Functions {
			params := make([]string, 0, len(fn.Parameters))
			for _, p := range fn.Parameters {
				params = append(params, p.Name+": "+p.Type)
			}
			fmt.Fprintf(&buf, "### %s(%s)\n\n", fn.Name, strings.Join(params, ", "))
		}
	}

	if len(doc.Graphs) > 0 {
		buf.WriteString("## Graphs\n\n")
		for gi := range doc.Graphs {
			writeGraphSection(&buf, &doc.Graphs[gi], cfg)
		}
	}

	if len(doc.Dependencies) > 0 {
		buf.WriteString("## Dependencies\n\n")
		for i, dep := range doc.Dependencies {
			if i == maxListedDeps {
				fmt.Fprintf(&buf, "\n_...and %d more_\n", len(doc.Dependencies)-maxListedDeps)
				break
			}
			fmt.Fprintf(&buf, "- `%s`\n", dep)
		}
		buf.WriteString("\n")
	}

	if cfg.generatedBy != "" {
		fmt.Fprintf(&buf, "---\n_Generated by %s_\n", cfg.generatedBy)
	}

	return buf.Bytes(), nil
}

func writeTOC(buf *bytes.Buffer, doc *export.Document) {
	buf.WriteString("## Contents\n\n")
	if len(doc.Components) > 0 {
		buf.WriteString("- [Components](#components)\n")
	}
	if len(doc.Variables) > 0 {
		buf.WriteString("- [Variables](#variables)\n")
	}
	if len(doc.Functions) > 0 {
		buf.WriteString("- [Functions](#functions)\n")
	}
	if len(doc.Graphs) > 0 {
		buf.WriteString("- [Graphs](#graphs)\n")
	}
	if len(doc.Dependencies) > 0 {
		buf.WriteString("- [Dependencies](#dependencies)\n")
	}
	buf.WriteString("\n")
}

func writeGraphSection(buf *bytes.Buffer, g *export.GraphDoc, cfg markdownConfig) {
	fmt.Fprintf(buf, "### %s\n\n", g.Name)
	fmt.Fprintf(buf, "**Total Nodes:** %d\n\n", len(g.Nodes))

	if cfg.chains {
		for i := range g.Nodes {
			if startsChain(g.Nodes[i].Type) {
				writeExecutionChain(buf, &g.Nodes[i], g)
			}
		}
	}

	calls := make([]*export.NodeDoc, 0)
	for i := range g.Nodes {
		if g.Nodes[i].Type == "CallExternalFunction" {
			calls = append(calls, &g.Nodes[i])
		}
	}
	if len(calls) > 0 {
		buf.WriteString("**Function Calls:**\n")
		for _, n := range calls {
			fmt.Fprintf(buf, "- %s\n", flatTitle(n))
		}
		buf.WriteString("\n")
	}
}

// startsChain reports whether nodes of this type begin an execution
// chain worth tracing: events in event graphs, entry nodes in function
// graphs.
func startsChain(nodeType string) bool {
	return nodeType == "Event" || nodeType == "FunctionEntry"
}

// writeExecutionChain walks the first outgoing connection from node to
// node, numbering each step. Cycles terminate the walk; very long
// chains are cut off at maxChainSteps.
func writeExecutionChain(buf *bytes.Buffer, start *export.NodeDoc, g *export.GraphDoc) {
	byID := make(map[string]*export.NodeDoc, len(g.Nodes))
	for i := range g.Nodes {
		byID[g.Nodes[i].ID] = &g.Nodes[i]
	}

	fmt.Fprintf(buf, "**%s**\n\n", flatTitle(start))

	visited := make(map[string]bool)
	current := start
	for step := 1; current != nil && !visited[current.ID]; step++ {
		if step > maxChainSteps {
			buf.WriteString("_(execution chain continues)_\n")
			break
		}
		visited[current.ID] = true
		fmt.Fprintf(buf, "%d. **%s** `[%s]`\n", step, flatTitle(current), current.Type)

		var next *export.NodeDoc
		for _, id := range current.Connections {
			if n, ok := byID[id]; ok {
				next = n
				break
			}
		}
		current = next
	}
	buf.WriteString("\n")
}

// flatTitle collapses multi-line node titles into one line. Falls back
// to the node ID when a node has no title at all.
func flatTitle(n *export.NodeDoc) string {
	title := strings.ReplaceAll(n.Title, "\n", " - ")
	if title == "" {
		return n.ID
	}
	return title
}
