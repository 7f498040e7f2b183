package export

import (
	"encoding/json"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

// emptyDocument is the placeholder returned by Marshal when there is no
// asset to serialize. Downstream consumers always receive well-formed JSON.
const emptyDocument = "{}"

// Encode serializes one script asset into its document form.
//
// The traversal is read-only and deterministic: graphs appear in document
// order (top-level graphs, then function graphs), nodes in their graph's
// order, ports in their node's order. Returns an INVALID_INPUT error when
// the asset reference is nil; there are no other failure modes.
func Encode(a *asset.ScriptAsset) (*Document, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no asset to serialize")
	}

	doc := &Document{
		Name:           a.Name,
		Path:           a.Path,
		ClassType:      ClassTypeBlueprint,
		ParentClass:    a.ParentClass,
		GeneratedClass: a.GeneratedClass,
		Graphs:         make([]GraphDoc, 0, len(a.Graphs)+len(a.Functions)),
		Variables:      encodeVariables(a.Variables),
		Functions:      encodeFunctions(a.Functions),
		Components:     encodeComponents(a.Components),
		Dependencies:   ExtractDependencies(a.Graphs),
	}

	for _, g := range a.AllGraphs() {
		if g == nil {
			continue
		}
		doc.Graphs = append(doc.Graphs, encodeGraph(g))
	}

	return doc, nil
}

// Marshal is the top-level export entry point: it encodes the asset and
// renders it as indented JSON. When the asset reference is absent, the
// returned bytes are the canonical empty-document placeholder "{}" and the
// error carries the INVALID_INPUT code — callers must check the error, but
// the bytes are always safe to hand to a JSON consumer.
func Marshal(a *asset.ScriptAsset) ([]byte, error) {
	doc, err := Encode(a)
	if err != nil {
		return []byte(emptyDocument), err
	}
	return MarshalDocument(doc)
}

// MarshalDocument renders an already-encoded document as indented JSON.
func MarshalDocument(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "marshal document %q", doc.Name)
	}
	return data, nil
}

// encodeGraph produces the structural record for one graph, preserving
// whatever node order the source provides.
func encodeGraph(g *asset.Graph) GraphDoc {
	gd := GraphDoc{
		Name:  g.Name(),
		Nodes: make([]NodeDoc, 0, g.Len()),
	}
	for i := 0; i < g.Len(); i++ {
		gd.Nodes = append(gd.Nodes, encodeNode(g, g.NodeAt(i)))
	}
	return gd
}

// encodeNode produces the record for one node. The type tag comes from the
// closed classification taxonomy; connections are the de-duplicated
// downstream node IDs computed from the graph's wire arena.
func encodeNode(g *asset.Graph, n *asset.Node) NodeDoc {
	nd := NodeDoc{
		ID:          n.ID,
		Type:        n.TypeTag(),
		Title:       n.Title,
		Category:    n.Category,
		Position:    PositionDoc{X: n.X, Y: n.Y},
		Pins:        make([]PinDoc, 0, len(n.Ports)),
		Connections: make([]string, 0),
	}
	for i := range n.Ports {
		nd.Pins = append(nd.Pins, encodePin(&n.Ports[i]))
	}
	nd.Connections = append(nd.Connections, g.ConnectedNodes(n.ID)...)
	return nd
}

// encodePin produces the record for one port. An empty default literal is
// omitted entirely: absence signals "driven by a wire or engine default",
// not "empty string value".
func encodePin(p *asset.Port) PinDoc {
	return PinDoc{
		Name:         p.Name,
		DisplayName:  p.DisplayName,
		Direction:    p.Direction.String(),
		Type:         p.Type.String(),
		DefaultValue: RenderLiteral(p.DefaultValue),
	}
}

// encodeVariables produces the variable declaration records.
func encodeVariables(vars []asset.Variable) []VariableDoc {
	out := make([]VariableDoc, 0, len(vars))
	for _, v := range vars {
		out = append(out, VariableDoc{
			Name:         v.Name,
			Type:         v.Type.String(),
			Category:     v.Category,
			IsExposed:    v.Exposed,
			DefaultValue: RenderLiteral(v.DefaultValue),
		})
	}
	return out
}

// encodeFunctions produces the signature view of every function graph. The
// parameter list is derived from the graph's entry nodes: every
// output-direction, non-exec port on an entry node declares one parameter.
// A graph with no entry node exposes an empty parameter list.
func encodeFunctions(fns []*asset.Graph) []FunctionDoc {
	out := make([]FunctionDoc, 0, len(fns))
	for _, g := range fns {
		if g == nil {
			continue
		}
		fd := FunctionDoc{
			Name:       g.Name(),
			Parameters: make([]ParamDoc, 0),
			Graph:      encodeGraph(g),
		}
		for i := 0; i < g.Len(); i++ {
			n := g.NodeAt(i)
			if n.Kind() != asset.KindFunctionEntry {
				continue
			}
			for pi := range n.Ports {
				p := &n.Ports[pi]
				if p.Direction != asset.Output || p.Type.IsExec() {
					continue
				}
				fd.Parameters = append(fd.Parameters, ParamDoc{Name: p.Name, Type: p.Type.String()})
			}
		}
		out = append(out, fd)
	}
	return out
}

// encodeComponents produces the component records, skipping components
// without a concrete template class.
func encodeComponents(comps []asset.Component) []ComponentDoc {
	out := make([]ComponentDoc, 0, len(comps))
	for _, c := range comps {
		if c.Class == "" {
			continue
		}
		out = append(out, ComponentDoc{Name: c.Name, Class: c.Class})
	}
	return out
}

// RenderLiteral renders a stored default literal into its canonical
// document form. The policy is a verbatim pass-through: the literal is
// reproduced exactly as stored, with no trimming, quoting or host-runtime
// coercion, so rendered values are reproducible anywhere. An empty literal
// renders empty (and is then omitted by the encoder).
//
// This function is the single point where literal policy lives; encoders
// must not format defaults themselves.
func RenderLiteral(v string) string {
	return v
}
