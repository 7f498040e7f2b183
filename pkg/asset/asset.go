package asset

// Variable is a typed variable declared on a script asset.
type Variable struct {
	Name         string
	Type         TypeDescriptor
	Category     string // organizational category label (may be empty)
	Exposed      bool   // exposed on spawn / to the editor details panel
	DefaultValue string // static default literal; empty means unset
}

// Component is a named sub-object attached to a script asset, such as a
// mesh or collision shape. Class names the concrete implementing type.
// A component whose template class is unknown (empty Class) has no
// concrete template and is skipped by the encoder.
type Component struct {
	Name  string
	Class string
}

// ScriptAsset is one complete visual-program definition: identity,
// inheritance references, graphs, variables, and attached components.
//
// Graphs holds the top-level event graphs; Functions holds the function
// graphs. Both lists preserve the source's order. ParentClass and
// GeneratedClass are short type names and may be empty when the
// corresponding reference does not exist.
//
// The asset is a read-only view once constructed: encoders traverse it
// but never mutate it, and callers must not modify it concurrently with
// an in-flight export.
type ScriptAsset struct {
	Name           string
	Path           string // canonical asset path, e.g. "/Game/Doors/BP_Door"
	ParentClass    string // short name of the parent type (optional)
	GeneratedClass string // short name of the generated type (optional)
	Graphs         []*Graph
	Functions      []*Graph
	Variables      []Variable
	Components     []Component
}

// AllGraphs returns the asset's graphs in document order: every top-level
// graph first, then every function graph. The returned slice is fresh;
// the graphs themselves are shared.
func (a *ScriptAsset) AllGraphs() []*Graph {
	out := make([]*Graph, 0, len(a.Graphs)+len(a.Functions))
	out = append(out, a.Graphs...)
	out = append(out, a.Functions...)
	return out
}

// Graph returns the named graph, searching top-level graphs first and
// function graphs second, or false when no graph has that name.
func (a *ScriptAsset) Graph(name string) (*Graph, bool) {
	for _, g := range a.Graphs {
		if g.Name() == name {
			return g, true
		}
	}
	for _, g := range a.Functions {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}
