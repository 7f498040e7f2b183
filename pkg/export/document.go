package export

// ClassTypeBlueprint is the class_type discriminator stamped on every
// document produced by this encoder.
const ClassTypeBlueprint = "Blueprint"

// Document is the top-level export record for one script asset.
//
// Struct tags define both the JSON wire format consumed by downstream
// tooling and the BSON form used by the document archive. Field order is
// part of the wire contract.
type Document struct {
	Name           string         `json:"name" bson:"name"`
	Path           string         `json:"path" bson:"path"`
	ClassType      string         `json:"class_type" bson:"class_type"`
	ParentClass    string         `json:"parent_class,omitempty" bson:"parent_class,omitempty"`
	GeneratedClass string         `json:"generated_class,omitempty" bson:"generated_class,omitempty"`
	Graphs         []GraphDoc     `json:"graphs" bson:"graphs"`
	Variables      []VariableDoc  `json:"variables" bson:"variables"`
	Functions      []FunctionDoc  `json:"functions" bson:"functions"`
	Components     []ComponentDoc `json:"components" bson:"components"`
	Dependencies   []string       `json:"dependencies" bson:"dependencies"`
}

// GraphDoc is the encoded form of one graph: its name and its nodes in
// the order the source graph provides them.
type GraphDoc struct {
	Name  string    `json:"name" bson:"name"`
	Nodes []NodeDoc `json:"nodes" bson:"nodes"`
}

// NodeDoc is the encoded form of one node. Type carries the taxonomy tag
// ("Event", "CallExternalFunction", ...) or the concrete class name for
// unclassified nodes. Connections lists the distinct downstream node IDs
// reachable through this node's output wires, in first-seen order.
type NodeDoc struct {
	ID          string      `json:"id" bson:"id"`
	Type        string      `json:"type" bson:"type"`
	Title       string      `json:"title" bson:"title"`
	Category    string      `json:"category" bson:"category"`
	Position    PositionDoc `json:"position" bson:"position"`
	Pins        []PinDoc    `json:"pins" bson:"pins"`
	Connections []string    `json:"connections" bson:"connections"`
}

// PositionDoc is a node's editor canvas position.
type PositionDoc struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PinDoc is the encoded form of one port. DefaultValue appears only when
// the port carries a non-empty static literal; its absence means the port
// is driven by a wire or an engine default.
type PinDoc struct {
	Name         string `json:"name" bson:"name"`
	DisplayName  string `json:"display_name" bson:"display_name"`
	Direction    string `json:"direction" bson:"direction"`
	Type         string `json:"type" bson:"type"`
	DefaultValue string `json:"default_value,omitempty" bson:"default_value,omitempty"`
}

// VariableDoc is the encoded form of one variable declaration.
type VariableDoc struct {
	Name         string `json:"name" bson:"name"`
	Type         string `json:"type" bson:"type"`
	Category     string `json:"category" bson:"category"`
	IsExposed    bool   `json:"is_exposed" bson:"is_exposed"`
	DefaultValue string `json:"default_value,omitempty" bson:"default_value,omitempty"`
}

// FunctionDoc is the signature view of one function graph: its name, the
// parameter list derived from the graph's entry node, and the same graph's
// full structural record. The graph also appears in Document.Graphs; both
// views are derived from the same source on every export so they cannot
// drift apart.
type FunctionDoc struct {
	Name       string     `json:"name" bson:"name"`
	Parameters []ParamDoc `json:"parameters" bson:"parameters"`
	Graph      GraphDoc   `json:"graph" bson:"graph"`
}

// ParamDoc is one function parameter: a name and a canonical type string.
type ParamDoc struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
}

// ComponentDoc is the encoded form of one attached component.
type ComponentDoc struct {
	Name  string `json:"name" bson:"name"`
	Class string `json:"class" bson:"class"`
}

// NodeCount returns the total number of nodes across all encoded graphs.
func (d *Document) NodeCount() int {
	total := 0
	for i := range d.Graphs {
		total += len(d.Graphs[i].Nodes)
	}
	return total
}
