package asset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers because IDs are the
	// link targets used by connections.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique per graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.Connect] when the source
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.Connect] when the target
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownSourcePort is returned by [Graph.Connect] when the source
	// node has no port with the given name.
	ErrUnknownSourcePort = errors.New("unknown source port")

	// ErrUnknownTargetPort is returned by [Graph.Connect] when the target
	// node has no port with the given name.
	ErrUnknownTargetPort = errors.New("unknown target port")

	// ErrNotOutputPort is returned by [Graph.Connect] when the source port
	// is not an output. Wires always run output -> input.
	ErrNotOutputPort = errors.New("wire source must be an output port")

	// ErrNotInputPort is returned by [Graph.Connect] when the target port
	// is not an input. Wires always run output -> input.
	ErrNotInputPort = errors.New("wire target must be an input port")

	// ErrInvalidWire is returned by [Graph.Validate] when a stored wire
	// references a node or port index out of range. This indicates graph
	// corruption (wires are only appended through Connect).
	ErrInvalidWire = errors.New("wire references an index out of range")
)

// MemberRef identifies an externally defined member a node refers to:
// the called function for external-call nodes, or the accessed variable
// for variable accessors. Parent is the canonical path of the owning
// type (e.g. "/Script/Engine.Actor") and is what dependency extraction
// records for call nodes.
type MemberRef struct {
	Name   string // member (function or variable) name
	Parent string // canonical path of the member's owning type
}

// PortRef addresses a port inside a graph by index: Node indexes the
// graph's node sequence, Port indexes that node's port sequence. Wires
// are stored as PortRefs on the source port, which keeps the model free
// of pointers and reference cycles.
type PortRef struct {
	Node int // index into the graph's node sequence
	Port int // index into the target node's port sequence
}

// Port is a typed input or output slot on a node.
//
// DefaultValue holds the static literal used when no wire drives the port;
// an empty literal means "driven by a wire or engine default", not "empty
// string value". DefaultObject holds the path of a referenced object for
// object-category ports, and participates in dependency extraction.
//
// Links holds this port's outgoing wires and is only ever populated on
// output ports. Fan-out is permitted: one output may drive many inputs,
// and every underlying wire is preserved individually.
type Port struct {
	Name          string
	DisplayName   string
	Direction     Direction
	Type          TypeDescriptor
	DefaultValue  string
	DefaultObject string
	Links         []PortRef
}

// Node is a single operation in a graph.
//
// Class is the name of the node's concrete editor class (e.g.
// "K2Node_CallFunction") and drives kind classification; see [Classify].
// Member is set on nodes that reference an externally defined member and
// is nil otherwise. Ports is the node's ordered port sequence; order is
// preserved exactly as the source provides it.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID       string  // unique within the owning graph
	Class    string  // concrete editor class name
	Title    string  // human display title
	Category string  // declared menu/category string (may be empty)
	X, Y     float64 // editor canvas position
	Member   *MemberRef
	Ports    []Port
}

// Kind returns the node's taxonomy classification; see [Classify].
func (n *Node) Kind() Kind { return Classify(n.Class) }

// TypeTag returns the document-facing type tag for the node; see [TypeTag].
func (n *Node) TypeTag() string { return TypeTag(n.Class) }

// Port returns the first port with the given name, or false when no such
// port exists. Port names are expected to be unique per node; when they
// are not, lookup is first-match in port order.
func (n *Node) Port(name string) (*Port, bool) {
	for i := range n.Ports {
		if n.Ports[i].Name == name {
			return &n.Ports[i], true
		}
	}
	return nil, false
}

// portIndex returns the index of the first port with the given name, or -1.
func (n *Node) portIndex(name string) int {
	for i := range n.Ports {
		if n.Ports[i].Name == name {
			return i
		}
	}
	return -1
}

// Graph is an ordered collection of nodes representing one flow of
// execution or data. Nodes are held in a flat, index-addressable arena
// in insertion order; the encoder preserves whatever order the source
// provides and the graph imposes none of its own.
//
// The zero value is not usable - use NewGraph to create a valid instance.
// Graph is not safe for concurrent mutation; see the package comment for
// the intended build-then-read lifecycle.
type Graph struct {
	name  string
	nodes []Node
	index map[string]int // node ID -> arena index
}

// NewGraph creates an empty graph with the given display name.
func NewGraph(name string) *Graph {
	return &Graph{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the graph's display name.
func (g *Graph) Name() string { return g.name }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// AddNode appends a node to the graph's arena.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists.
//
// Adding a node may grow the arena: pointers previously obtained from
// [Graph.Node] or [Graph.NodeAt] must not be retained across AddNode calls.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// Node returns a pointer to the node with the given ID, or false when the
// ID is unknown. The pointer is into the graph's arena and is invalidated
// by a subsequent AddNode.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// NodeAt returns a pointer to the node at arena index i.
// It panics if i is out of range, mirroring slice indexing.
func (g *Graph) NodeAt(i int) *Node { return &g.nodes[i] }

// NodeIDs returns the node IDs in arena (insertion) order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, len(g.nodes))
	for i := range g.nodes {
		ids[i] = g.nodes[i].ID
	}
	return ids
}

// Connect appends a wire from an output port to an input port.
// Both nodes must already exist; the source port must be an output and the
// target port an input. Duplicate wires between the same port pair are
// permitted (though unusual) and are preserved — de-duplication happens
// only when computing connected nodes.
//
// Returns ErrUnknownSourceNode, ErrUnknownTargetNode, ErrUnknownSourcePort,
// ErrUnknownTargetPort, ErrNotOutputPort or ErrNotInputPort as appropriate.
func (g *Graph) Connect(fromNode, fromPort, toNode, toPort string) error {
	fi, ok := g.index[fromNode]
	if !ok {
		return ErrUnknownSourceNode
	}
	ti, ok := g.index[toNode]
	if !ok {
		return ErrUnknownTargetNode
	}

	src := &g.nodes[fi]
	fp := src.portIndex(fromPort)
	if fp < 0 {
		return ErrUnknownSourcePort
	}
	if src.Ports[fp].Direction != Output {
		return ErrNotOutputPort
	}

	dst := &g.nodes[ti]
	tp := dst.portIndex(toPort)
	if tp < 0 {
		return ErrUnknownTargetPort
	}
	if dst.Ports[tp].Direction != Input {
		return ErrNotInputPort
	}

	src.Ports[fp].Links = append(src.Ports[fp].Links, PortRef{Node: ti, Port: tp})
	return nil
}

// ConnectedNodes returns the IDs of the distinct downstream nodes reachable
// by following the given node's output wires, in first-seen order. Duplicate
// targets reached through multiple wires appear once; the underlying wires
// themselves are not collapsed. Returns nil when the ID is unknown or the
// node has no outgoing wires.
func (g *Graph) ConnectedNodes(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}

	var out []string
	seen := make(map[int]struct{})
	n := &g.nodes[i]
	for pi := range n.Ports {
		p := &n.Ports[pi]
		if p.Direction != Output {
			continue
		}
		for _, ref := range p.Links {
			if ref.Node < 0 || ref.Node >= len(g.nodes) {
				continue
			}
			if _, dup := seen[ref.Node]; dup {
				continue
			}
			seen[ref.Node] = struct{}{}
			out = append(out, g.nodes[ref.Node].ID)
		}
	}
	return out
}

// Validate checks the structural integrity of the graph:
//
//   - the ID index matches the arena (every node findable under its ID)
//   - wires only originate from output ports
//   - every wire's target indices are in range and address an input port
//
// Returns nil if the graph is valid, or the first violation found wrapped
// with enough context to locate it.
func (g *Graph) Validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		if idx, ok := g.index[n.ID]; !ok || idx != i {
			return fmt.Errorf("%w: node %q not indexed at %d", ErrInvalidWire, n.ID, i)
		}
		for pi := range n.Ports {
			p := &n.Ports[pi]
			if len(p.Links) == 0 {
				continue
			}
			if p.Direction != Output {
				return fmt.Errorf("%w: node %q port %q carries wires", ErrNotOutputPort, n.ID, p.Name)
			}
			for _, ref := range p.Links {
				if ref.Node < 0 || ref.Node >= len(g.nodes) {
					return fmt.Errorf("%w: node %q port %q -> node index %d", ErrInvalidWire, n.ID, p.Name, ref.Node)
				}
				target := &g.nodes[ref.Node]
				if ref.Port < 0 || ref.Port >= len(target.Ports) {
					return fmt.Errorf("%w: node %q port %q -> %q port index %d", ErrInvalidWire, n.ID, p.Name, target.ID, ref.Port)
				}
				if target.Ports[ref.Port].Direction != Input {
					return fmt.Errorf("%w: node %q port %q -> %q port %q", ErrNotInputPort, n.ID, p.Name, target.ID, target.Ports[ref.Port].Name)
				}
			}
		}
	}
	return nil
}
