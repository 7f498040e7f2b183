// Package asset provides the in-memory model for visual-script assets:
// graphs of nodes connected by typed, directed wires, plus the variables
// and components attached to the owning asset.
//
// # Overview
//
// A script asset ("blueprint") is a visual program: one or more event
// graphs and function graphs, each an ordered sequence of nodes. Nodes
// expose typed ports; output ports drive input ports on other nodes
// through wires. This package is the read-side contract for the document
// encoder — encoders traverse the model but never mutate it.
//
// Storage is arena-style: each [Graph] holds its nodes in a flat,
// index-addressable sequence, each [Node] holds its ports the same way,
// and wires are stored as (node-index, port-index) pairs on the source
// port. There are no back-references and no pointer cycles; connected
// nodes are computed by index lookup.
//
// # Basic Usage
//
// Create a graph with [NewGraph], add nodes with [Graph.AddNode], and wire
// ports with [Graph.Connect]. Node IDs must be unique within a graph and
// wires must run from an output port to an input port:
//
//	g := asset.NewGraph("EventGraph")
//	g.AddNode(asset.Node{ID: "Evt", Class: "K2Node_Event", Ports: []asset.Port{
//		{Name: "then", Direction: asset.Output, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
//	}})
//	g.AddNode(asset.Node{ID: "Call", Class: "K2Node_CallFunction", Ports: []asset.Port{
//		{Name: "exec", Direction: asset.Input, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
//	}})
//	g.Connect("Evt", "then", "Call", "exec")
//
// Query topology with [Graph.ConnectedNodes] and [Graph.Node]. Use
// [Graph.Validate] to verify structural integrity after bulk construction.
//
// # Node Classification
//
// Every node carries the name of its concrete editor class (e.g.
// "K2Node_CallFunction"). [Classify] maps that name onto a closed [Kind]
// taxonomy in a fixed priority order, falling back to [KindOther] for
// unrecognized classes; [TypeTag] produces the document-facing tag string,
// which for KindOther is the concrete class name itself.
//
// # Concurrency
//
// Graphs and assets are not safe for concurrent mutation. The intended
// lifecycle is: a repository builds the asset, hands it to an encoder,
// and does not touch it while an export is in flight. Read-only use from
// multiple goroutines is safe once construction is complete.
package asset
