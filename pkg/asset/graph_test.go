package asset

import (
	"errors"
	"reflect"
	"testing"
)

// execOut returns an output exec port with the given name.
func execOut(name string) Port {
	return Port{Name: name, Direction: Output, Type: TypeDescriptor{Category: CategoryExec}}
}

// execIn returns an input exec port with the given name.
func execIn(name string) Port {
	return Port{Name: name, Direction: Input, Type: TypeDescriptor{Category: CategoryExec}}
}

func TestGraphAddNode(t *testing.T) {
	g := NewGraph("EventGraph")

	if err := g.AddNode(Node{ID: "N1"}); err != nil {
		t.Fatalf("AddNode(N1) error = %v", err)
	}
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) error = %v, want ErrInvalidNodeID", err)
	}
	if err := g.AddNode(Node{ID: "N1"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) error = %v, want ErrDuplicateNodeID", err)
	}

	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}
}

func TestGraphNodeLookup(t *testing.T) {
	g := NewGraph("EventGraph")
	_ = g.AddNode(Node{ID: "N1", Title: "Begin Play"})
	_ = g.AddNode(Node{ID: "N2", Title: "Open Door"})

	n, ok := g.Node("N2")
	if !ok || n.Title != "Open Door" {
		t.Fatalf("Node(N2) = %+v, %v", n, ok)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) ok = true, want false")
	}

	if got := g.NodeAt(0).ID; got != "N1" {
		t.Errorf("NodeAt(0).ID = %q, want N1", got)
	}
	if got := g.NodeIDs(); !reflect.DeepEqual(got, []string{"N1", "N2"}) {
		t.Errorf("NodeIDs() = %v", got)
	}
}

func TestGraphConnect(t *testing.T) {
	newFixture := func() *Graph {
		g := NewGraph("EventGraph")
		_ = g.AddNode(Node{ID: "N1", Ports: []Port{execOut("then")}})
		_ = g.AddNode(Node{ID: "N2", Ports: []Port{execIn("exec"), execOut("then")}})
		return g
	}

	t.Run("valid wire", func(t *testing.T) {
		g := newFixture()
		if err := g.Connect("N1", "then", "N2", "exec"); err != nil {
			t.Fatalf("Connect error = %v", err)
		}
		n, _ := g.Node("N1")
		p, _ := n.Port("then")
		want := []PortRef{{Node: 1, Port: 0}}
		if !reflect.DeepEqual(p.Links, want) {
			t.Errorf("Links = %v, want %v", p.Links, want)
		}
	})

	tests := []struct {
		name                             string
		fromNode, fromPort, toNode, toPort string
		wantErr                          error
	}{
		{"unknown source node", "ghost", "then", "N2", "exec", ErrUnknownSourceNode},
		{"unknown target node", "N1", "then", "ghost", "exec", ErrUnknownTargetNode},
		{"unknown source port", "N1", "ghost", "N2", "exec", ErrUnknownSourcePort},
		{"unknown target port", "N1", "then", "N2", "ghost", ErrUnknownTargetPort},
		{"source is input", "N2", "exec", "N1", "then", ErrNotOutputPort},
		{"target is output", "N1", "then", "N2", "then", ErrNotInputPort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFixture()
			err := g.Connect(tt.fromNode, tt.fromPort, tt.toNode, tt.toPort)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Connect() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGraphConnectedNodesFanOut(t *testing.T) {
	g := NewGraph("EventGraph")
	_ = g.AddNode(Node{ID: "N1", Ports: []Port{execOut("then")}})
	_ = g.AddNode(Node{ID: "N2", Ports: []Port{execIn("exec")}})
	_ = g.AddNode(Node{ID: "N3", Ports: []Port{execIn("exec")}})

	// One output port fanning out to two inputs.
	if err := g.Connect("N1", "then", "N2", "exec"); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect("N1", "then", "N3", "exec"); err != nil {
		t.Fatal(err)
	}

	got := g.ConnectedNodes("N1")
	want := []string{"N2", "N3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectedNodes(N1) = %v, want %v", got, want)
	}

	// Both wires must survive in the port model, not just the de-duplicated
	// connection view.
	n, _ := g.Node("N1")
	p, _ := n.Port("then")
	if len(p.Links) != 2 {
		t.Errorf("len(Links) = %d, want 2", len(p.Links))
	}
}

func TestGraphConnectedNodesDedup(t *testing.T) {
	g := NewGraph("EventGraph")
	_ = g.AddNode(Node{ID: "N1", Ports: []Port{execOut("then"), execOut("more")}})
	_ = g.AddNode(Node{ID: "N2", Ports: []Port{execIn("a"), execIn("b")}})

	// Two wires from different ports reaching the same node.
	_ = g.Connect("N1", "then", "N2", "a")
	_ = g.Connect("N1", "more", "N2", "b")

	got := g.ConnectedNodes("N1")
	want := []string{"N2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ConnectedNodes(N1) = %v, want %v", got, want)
	}
}

func TestGraphConnectedNodesUnknown(t *testing.T) {
	g := NewGraph("EventGraph")
	if got := g.ConnectedNodes("ghost"); got != nil {
		t.Errorf("ConnectedNodes(ghost) = %v, want nil", got)
	}
}

func TestGraphValidate(t *testing.T) {
	t.Run("valid graph", func(t *testing.T) {
		g := NewGraph("EventGraph")
		_ = g.AddNode(Node{ID: "N1", Ports: []Port{execOut("then")}})
		_ = g.AddNode(Node{ID: "N2", Ports: []Port{execIn("exec")}})
		_ = g.Connect("N1", "then", "N2", "exec")
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("wire from input port", func(t *testing.T) {
		g := NewGraph("EventGraph")
		_ = g.AddNode(Node{ID: "N1", Ports: []Port{
			{Name: "exec", Direction: Input, Links: []PortRef{{Node: 0, Port: 0}}},
		}})
		if err := g.Validate(); !errors.Is(err, ErrNotOutputPort) {
			t.Errorf("Validate() = %v, want ErrNotOutputPort", err)
		}
	})

	t.Run("wire out of range", func(t *testing.T) {
		g := NewGraph("EventGraph")
		_ = g.AddNode(Node{ID: "N1", Ports: []Port{
			{Name: "then", Direction: Output, Links: []PortRef{{Node: 7, Port: 0}}},
		}})
		if err := g.Validate(); !errors.Is(err, ErrInvalidWire) {
			t.Errorf("Validate() = %v, want ErrInvalidWire", err)
		}
	})

	t.Run("wire into output port", func(t *testing.T) {
		g := NewGraph("EventGraph")
		_ = g.AddNode(Node{ID: "N1", Ports: []Port{
			{Name: "then", Direction: Output, Links: []PortRef{{Node: 1, Port: 0}}},
		}})
		_ = g.AddNode(Node{ID: "N2", Ports: []Port{execOut("then")}})
		if err := g.Validate(); !errors.Is(err, ErrNotInputPort) {
			t.Errorf("Validate() = %v, want ErrNotInputPort", err)
		}
	})
}

func TestScriptAssetAllGraphs(t *testing.T) {
	ev := NewGraph("EventGraph")
	fn := NewGraph("OpenDoor")
	a := &ScriptAsset{
		Name:      "BP_Door",
		Path:      "/Game/Doors/BP_Door",
		Graphs:    []*Graph{ev},
		Functions: []*Graph{fn},
	}

	all := a.AllGraphs()
	if len(all) != 2 || all[0] != ev || all[1] != fn {
		t.Errorf("AllGraphs() order wrong: %v", all)
	}

	if g, ok := a.Graph("OpenDoor"); !ok || g != fn {
		t.Errorf("Graph(OpenDoor) = %v, %v", g, ok)
	}
	if _, ok := a.Graph("missing"); ok {
		t.Error("Graph(missing) ok = true, want false")
	}
}
