package export_test

import (
	"fmt"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/export"
)

func ExampleEncode() {
	g := asset.NewGraph("EventGraph")
	_ = g.AddNode(asset.Node{ID: "EvtBeginPlay", Class: "K2Node_Event", Ports: []asset.Port{
		{Name: "then", Direction: asset.Output, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
	}})
	_ = g.AddNode(asset.Node{ID: "CallOpen", Class: "K2Node_CallFunction",
		Member: &asset.MemberRef{Name: "Open", Parent: "/Game/Interact.InteractInterface"},
		Ports: []asset.Port{
			{Name: "exec", Direction: asset.Input, Type: asset.TypeDescriptor{Category: asset.CategoryExec}},
		}})
	_ = g.Connect("EvtBeginPlay", "then", "CallOpen", "exec")

	doc, _ := export.Encode(&asset.ScriptAsset{
		Name:   "Door",
		Path:   "/Game/Doors/Door",
		Graphs: []*asset.Graph{g},
	})

	fmt.Println("Nodes:", len(doc.Graphs[0].Nodes))
	fmt.Println("Connections:", doc.Graphs[0].Nodes[0].Connections)
	fmt.Println("Dependencies:", doc.Dependencies)
	// Output:
	// Nodes: 2
	// Connections: [CallOpen]
	// Dependencies: [/Game/Interact.InteractInterface]
}

func ExampleExtractDependencies() {
	g := asset.NewGraph("EventGraph")
	for i, owner := range []string{"A", "B", "A", "C"} {
		_ = g.AddNode(asset.Node{
			ID:     fmt.Sprintf("N%d", i+1),
			Class:  "K2Node_CallFunction",
			Member: &asset.MemberRef{Name: "Fn", Parent: owner},
		})
	}

	// First occurrence wins; duplicates never repeat.
	fmt.Println(export.ExtractDependencies([]*asset.Graph{g}))
	// Output:
	// [A B C]
}

func ExampleMarshal_missingAsset() {
	// A missing asset still yields well-formed JSON alongside the error.
	data, err := export.Marshal(nil)
	fmt.Println(string(data))
	fmt.Println(err != nil)
	// Output:
	// {}
	// true
}
