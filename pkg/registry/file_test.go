package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

const doorDefinition = `{
  "name": "BP_Door",
  "path": "/Game/Doors/BP_Door",
  "parent_class": "Actor",
  "generated_class": "BP_Door_C",
  "graphs": [
    {
      "name": "EventGraph",
      "nodes": [
        {
          "id": "EvtBeginPlay",
          "class": "K2Node_Event",
          "title": "Event BeginPlay",
          "category": "Events",
          "position": {"x": 16, "y": 32},
          "member": {"name": "ReceiveBeginPlay", "parent": "/Script/Engine.Actor"},
          "pins": [
            {
              "name": "then",
              "direction": "output",
              "type": {"category": "exec"},
              "links": [{"node": "CallOpen", "pin": "execute"}]
            }
          ]
        },
        {
          "id": "CallOpen",
          "class": "K2Node_CallFunction",
          "title": "Open",
          "category": "Interaction",
          "member": {"name": "Open", "parent": "/Game/Interact.InteractInterface"},
          "pins": [
            {"name": "execute", "direction": "input", "type": {"category": "exec"}}
          ]
        }
      ]
    }
  ],
  "functions": [
    {
      "name": "SetSpeed",
      "nodes": [
        {
          "id": "Entry",
          "class": "K2Node_FunctionEntry",
          "title": "Set Speed",
          "pins": [
            {"name": "Speed", "direction": "output", "type": {"category": "float"}}
          ]
        }
      ]
    }
  ],
  "variables": [
    {"name": "IsOpen", "type": {"category": "bool"}, "category": "State", "is_exposed": true, "default_value": "false"}
  ],
  "components": [
    {"name": "DoorMesh", "class": "StaticMeshComponent"}
  ]
}`

func TestDecodeDoorDefinition(t *testing.T) {
	a, err := Decode(strings.NewReader(doorDefinition))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if a.Name != "BP_Door" || a.Path != "/Game/Doors/BP_Door" {
		t.Errorf("identity = %q %q, want BP_Door /Game/Doors/BP_Door", a.Name, a.Path)
	}
	if a.ParentClass != "Actor" || a.GeneratedClass != "BP_Door_C" {
		t.Errorf("classes = %q %q", a.ParentClass, a.GeneratedClass)
	}
	if len(a.Graphs) != 1 || len(a.Functions) != 1 {
		t.Fatalf("got %d graphs and %d functions, want 1 and 1", len(a.Graphs), len(a.Functions))
	}

	g := a.Graphs[0]
	if g.Name() != "EventGraph" || g.Len() != 2 {
		t.Fatalf("graph = %q with %d nodes", g.Name(), g.Len())
	}

	evt, ok := g.Node("EvtBeginPlay")
	if !ok {
		t.Fatal("EvtBeginPlay missing")
	}
	if evt.X != 16 || evt.Y != 32 {
		t.Errorf("position = (%v, %v), want (16, 32)", evt.X, evt.Y)
	}
	if evt.Member == nil || evt.Member.Parent != "/Script/Engine.Actor" {
		t.Errorf("member = %+v", evt.Member)
	}

	// The declared link must have become a real wire.
	if got := g.ConnectedNodes("EvtBeginPlay"); len(got) != 1 || got[0] != "CallOpen" {
		t.Errorf("ConnectedNodes = %v, want [CallOpen]", got)
	}

	if len(a.Variables) != 1 {
		t.Fatalf("got %d variables", len(a.Variables))
	}
	v := a.Variables[0]
	if v.Name != "IsOpen" || !v.Exposed || v.Type.String() != "bool" || v.DefaultValue != "false" {
		t.Errorf("variable = %+v", v)
	}

	if len(a.Components) != 1 || a.Components[0].Class != "StaticMeshComponent" {
		t.Errorf("components = %+v", a.Components)
	}
}

func TestDecodeAssignsMissingNodeIDs(t *testing.T) {
	def := `{
	  "name": "BP_Anon",
	  "path": "/Game/BP_Anon",
	  "graphs": [{"name": "EventGraph", "nodes": [
	    {"class": "K2Node_Event", "title": "A"},
	    {"class": "K2Node_Event", "title": "B"}
	  ]}]
	}`

	a, err := Decode(strings.NewReader(def))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	ids := a.Graphs[0].NodeIDs()
	if len(ids) != 2 {
		t.Fatalf("got %d nodes, want 2", len(ids))
	}
	if ids[0] == "" || ids[1] == "" {
		t.Errorf("assigned ids must be non-empty, got %v", ids)
	}
	if ids[0] == ids[1] {
		t.Errorf("assigned ids must be unique, got %v", ids)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		def  string
		code errors.Code
	}{
		{
			name: "malformed json",
			def:  `{"name": `,
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "missing name",
			def:  `{"path": "/Game/X"}`,
			code: errors.ErrCodeInvalidAsset,
		},
		{
			name: "relative path",
			def:  `{"name": "X", "path": "Game/X"}`,
			code: errors.ErrCodeInvalidPath,
		},
		{
			name: "unknown pin direction",
			def: `{"name": "X", "path": "/Game/X", "graphs": [{"name": "G", "nodes": [
			  {"id": "N", "class": "K2Node_Event", "pins": [{"name": "p", "direction": "sideways"}]}
			]}]}`,
			code: errors.ErrCodeInvalidAsset,
		},
		{
			name: "duplicate node id",
			def: `{"name": "X", "path": "/Game/X", "graphs": [{"name": "G", "nodes": [
			  {"id": "N", "class": "K2Node_Event"},
			  {"id": "N", "class": "K2Node_Event"}
			]}]}`,
			code: errors.ErrCodeInvalidAsset,
		},
		{
			name: "wire to unknown node",
			def: `{"name": "X", "path": "/Game/X", "graphs": [{"name": "G", "nodes": [
			  {"id": "N", "class": "K2Node_Event", "pins": [
			    {"name": "then", "direction": "output", "type": {"category": "exec"}, "links": [{"node": "Ghost", "pin": "execute"}]}
			  ]}
			]}]}`,
			code: errors.ErrCodeInvalidAsset,
		},
		{
			name: "wire leaving an input pin",
			def: `{"name": "X", "path": "/Game/X", "graphs": [{"name": "G", "nodes": [
			  {"id": "A", "class": "K2Node_Event", "pins": [
			    {"name": "in", "direction": "input", "type": {"category": "exec"}, "links": [{"node": "B", "pin": "in"}]}
			  ]},
			  {"id": "B", "class": "K2Node_Event", "pins": [
			    {"name": "in", "direction": "input", "type": {"category": "exec"}}
			  ]}
			]}]}`,
			code: errors.ErrCodeInvalidAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.def))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("got code %s, want %s: %v", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.blueprint.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("got %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BP_Door"+FileSuffix)
	if err := os.WriteFile(path, []byte(doorDefinition), 0o644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a.Name != "BP_Door" {
		t.Errorf("Name = %q, want BP_Door", a.Name)
	}
	entry, ok := a.Functions[0].Node("Entry")
	if !ok || entry.Kind() != asset.KindFunctionEntry {
		t.Errorf("function entry node = %+v, ok=%v", entry, ok)
	}
}
