package registry

import (
	"encoding/json"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/mverhagen/bpdoc/pkg/asset"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

// FileSuffix is the extension carried by asset definition files.
const FileSuffix = ".blueprint.json"

// Wire shapes for the definition file format. These mirror the exported
// document shape closely enough that hand-written fixtures stay easy to
// read, but they are a separate contract: definitions carry wire links
// as explicit {node, pin} references instead of connection summaries.
type assetFile struct {
	Name           string          `json:"name"`
	Path           string          `json:"path"`
	ParentClass    string          `json:"parent_class"`
	GeneratedClass string          `json:"generated_class"`
	Graphs         []graphFile     `json:"graphs"`
	Functions      []graphFile     `json:"functions"`
	Variables      []variableFile  `json:"variables"`
	Components     []componentFile `json:"components"`
}

type graphFile struct {
	Name  string     `json:"name"`
	Nodes []nodeFile `json:"nodes"`
}

type nodeFile struct {
	ID       string      `json:"id"`
	Class    string      `json:"class"`
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Position posFile     `json:"position"`
	Member   *memberFile `json:"member"`
	Pins     []pinFile   `json:"pins"`
}

type posFile struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type memberFile struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

type pinFile struct {
	Name          string     `json:"name"`
	DisplayName   string     `json:"display_name"`
	Direction     string     `json:"direction"`
	Type          typeFile   `json:"type"`
	DefaultValue  string     `json:"default_value"`
	DefaultObject string     `json:"default_object"`
	Links         []linkFile `json:"links"`
}

type typeFile struct {
	Category  string `json:"category"`
	Reference string `json:"reference"`
	IsArray   bool   `json:"is_array"`
}

type linkFile struct {
	Node string `json:"node"`
	Pin  string `json:"pin"`
}

type variableFile struct {
	Name         string   `json:"name"`
	Type         typeFile `json:"type"`
	Category     string   `json:"category"`
	IsExposed    bool     `json:"is_exposed"`
	DefaultValue string   `json:"default_value"`
}

type componentFile struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// Load reads and decodes the asset definition file at path.
func Load(path string) (*asset.ScriptAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "asset definition %q does not exist", path)
		}
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "failed to open asset definition %q", path)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "failed to load %q", path)
	}
	return a, nil
}

// Decode parses an asset definition from r.
//
// The definition format is JSON with the same field names the exporter
// emits, except that node pins carry a "links" array of {node, pin}
// references to the wires leaving the pin. Links are declared on output
// pins only, and may only target nodes that declare an explicit id;
// nodes without an id are assigned a random one and cannot be referenced.
func Decode(r io.Reader) (*asset.ScriptAsset, error) {
	var file assetFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed asset definition")
	}

	if err := errors.ValidateAssetName(file.Name); err != nil {
		return nil, err
	}
	if err := errors.ValidateAssetPath(file.Path); err != nil {
		return nil, err
	}

	a := &asset.ScriptAsset{
		Name:           file.Name,
		Path:           file.Path,
		ParentClass:    file.ParentClass,
		GeneratedClass: file.GeneratedClass,
		Graphs:         make([]*asset.Graph, 0, len(file.Graphs)),
		Functions:      make([]*asset.Graph, 0, len(file.Functions)),
		Variables:      make([]asset.Variable, 0, len(file.Variables)),
		Components:     make([]asset.Component, 0, len(file.Components)),
	}

	for _, gf := range file.Graphs {
		g, err := buildGraph(gf)
		if err != nil {
			return nil, err
		}
		a.Graphs = append(a.Graphs, g)
	}
	for _, gf := range file.Functions {
		g, err := buildGraph(gf)
		if err != nil {
			return nil, err
		}
		a.Functions = append(a.Functions, g)
	}

	for _, vf := range file.Variables {
		a.Variables = append(a.Variables, asset.Variable{
			Name:         vf.Name,
			Type:         buildType(vf.Type),
			Category:     vf.Category,
			Exposed:      vf.IsExposed,
			DefaultValue: vf.DefaultValue,
		})
	}
	for _, cf := range file.Components {
		a.Components = append(a.Components, asset.Component{Name: cf.Name, Class: cf.Class})
	}

	return a, nil
}

// buildGraph materializes one graph: first every node, then every wire.
// Wires resolve by node id and pin name, so all nodes must exist before
// the first Connect.
func buildGraph(gf graphFile) (*asset.Graph, error) {
	g := asset.NewGraph(gf.Name)

	for _, nf := range gf.Nodes {
		id := nf.ID
		if id == "" {
			id = uuid.NewString()
		}
		node := asset.Node{
			ID:       id,
			Class:    nf.Class,
			Title:    nf.Title,
			Category: nf.Category,
			X:        nf.Position.X,
			Y:        nf.Position.Y,
			Ports:    make([]asset.Port, 0, len(nf.Pins)),
		}
		if nf.Member != nil {
			node.Member = &asset.MemberRef{Name: nf.Member.Name, Parent: nf.Member.Parent}
		}
		for _, pf := range nf.Pins {
			dir, err := parseDirection(pf.Direction)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err,
					"graph %q: node %q: pin %q", gf.Name, id, pf.Name)
			}
			node.Ports = append(node.Ports, asset.Port{
				Name:          pf.Name,
				DisplayName:   pf.DisplayName,
				Direction:     dir,
				Type:          buildType(pf.Type),
				DefaultValue:  pf.DefaultValue,
				DefaultObject: pf.DefaultObject,
			})
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "graph %q", gf.Name)
		}
	}

	for _, nf := range gf.Nodes {
		if nf.ID == "" {
			continue // anonymous nodes cannot be wire sources in a definition
		}
		for _, pf := range nf.Pins {
			for _, lf := range pf.Links {
				if err := g.Connect(nf.ID, pf.Name, lf.Node, lf.Pin); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err,
						"graph %q: wire %s.%s -> %s.%s", gf.Name, nf.ID, pf.Name, lf.Node, lf.Pin)
				}
			}
		}
	}

	return g, nil
}

func buildType(tf typeFile) asset.TypeDescriptor {
	return asset.TypeDescriptor{Category: tf.Category, Reference: tf.Reference, IsArray: tf.IsArray}
}

func parseDirection(s string) (asset.Direction, error) {
	switch s {
	case "input":
		return asset.Input, nil
	case "output":
		return asset.Output, nil
	default:
		return asset.Input, errors.New(errors.ErrCodeInvalidAsset, "unknown pin direction %q", s)
	}
}
