package export

import (
	"github.com/mverhagen/bpdoc/pkg/asset"
)

// ExtractDependencies scans the given graphs for references to externally
// defined types and objects and returns their canonical paths.
//
// Two reference sources are recognized, checked per node in this order:
//
//   - external function calls: the canonical path of the called member's
//     owning type, when the node carries one
//   - object-typed ports: the path of the port's default object, when set
//
// Graphs are processed in caller-given order and nodes in graph order, so
// the result order is the order of first occurrence. Each path appears
// once: a set-membership check guards every append. References that
// resolve to an empty path are silently skipped — "no dependency" and
// "unresolvable dependency" are deliberately not distinguished here.
//
// The returned slice is never nil. Nil graphs in the input are skipped.
func ExtractDependencies(graphs []*asset.Graph) []string {
	deps := make([]string, 0)
	seen := make(map[string]struct{})

	record := func(path string) {
		if path == "" {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		deps = append(deps, path)
	}

	for _, g := range graphs {
		if g == nil {
			continue
		}
		for i := 0; i < g.Len(); i++ {
			n := g.NodeAt(i)

			if n.Kind() == asset.KindCallExternal && n.Member != nil {
				record(n.Member.Parent)
			}

			for pi := range n.Ports {
				p := &n.Ports[pi]
				if p.Type.IsObject() {
					record(p.DefaultObject)
				}
			}
		}
	}

	return deps
}
