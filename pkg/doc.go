// Package pkg provides the core libraries for bpdoc blueprint documentation.
//
// # Overview
//
// bpdoc serializes visual-scripting assets (blueprints) into canonical JSON
// documents and renders them into browsable documentation: markdown pages,
// node-graph diagrams, and an index. The pkg directory is organized into
// four main areas:
//
//  1. [asset] / [export] - Domain model (graphs, nodes, wires) and encoding
//  2. [registry] / [monitor] - Asset discovery and change watching
//  3. [render] / [pipeline] - Artifact rendering and orchestration
//  4. [cache] / [ledger] / [server] - Infrastructure (caching, history, HTTP)
//
// # Architecture
//
// The typical data flow through bpdoc:
//
//	Asset Definition (*.blueprint.json)
//	         ↓
//	    [registry] package (discover + decode)
//	         ↓
//	    [asset] package (graph model: nodes, ports, wires)
//	         ↓
//	    [export] package (canonical document + dependencies)
//	         ↓
//	    [render] package (markdown, DOT, SVG, PNG)
//	         ↓
//	    JSON/Markdown/SVG output
//
// # Quick Start
//
// Load a definition and render its documentation page:
//
//	import (
//	    "github.com/mverhagen/bpdoc/pkg/export"
//	    "github.com/mverhagen/bpdoc/pkg/registry"
//	    "github.com/mverhagen/bpdoc/pkg/render"
//	)
//
//	// 1. Load the asset definition
//	a, _ := registry.Load("Content/Doors/BP_Door.blueprint.json")
//
//	// 2. Encode the canonical document
//	doc, _ := export.Encode(a)
//
//	// 3. Render a markdown page
//	page, _ := render.Markdown(doc)
//
// The [pipeline] package wraps the same flow with caching, artifact
// writing, and batch export; the CLI and the HTTP server both run on it.
//
// # Main Packages
//
// ## Domain Model
//
// [asset] - In-memory blueprint model. Graphs hold nodes in an arena with
// an ID index; wires are stored on output ports as index-based references.
// Node classes map to a small taxonomy (events, function entries, external
// calls, variable accessors) with unrecognized classes preserved as-is.
//
// [export] - Canonical document encoding. Deterministic node ordering,
// connection summaries, parameter extraction for function graphs, and
// dependency extraction from member references and object defaults.
//
// ## Discovery
//
// [registry] - Asset definition discovery and decoding. DirRepository
// scans a content tree for *.blueprint.json files; MemoryRepository backs
// tests and the HTTP server fixtures.
//
// [monitor] - Filesystem change watching built on fsnotify, with
// debouncing, an event bus, and a monitor that resolves change events
// back into assets.
//
// ## Rendering and Orchestration
//
// [render] - Artifact rendering: markdown pages, DOT generation for node
// graphs, SVG/PNG rasterization through embedded Graphviz (WASM), and the
// repository index page.
//
// [pipeline] - The export pipeline (encode → render → write) used by the
// CLI, the watcher, and the HTTP server. Handles skip detection, the
// artifact cache, and batch export with per-asset error collection.
//
// ## Infrastructure
//
// [cache] - Content-addressed artifact cache with file, Redis, MongoDB,
// and null backends.
//
// [ledger] - Export history in a local SQLite database.
//
// [server] - HTTP API over a repository: document, markdown, and graph
// SVG endpoints plus a websocket change feed.
//
// [config] - TOML configuration shared by all commands.
//
// [errors] - Coded errors. Every error carries a stable machine-readable
// code; the CLI and the HTTP server map codes to exit behavior and status
// codes.
//
// [observability] - Pluggable hooks for export and HTTP instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/asset/...     # Specific package
//	go test -run Example        # Examples only
//
// [asset]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/asset
// [export]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/export
// [registry]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/registry
// [monitor]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/monitor
// [render]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/cache
// [ledger]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/ledger
// [server]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/server
// [config]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/config
// [errors]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/errors
// [observability]: https://pkg.go.dev/github.com/mverhagen/bpdoc/pkg/observability
package pkg
