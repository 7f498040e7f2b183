// Package render turns export documents into human-readable artifacts.
//
// # Overview
//
// Three renderers share the package:
//
//   - [Markdown] produces a per-asset documentation page: identity
//     header, components, variables, function signatures, per-graph node
//     logic with execution chains, and dependencies.
//   - [Index] produces the directory-grouped index page that links the
//     per-asset pages together.
//   - [ToDOT] turns a single encoded graph into Graphviz DOT, which
//     [RenderSVG] and [RenderPNG] rasterize.
//
// # Determinism
//
// All renderers are deterministic: the same document yields the same
// bytes. Artifact caching and diff-based review both rely on this, so
// nothing here may embed timestamps or iteration-order-dependent
// content. The optional footer ([WithGeneratedBy]) is caller-supplied
// and therefore the caller's problem.
package render
