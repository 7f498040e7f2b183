// Package export converts script assets into their portable document form.
//
// # Overview
//
// The encoder is a pure, synchronous traversal: one [Encode] call walks a
// [asset.ScriptAsset] — graphs, nodes, ports, variables, functions,
// components — and assembles a single hierarchical [Document]. The walk
// never mutates its input, holds no locks, and allocates nothing but the
// output document. Encoding is deterministic: the same asset always
// produces byte-identical JSON.
//
// # Wire Format
//
// The document's JSON shape is a compatibility contract with downstream
// tooling; field names and nesting are fixed:
//
//	{
//	  "name": "BP_Door", "path": "/Game/Doors/BP_Door",
//	  "class_type": "Blueprint",
//	  "parent_class": "Actor",          // only when present
//	  "generated_class": "BP_Door_C",   // only when present
//	  "graphs": [...], "variables": [...], "functions": [...],
//	  "components": [...], "dependencies": [...]
//	}
//
// Optional scalar fields are omitted when their source value is absent —
// never emitted as null or empty strings. Collection fields are always
// present, as empty arrays when there is nothing to list.
//
// # Dependencies
//
// [ExtractDependencies] scans graphs for references to externally defined
// types and objects: the owning type of every external function call, and
// the default object of every object-typed port. The result is
// de-duplicated preserving first-seen order, so dependency lists are
// stable across repeated exports. Document-level dependencies are computed
// over the asset's top-level graphs only.
//
// # Failure Model
//
// The only failure is an absent asset: [Encode] returns an INVALID_INPUT
// error and [Marshal] additionally yields the canonical empty-document
// placeholder "{}" so callers always receive well-formed JSON. Optional
// data that is simply missing (no parent class, no default literal) is an
// expected omission path, not an error.
package export
