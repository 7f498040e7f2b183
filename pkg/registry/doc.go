// Package registry locates and loads script assets.
//
// A [Repository] answers two questions: which assets of a given kind
// exist ([Repository.QueryByKind]), and what is the full in-memory model
// for one of them ([Repository.Resolve]). Resolution may fail — an asset
// can disappear between query and resolve — and callers are expected to
// treat that as a skip, not a fatal error.
//
// Two implementations ship with the package: [Memory], a mutable
// in-process repository used by tests and the change-monitor fixtures,
// and [Dir], which scans a directory tree for asset definition files
// (see [FileSuffix]) and parses them on demand. The definition file
// format is documented on [Decode].
package registry
