package asset

// Well-known port type categories. These mirror the engine's pin-category
// vocabulary: lower-case tokens that form the base of the canonical type
// string. The list is not closed — a TypeDescriptor may carry any category
// the source provides — but these cover the categories the encoder and the
// dependency extractor give special meaning to.
const (
	CategoryExec      = "exec"
	CategoryBool      = "bool"
	CategoryByte      = "byte"
	CategoryInt       = "int"
	CategoryInt64     = "int64"
	CategoryFloat     = "float"
	CategoryDouble    = "double"
	CategoryString    = "string"
	CategoryName      = "name"
	CategoryText      = "text"
	CategoryObject    = "object"
	CategoryClass     = "class"
	CategoryInterface = "interface"
	CategoryStruct    = "struct"
	CategoryEnum      = "enum"
	CategoryDelegate  = "delegate"
	CategoryWildcard  = "wildcard"
)

// Direction indicates whether a port consumes or produces values.
type Direction int

const (
	// Input ports receive values (or execution) from wires.
	Input Direction = iota
	// Output ports drive values (or execution) into wires.
	Output
)

// String returns the wire-format direction token ("input" or "output").
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// TypeDescriptor describes the type of a port or variable: a base category,
// an optional referenced sub-type name (for object-, class-, struct- and
// enum-typed values), and a collection flag.
//
// The zero value describes an untyped slot and encodes to the empty string;
// callers are expected to always populate at least Category.
type TypeDescriptor struct {
	Category  string // base category token (see Category constants)
	Reference string // referenced type name, e.g. "Actor" (optional)
	IsArray   bool   // true when the value is a collection of the base type
}

// String renders the canonical type string. The encoding is deterministic:
// the same descriptor always yields the same string.
//
//	{Category: "bool"}                                  -> "bool"
//	{Category: "object", Reference: "Actor"}            -> "object<Actor>"
//	{Category: "object", Reference: "Actor", IsArray: true} -> "Array<object<Actor>>"
func (t TypeDescriptor) String() string {
	s := t.Category
	if t.Reference != "" {
		s += "<" + t.Reference + ">"
	}
	if t.IsArray {
		s = "Array<" + s + ">"
	}
	return s
}

// IsExec reports whether the descriptor is the execution-flow category.
// Exec ports sequence node execution and never carry data.
func (t TypeDescriptor) IsExec() bool { return t.Category == CategoryExec }

// IsObject reports whether the descriptor's base category is an object
// reference. Object-typed ports may carry a default object whose path
// counts as an asset dependency.
func (t TypeDescriptor) IsObject() bool { return t.Category == CategoryObject }
