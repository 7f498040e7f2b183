package asset

// Kind is the closed classification taxonomy for graph nodes. Every
// concrete node class maps to exactly one Kind; classes the table does
// not recognize map to KindOther, never to an error.
type Kind int

const (
	// KindOther is the mandatory fallback for unrecognized node classes.
	// Its document tag is the node's concrete class name, preserving
	// diagnostic fidelity for exotic nodes.
	KindOther Kind = iota
	// KindEvent marks entry points triggered by the host (BeginPlay,
	// input events, custom events).
	KindEvent
	// KindFunctionEntry marks the entry node of a function graph; its
	// output data ports define the function's parameter list.
	KindFunctionEntry
	// KindCallExternal marks calls to functions defined on another type.
	// The owning type's path counts as an asset dependency.
	KindCallExternal
	// KindVariableRead marks variable accessor nodes that read a value.
	KindVariableRead
	// KindVariableWrite marks variable accessor nodes that write a value.
	KindVariableWrite
)

// String returns the taxonomy tag for the kind. KindOther stringifies as
// "Other"; use [TypeTag] to obtain the concrete class name instead.
func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "Event"
	case KindFunctionEntry:
		return "FunctionEntry"
	case KindCallExternal:
		return "CallExternalFunction"
	case KindVariableRead:
		return "VariableRead"
	case KindVariableWrite:
		return "VariableWrite"
	default:
		return "Other"
	}
}

// kindTable maps known concrete editor class names onto kinds, one entry
// per kind in classification priority order. Known subclasses are listed
// alongside their base class so that classification matches what a
// hierarchy walk over the editor's class tree would produce.
var kindTable = []struct {
	kind    Kind
	classes map[string]bool
}{
	{KindEvent, map[string]bool{
		"K2Node_Event":               true,
		"K2Node_CustomEvent":         true,
		"K2Node_ComponentBoundEvent": true,
		"K2Node_ActorBoundEvent":     true,
		"K2Node_InputAction":         true,
		"K2Node_InputKey":            true,
	}},
	{KindFunctionEntry, map[string]bool{
		"K2Node_FunctionEntry": true,
	}},
	{KindCallExternal, map[string]bool{
		"K2Node_CallFunction":         true,
		"K2Node_CallFunctionOnMember": true,
		"K2Node_CallParentFunction":   true,
		"K2Node_CallArrayFunction":    true,
	}},
	{KindVariableRead, map[string]bool{
		"K2Node_VariableGet": true,
	}},
	{KindVariableWrite, map[string]bool{
		"K2Node_VariableSet": true,
	}},
}

// Classify maps a concrete node class name onto the closed taxonomy.
// The table is consulted in fixed priority order (Event, FunctionEntry,
// CallExternalFunction, VariableRead, VariableWrite); the first match
// wins and anything unmatched is KindOther. Classification is total:
// there is no error path.
func Classify(class string) Kind {
	for _, entry := range kindTable {
		if entry.classes[class] {
			return entry.kind
		}
	}
	return KindOther
}

// TypeTag returns the document-facing type string for a node class: the
// taxonomy tag for recognized classes, the concrete class name for
// unrecognized ones, and "Unknown" for an empty class name. The result
// is never empty.
func TypeTag(class string) string {
	k := Classify(class)
	if k != KindOther {
		return k.String()
	}
	if class == "" {
		return "Unknown"
	}
	return class
}
