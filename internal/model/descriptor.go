package model

import "strings"

// QualifiedName is the globally unique identity of a structure.
type QualifiedName string

// Visibility describes who may call a function.
type Visibility string

const (
	// VisibilityPublic marks a function callable from anywhere.
	VisibilityPublic Visibility = "public"
	// VisibilityProtected marks a function callable from the structure and its descendants.
	VisibilityProtected Visibility = "protected"
	// VisibilityPrivate marks a function callable only from within the structure.
	VisibilityPrivate Visibility = "private"
)

// StructureDescriptor is the read-only metadata for one class- or trait-like
// declaration unit. It is owned by the descriptor builder; the weaver never
// mutates it.
type StructureDescriptor struct {
	QualifiedName QualifiedName
	SourcePath    Path
	Dependencies  []QualifiedName

	// Functions maps function name to descriptor. FunctionOrder preserves
	// the declaration order from the sidecar.
	Functions     map[string]*FunctionDescriptor
	FunctionOrder []string
}

// FunctionDescriptor is the read-only metadata for one function of a structure.
type FunctionDescriptor struct {
	Name       string
	Visibility Visibility
	Static     bool
	Abstract   bool

	// AccessorHook marks property-accessor style hooks (get/set magic
	// methods) which need a recoverable call wrapper instead of a direct
	// call. Set by the descriptor builder, never inferred here.
	AccessorHook bool

	Header FunctionHeader
}

// FunctionHeader renders the declaration and call forms of a function header,
// optionally with the function name suffixed. The raw parameter and argument
// lists are captured verbatim by the descriptor builder so the weaver never
// has to parse them.
type FunctionHeader struct {
	Modifiers string // e.g. "public static", may be empty
	Name      string
	Params    string // raw parameter list without parentheses
	Args      string // raw argument list for forwarding a call
}

// Declaration renders the header as a declaration with the name suffixed.
// When forceConcrete is set any abstract modifier is dropped, since the
// rendered declaration is always given a body.
func (h FunctionHeader) Declaration(suffix string, forceConcrete bool) string {
	mods := h.Modifiers
	if forceConcrete {
		mods = strings.Join(withoutWord(strings.Fields(mods), "abstract"), " ")
	}

	decl := "function " + h.Name + suffix + "(" + h.Params + ")"
	if mods == "" {
		return decl
	}

	return mods + " " + decl
}

// Call renders a call expression to the (possibly suffixed) function through
// the given receiver text.
func (h FunctionHeader) Call(receiver, suffix string) string {
	return receiver + h.Name + suffix + "(" + h.Args + ")"
}

func withoutWord(words []string, drop string) []string {
	kept := make([]string, 0, len(words))

	for _, w := range words {
		if w == drop {
			continue
		}

		kept = append(kept, w)
	}

	return kept
}
