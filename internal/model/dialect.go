package model

import "sort"

// Dialect describes the lexical surface of the language being woven. The
// weaver itself is dialect-agnostic; everything language specific lives here.
type Dialect struct {
	Name string

	// OpenMarker is the opening language marker of a file, e.g. "<?php".
	OpenMarker string

	// Extension is the source file extension including the dot.
	Extension string

	// StructureKeywords introduce a class- or trait-like declaration.
	StructureKeywords []string

	// FunctionKeyword introduces a function declaration.
	FunctionKeyword string

	// ConstructorName is the function name of the structure constructor.
	ConstructorName string

	// InstanceReceiver and StaticReceiver prefix calls to the renamed
	// original implementation.
	InstanceReceiver string
	StaticReceiver   string

	// VariableSigil prefixes variable names, empty when the dialect has none.
	VariableSigil string

	// MagicTokens maps language-magic path tokens to the qualified
	// references of the locally declared substitution constants.
	MagicTokens map[string]string

	// DirConstant and FileConstant are the names of the local constants
	// declared once per woven file.
	DirConstant  string
	FileConstant string

	// Keywords is the full reserved-word set used by the lexer.
	Keywords []string
}

// DefaultDialect returns the PHP-flavored dialect the tool ships with.
func DefaultDialect() Dialect {
	return Dialect{
		Name:              "php",
		OpenMarker:        "<?php",
		Extension:         ".php",
		StructureKeywords: []string{"class", "trait"},
		FunctionKeyword:   "function",
		ConstructorName:   "__construct",
		InstanceReceiver:  "$this->",
		StaticReceiver:    "self::",
		VariableSigil:     "$",
		MagicTokens: map[string]string{
			"__DIR__":  "self::__STITCH_DIR",
			"__FILE__": "self::__STITCH_FILE",
		},
		DirConstant:  "__STITCH_DIR",
		FileConstant: "__STITCH_FILE",
		Keywords: []string{
			"abstract", "class", "trait", "interface", "function",
			"public", "protected", "private", "static", "final",
			"extends", "implements", "return", "new", "const",
			"try", "catch", "finally", "throw", "use", "namespace",
		},
	}
}

// IsStructureKeyword reports whether text introduces a structure declaration.
func (d Dialect) IsStructureKeyword(text string) bool {
	for _, kw := range d.StructureKeywords {
		if text == kw {
			return true
		}
	}

	return false
}

// IsKeyword reports whether text is a reserved word of the dialect.
func (d Dialect) IsKeyword(text string) bool {
	for _, kw := range d.Keywords {
		if text == kw {
			return true
		}
	}

	return false
}

// ConstDeclarations renders the per-file local substitution constants bound
// to the original directory and file of the source.
func (d Dialect) ConstDeclarations(dir, file string) string {
	return " const " + d.DirConstant + " = '" + dir + "';" +
		" const " + d.FileConstant + " = '" + file + "';"
}

// MagicTokenNames returns the magic tokens in deterministic order.
func (d Dialect) MagicTokenNames() []string {
	names := make([]string, 0, len(d.MagicTokens))
	for name := range d.MagicTokens {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
