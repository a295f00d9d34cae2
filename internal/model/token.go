package model

// TokenKind classifies a lexical token.
type TokenKind int

const (
	// TokenRaw is a single unclassified character.
	TokenRaw TokenKind = iota
	// TokenKeyword is a reserved word of the dialect.
	TokenKeyword
	// TokenIdentifier is a name that is not a keyword.
	TokenIdentifier
	// TokenVariable is a sigil-prefixed variable name.
	TokenVariable
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenString is a quoted string literal including its quotes.
	TokenString
	// TokenComment is a line or block comment including its delimiters.
	TokenComment
	// TokenWhitespace is a run of spaces, tabs and newlines.
	TokenWhitespace
)

// Token is one element of the ordered, finite token sequence of a file.
// Immutable once produced.
type Token struct {
	Kind TokenKind
	Text string
}

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(text string) bool {
	return t.Kind == TokenKeyword && t.Text == text
}

// IsChar reports whether the token is the given raw character.
func (t Token) IsChar(c byte) bool {
	return t.Kind == TokenRaw && len(t.Text) == 1 && t.Text[0] == c
}
