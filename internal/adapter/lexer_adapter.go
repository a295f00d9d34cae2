package adapter

import (
	m "stitch.dev/pkg/stitch/internal/model"
)

// LexerAdapter encapsulates the dialect-specific tokenization so the domain
// passes can scan a uniform token stream without knowing the language
// surface.
type LexerAdapter interface {
	// Tokenize converts source text into the ordered token sequence.
	// Concatenating the token texts always reproduces the input exactly.
	Tokenize(text string) []m.Token
}

// LocalLexerAdapter is a concrete LexerAdapter driven by a dialect's keyword
// set and sigils.
type LocalLexerAdapter struct {
	dialect m.Dialect
}

// NewLocalLexerAdapter constructs a LocalLexerAdapter for the given dialect.
func NewLocalLexerAdapter(dialect m.Dialect) *LocalLexerAdapter {
	return &LocalLexerAdapter{dialect: dialect}
}

// Tokenize scans text into classified tokens. Anything that is not a word,
// variable, number, string, comment or whitespace run becomes a raw
// single-character token.
func (a *LocalLexerAdapter) Tokenize(text string) []m.Token {
	var tokens []m.Token

	for i := 0; i < len(text); {
		c := text[i]

		switch {
		case isSpace(c):
			j := i
			for j < len(text) && isSpace(text[j]) {
				j++
			}

			tokens = append(tokens, m.Token{Kind: m.TokenWhitespace, Text: text[i:j]})
			i = j

		case isWordStart(c):
			j := scanWord(text, i)
			word := text[i:j]

			kind := m.TokenIdentifier
			if a.dialect.IsKeyword(word) {
				kind = m.TokenKeyword
			}

			tokens = append(tokens, m.Token{Kind: kind, Text: word})
			i = j

		case a.dialect.VariableSigil != "" && c == a.dialect.VariableSigil[0] && i+1 < len(text) && isWordStart(text[i+1]):
			j := scanWord(text, i+1)
			tokens = append(tokens, m.Token{Kind: m.TokenVariable, Text: text[i:j]})
			i = j

		case isDigit(c):
			j := i
			for j < len(text) && (isDigit(text[j]) || text[j] == '.') {
				j++
			}

			tokens = append(tokens, m.Token{Kind: m.TokenNumber, Text: text[i:j]})
			i = j

		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			j := lineEnd(text, i)
			tokens = append(tokens, m.Token{Kind: m.TokenComment, Text: text[i:j]})
			i = j

		case c == '#':
			j := lineEnd(text, i)
			tokens = append(tokens, m.Token{Kind: m.TokenComment, Text: text[i:j]})
			i = j

		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			j := blockCommentEnd(text, i)
			tokens = append(tokens, m.Token{Kind: m.TokenComment, Text: text[i:j]})
			i = j

		case c == '\'' || c == '"':
			j := stringEnd(text, i)
			tokens = append(tokens, m.Token{Kind: m.TokenString, Text: text[i:j]})
			i = j

		default:
			tokens = append(tokens, m.Token{Kind: m.TokenRaw, Text: text[i : i+1]})
			i++
		}
	}

	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isWordChar(c byte) bool {
	return isWordStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func scanWord(text string, start int) int {
	j := start
	for j < len(text) && isWordChar(text[j]) {
		j++
	}

	return j
}

func lineEnd(text string, start int) int {
	j := start
	for j < len(text) && text[j] != '\n' {
		j++
	}

	return j
}

func blockCommentEnd(text string, start int) int {
	j := start + 2
	for j+1 < len(text) {
		if text[j] == '*' && text[j+1] == '/' {
			return j + 2
		}

		j++
	}

	return len(text)
}

func stringEnd(text string, start int) int {
	quote := text[start]

	j := start + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		default:
			j++
		}
	}

	return len(text)
}
