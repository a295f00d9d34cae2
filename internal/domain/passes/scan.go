// Package passes contains the token-driven weaving passes: join-point
// marking, contract injection and path-identity substitution.
package passes

import (
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// collectHook gathers the literal source text from tokens[start] up to and
// including the first opening brace. The returned index points just past the
// brace token. When a semicolon or the end of the stream is reached before a
// brace the declaration has no body; collection reports no hook, which is
// "nothing to mark" rather than an error.
func collectHook(tokens []m.Token, start int) (string, int, bool) {
	var hook strings.Builder

	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.IsChar(';') {
			return "", start, false
		}

		hook.WriteString(tok.Text)

		if tok.IsChar('{') {
			return hook.String(), i + 1, true
		}
	}

	return "", start, false
}

// functionName returns the identifier naming a function declaration, skipping
// whitespace and comments after the function keyword. Anonymous functions
// report no name.
func functionName(tokens []m.Token, afterKeyword int) (string, bool) {
	for i := afterKeyword; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case m.TokenWhitespace, m.TokenComment:
			continue
		case m.TokenIdentifier:
			return tokens[i].Text, true
		default:
			return "", false
		}
	}

	return "", false
}
