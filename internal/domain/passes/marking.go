package passes

import (
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// Mark runs the join-point marking pass over the fully buffered token stream
// of one file. Structure and function headers are wrapped in header markers
// and a body-begin marker is dropped right after each opening brace, so later
// passes can splice synthesized parents and members at stable positions.
//
// Multiple structures and functions are marked independently in source order.
// Declarations without a body receive no markers.
func Mark(dialect m.Dialect, tokens []m.Token) string {
	var out strings.Builder

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok.Kind == m.TokenKeyword && dialect.IsStructureKeyword(tok.Text):
			if hook, next, ok := collectHook(tokens, i); ok {
				out.WriteString(m.MarkerStructHeader)
				out.WriteString(hook)
				out.WriteString(m.MarkerStructBody)
				i = next - 1

				continue
			}

			out.WriteString(tok.Text)

		case tok.IsKeyword(dialect.FunctionKeyword):
			if hook, next, ok := collectHook(tokens, i); ok {
				out.WriteString(m.MarkerFuncHeader)
				out.WriteString(hook)
				out.WriteString(m.MarkerFuncBody)
				i = next - 1

				continue
			}

			out.WriteString(tok.Text)

		default:
			out.WriteString(tok.Text)
		}
	}

	return out.String()
}
