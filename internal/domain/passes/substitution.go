package passes

import (
	"strconv"
	"strings"

	m "stitch.dev/pkg/stitch/internal/model"
)

// Substitute replaces every language-magic path token in the chunk with the
// qualified reference to its locally declared constant. Code relocated into a
// cache location keeps resolving paths as if it still ran from its original
// one. The rewrite is a plain text substitution applied in deterministic
// token order.
func Substitute(dialect m.Dialect, chunk string) string {
	for _, magic := range dialect.MagicTokenNames() {
		chunk = strings.ReplaceAll(chunk, magic, dialect.MagicTokens[magic])
	}

	return chunk
}

// OriginHint renders the one-time structured comment recording the original
// source path and its modification time, delimited by the origin marker pair.
// Downstream cache-freshness checks parse it back with ParseOriginHint.
func OriginHint(origin *m.File) string {
	return m.MarkerOriginStart +
		string(origin.FullPath) + "#" + strconv.FormatInt(origin.ModTime.Unix(), 10) +
		m.MarkerOriginEnd
}

// ParseOriginHint extracts the source path and modification time from woven
// text. It reports false when the text carries no hint.
func ParseOriginHint(text string) (m.Path, int64, bool) {
	start := strings.Index(text, m.MarkerOriginStart)
	if start < 0 {
		return "", 0, false
	}

	rest := text[start+len(m.MarkerOriginStart):]

	end := strings.Index(rest, m.MarkerOriginEnd)
	if end < 0 {
		return "", 0, false
	}

	payload := rest[:end]

	sep := strings.LastIndex(payload, "#")
	if sep < 0 {
		return "", 0, false
	}

	mtime, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}

	return m.Path(payload[:sep]), mtime, true
}
