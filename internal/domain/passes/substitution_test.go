package passes

import (
	"strings"
	"testing"
	"time"

	m "stitch.dev/pkg/stitch/internal/model"
)

func TestSubstitute(t *testing.T) {
	dialect := m.DefaultDialect()

	t.Run("replaces every magic token occurrence", func(t *testing.T) {
		chunk := "require __DIR__ . '/a.php';\nrequire __DIR__ . '/b.php';\n$f = __FILE__;"

		got := Substitute(dialect, chunk)

		want := "require self::__STITCH_DIR . '/a.php';\nrequire self::__STITCH_DIR . '/b.php';\n$f = self::__STITCH_FILE;"
		if got != want {
			t.Errorf("unexpected substitution:\n got %q\nwant %q", got, want)
		}
	})

	t.Run("chunk without magic tokens is unchanged", func(t *testing.T) {
		chunk := "$dir = 'not magic';"

		if got := Substitute(dialect, chunk); got != chunk {
			t.Errorf("expected %q unchanged, got %q", chunk, got)
		}
	})

	t.Run("substitution table is configurable", func(t *testing.T) {
		custom := dialect
		custom.MagicTokens = map[string]string{"__LINE__": "0"}

		got := Substitute(custom, "__DIR__ and __LINE__")

		if got != "__DIR__ and 0" {
			t.Errorf("only the configured tokens may be replaced, got %q", got)
		}
	})
}

func TestOriginHintRoundTrip(t *testing.T) {
	origin := &m.File{
		FullPath: "/src/billing/account.php",
		ModTime:  time.Unix(1700000000, 0),
	}

	hint := OriginHint(origin)

	if !strings.HasPrefix(hint, m.MarkerOriginStart) || !strings.HasSuffix(hint, m.MarkerOriginEnd) {
		t.Fatalf("hint must be delimited by the origin markers: %q", hint)
	}

	path, mtime, ok := ParseOriginHint("<?php " + hint + "\nclass A {}\n")
	if !ok {
		t.Fatal("expected the hint to parse back")
	}
	if path != "/src/billing/account.php" {
		t.Errorf("unexpected path %q", path)
	}
	if mtime != 1700000000 {
		t.Errorf("unexpected mtime %d", mtime)
	}
}

func TestParseOriginHint(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"no hint", "<?php class A {}"},
		{"unterminated hint", m.MarkerOriginStart + "/a.php#12"},
		{"missing separator", m.MarkerOriginStart + "/a.php" + m.MarkerOriginEnd},
		{"malformed mtime", m.MarkerOriginStart + "/a.php#soon" + m.MarkerOriginEnd},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := ParseOriginHint(tc.text); ok {
				t.Errorf("expected no parse for %q", tc.text)
			}
		})
	}

	t.Run("path containing separator", func(t *testing.T) {
		text := m.MarkerOriginStart + "/src/a#b/file.php#99" + m.MarkerOriginEnd

		path, mtime, ok := ParseOriginHint(text)
		if !ok {
			t.Fatal("expected a parse")
		}
		if path != "/src/a#b/file.php" || mtime != 99 {
			t.Errorf("unexpected parse %q %d", path, mtime)
		}
	})
}
