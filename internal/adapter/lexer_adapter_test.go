package adapter

import (
	"strings"
	"testing"

	m "stitch.dev/pkg/stitch/internal/model"
)

func newTestLexer() *LocalLexerAdapter {
	return NewLocalLexerAdapter(m.DefaultDialect())
}

func kindsOf(tokens []m.Token) []m.TokenKind {
	kinds := make([]m.TokenKind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestLocalLexerAdapter_Tokenize(t *testing.T) {
	lexer := newTestLexer()

	t.Run("classifies keywords and identifiers", func(t *testing.T) {
		tokens := lexer.Tokenize("class Account")

		if len(tokens) != 3 {
			t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
		}
		if tokens[0].Kind != m.TokenKeyword || tokens[0].Text != "class" {
			t.Errorf("expected keyword class, got %v", tokens[0])
		}
		if tokens[1].Kind != m.TokenWhitespace {
			t.Errorf("expected whitespace, got %v", tokens[1])
		}
		if tokens[2].Kind != m.TokenIdentifier || tokens[2].Text != "Account" {
			t.Errorf("expected identifier Account, got %v", tokens[2])
		}
	})

	t.Run("classifies variables", func(t *testing.T) {
		tokens := lexer.Tokenize("$amount + $_ref2")

		if tokens[0].Kind != m.TokenVariable || tokens[0].Text != "$amount" {
			t.Errorf("expected variable $amount, got %v", tokens[0])
		}

		last := tokens[len(tokens)-1]
		if last.Kind != m.TokenVariable || last.Text != "$_ref2" {
			t.Errorf("expected variable $_ref2, got %v", last)
		}
	})

	t.Run("bare sigil stays raw", func(t *testing.T) {
		tokens := lexer.Tokenize("$ ")

		if tokens[0].Kind != m.TokenRaw || tokens[0].Text != "$" {
			t.Errorf("expected raw sigil, got %v", tokens[0])
		}
	})

	t.Run("classifies numbers", func(t *testing.T) {
		tokens := lexer.Tokenize("3.14")

		if len(tokens) != 1 || tokens[0].Kind != m.TokenNumber || tokens[0].Text != "3.14" {
			t.Errorf("expected one number token, got %v", tokens)
		}
	})

	t.Run("strings keep quotes and escapes", func(t *testing.T) {
		tokens := lexer.Tokenize(`'it\'s' "two"`)

		if tokens[0].Kind != m.TokenString || tokens[0].Text != `'it\'s'` {
			t.Errorf("unexpected first string token %v", tokens[0])
		}

		last := tokens[len(tokens)-1]
		if last.Kind != m.TokenString || last.Text != `"two"` {
			t.Errorf("unexpected second string token %v", last)
		}
	})

	t.Run("line comments run to end of line", func(t *testing.T) {
		for _, src := range []string{"// class A\nnext", "# class A\nnext"} {
			tokens := lexer.Tokenize(src)

			if tokens[0].Kind != m.TokenComment {
				t.Errorf("expected comment first in %q, got %v", src, tokens[0])
			}
			if strings.Contains(tokens[0].Text, "\n") {
				t.Errorf("line comment must stop before the newline: %v", tokens[0])
			}
		}
	})

	t.Run("block comments keep their delimiters", func(t *testing.T) {
		tokens := lexer.Tokenize("/* keep\nfunction fake() */class")

		if tokens[0].Kind != m.TokenComment || tokens[0].Text != "/* keep\nfunction fake() */" {
			t.Errorf("unexpected block comment token %v", tokens[0])
		}
		if tokens[1].Kind != m.TokenKeyword || tokens[1].Text != "class" {
			t.Errorf("expected class keyword after comment, got %v", tokens[1])
		}
	})

	t.Run("unterminated constructs run to end of input", func(t *testing.T) {
		for _, src := range []string{"/* open", "'open", `"open`} {
			tokens := lexer.Tokenize(src)

			if len(tokens) != 1 || tokens[0].Text != src {
				t.Errorf("expected single token consuming %q, got %v", src, tokens)
			}
		}
	})

	t.Run("punctuation is raw single characters", func(t *testing.T) {
		tokens := lexer.Tokenize("{};")

		want := []m.TokenKind{m.TokenRaw, m.TokenRaw, m.TokenRaw}
		got := kindsOf(tokens)

		if len(got) != len(want) {
			t.Fatalf("expected %d raw tokens, got %v", len(want), tokens)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("token %d: expected raw, got %v", i, tokens[i])
			}
		}
	})

	t.Run("concatenated token text reproduces the input", func(t *testing.T) {
		src := "<?php\n// header\nclass Account {\n\tpublic function withdraw($amount) {\n\t\treturn $amount - 0.5; # fee\n\t}\n}\n"

		var rebuilt strings.Builder
		for _, tok := range lexer.Tokenize(src) {
			rebuilt.WriteString(tok.Text)
		}

		if rebuilt.String() != src {
			t.Errorf("tokenization must be lossless:\n got %q\nwant %q", rebuilt.String(), src)
		}
	})
}
