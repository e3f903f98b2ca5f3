package lexer

import (
	"testing"

	"github.com/glasswing-labs/minishell/internal/token"
)

func collect(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.NEWLINE {
			break
		}
	}
	return toks
}

func TestNextTokenOperators(t *testing.T) {
	toks := collect("; && || | ( ) < > << >>")
	want := []token.Kind{
		token.SEMI, token.AND_IF, token.OR_IF, token.PIPE,
		token.LPAREN, token.RPAREN, token.LESS, token.GREAT,
		token.DLESS, token.DGREAT, token.NEWLINE,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNextTokenWords(t *testing.T) {
	toks := collect("echo hello world")
	want := []string{"echo", "hello", "world"}
	for i, w := range want {
		if toks[i].Kind != token.WORD || toks[i].Literal != w {
			t.Errorf("token %d = %v, want WORD(%q)", i, toks[i], w)
		}
	}
}

func TestNextTokenQuotedWordPreservesQuotes(t *testing.T) {
	toks := collect(`echo "hello world"`)
	if toks[1].Kind != token.WORD || toks[1].Literal != `"hello world"` {
		t.Errorf("quoted word = %v, want WORD(%q)", toks[1], `"hello world"`)
	}
}

func TestNextTokenSingleQuoteDoesNotEscape(t *testing.T) {
	toks := collect(`echo 'a\nb'`)
	if toks[1].Literal != `'a\nb'` {
		t.Errorf("literal = %q, want %q", toks[1].Literal, `'a\nb'`)
	}
}

func TestNextTokenBackslashEscapesMetacharacter(t *testing.T) {
	toks := collect(`echo foo\;bar`)
	if toks[1].Kind != token.WORD || toks[1].Literal != `foo\;bar` {
		t.Errorf("token = %v, want WORD(%q)", toks[1], `foo\;bar`)
	}
}

func TestNextTokenAmpersandAloneIsIllegal(t *testing.T) {
	toks := collect("&")
	if toks[0].Kind != token.ILLEGAL {
		t.Errorf("kind = %s, want ILLEGAL", toks[0].Kind)
	}
}

func TestNextTokenRedirectionAdjacentToWord(t *testing.T) {
	toks := collect("cat<file.txt>out.txt")
	want := []token.Kind{token.WORD, token.LESS, token.WORD, token.GREAT, token.WORD, token.NEWLINE}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNextTokenEmptyInputIsNewline(t *testing.T) {
	toks := collect("")
	if len(toks) != 1 || toks[0].Kind != token.NEWLINE {
		t.Errorf("tokens = %v, want single NEWLINE", toks)
	}
}

func TestNextTokenRepeatedCallsPastEndKeepReturningNewline(t *testing.T) {
	l := New(";")
	l.NextToken()
	first := l.NextToken()
	second := l.NextToken()
	if first.Kind != token.NEWLINE || second.Kind != token.NEWLINE {
		t.Errorf("got %v, %v, want repeated NEWLINE", first, second)
	}
}
