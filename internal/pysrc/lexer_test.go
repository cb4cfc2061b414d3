package pysrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer(src)
	var tokens []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerNamesAndKeywords(t *testing.T) {
	tokens := collectTokens(t, "workflow import x as y")
	expected := []TokenKind{
		TokenName, TokenKeyword, TokenName, TokenKeyword, TokenName,
		TokenNewline, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
	assert.Equal(t, "workflow", tokens[0].Text)
	assert.Equal(t, "import", tokens[1].Text)
}

func TestLexerOperators(t *testing.T) {
	tokens := collectTokens(t, "a == b != c <= d >= e -> f")
	var ops []string
	for _, tok := range tokens {
		if tok.Kind == TokenOp {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"==", "!=", "<=", ">=", "->"}, ops)
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		value string
	}{
		{`"hello"`, "hello"},
		{`''`, ""},
		{`'it\'s'`, "it's"},
		{`"a\\b"`, `a\b`},
		{`"line1\nline2"`, "line1\nline2"},
		{`"""triple
quoted"""`, "triple\nquoted"},
		{`'''doc'''`, "doc"},
	}
	for _, tt := range tests {
		tokens := collectTokens(t, tt.input)
		require.GreaterOrEqual(t, len(tokens), 2, "input: %s", tt.input)
		assert.Equal(t, TokenString, tokens[0].Kind, "input: %s", tt.input)
		assert.Equal(t, tt.value, tokens[0].Text, "input: %s", tt.input)
	}
}

func TestLexerStringPrefixes(t *testing.T) {
	tokens := collectTokens(t, `f"node_{i}"`)
	assert.Equal(t, TokenFString, tokens[0].Kind)

	tokens = collectTokens(t, `r"raw\n"`)
	assert.Equal(t, TokenString, tokens[0].Kind)
	assert.Equal(t, `raw\n`, tokens[0].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer(`"hello`)
	_, err := lex.Next()
	require.Error(t, err)
	assert.IsType(t, &LexError{}, err)
}

func TestLexerNumbers(t *testing.T) {
	tests := []string{"0", "42", "3.14", "0.5", "1_000", "1e6", "2.5e-3", "0x1f"}
	for _, input := range tests {
		tokens := collectTokens(t, input)
		require.GreaterOrEqual(t, len(tokens), 2, "input: %s", input)
		assert.Equal(t, TokenNumber, tokens[0].Kind, "input: %s", input)
		assert.Equal(t, input, tokens[0].Text, "input: %s", input)
	}
}

func TestLexerIndentation(t *testing.T) {
	src := "def f():\n    x = 1\n    return x\n"
	tokens := collectTokens(t, src)
	expected := []TokenKind{
		TokenKeyword, TokenName, TokenOp, TokenOp, TokenOp, TokenNewline,
		TokenIndent,
		TokenName, TokenOp, TokenNumber, TokenNewline,
		TokenKeyword, TokenName, TokenNewline,
		TokenDedent,
		TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerNestedIndentation(t *testing.T) {
	src := "if a:\n    if b:\n        pass\nx = 1\n"
	tokens := collectTokens(t, src)

	var indents, dedents int
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenIndent:
			indents++
		case TokenDedent:
			dedents++
		}
	}
	assert.Equal(t, 2, indents)
	assert.Equal(t, 2, dedents)
}

func TestLexerDedentMismatch(t *testing.T) {
	src := "if a:\n        pass\n   x = 1\n"
	lex := NewLexer(src)
	var err error
	for err == nil {
		var tok Token
		tok, err = lex.Next()
		if err == nil && tok.Kind == TokenEOF {
			t.Fatal("expected an indentation error before EOF")
		}
	}
	assert.IsType(t, &LexError{}, err)
	assert.Contains(t, err.Error(), "unindent")
}

func TestLexerBlankAndCommentLines(t *testing.T) {
	src := "x = 1\n\n# comment only\n   \ny = 2\n"
	tokens := collectTokens(t, src)
	expected := []TokenKind{
		TokenName, TokenOp, TokenNumber, TokenNewline,
		TokenName, TokenOp, TokenNumber, TokenNewline,
		TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerImplicitContinuation(t *testing.T) {
	src := "f(\n    1,\n    2,\n)\n"
	tokens := collectTokens(t, src)
	for _, tok := range tokens[:len(tokens)-2] {
		assert.NotEqual(t, TokenIndent, tok.Kind)
		assert.NotEqual(t, TokenNewline, tok.Kind)
	}
}

func TestLexerBackslashContinuation(t *testing.T) {
	src := "x = 1 + \\\n    2\n"
	tokens := collectTokens(t, src)
	expected := []TokenKind{
		TokenName, TokenOp, TokenNumber, TokenOp, TokenNumber,
		TokenNewline, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerMissingTrailingNewline(t *testing.T) {
	tokens := collectTokens(t, "x = 1")
	expected := []TokenKind{
		TokenName, TokenOp, TokenNumber, TokenNewline, TokenEOF,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestLexerDedentsFlushedAtEOF(t *testing.T) {
	tokens := collectTokens(t, "def f():\n    pass")
	last3 := kinds(tokens[len(tokens)-3:])
	assert.Equal(t, []TokenKind{TokenNewline, TokenDedent, TokenEOF}, last3)
}

func TestLexerPositions(t *testing.T) {
	tokens := collectTokens(t, "a = 1\nbb = 2\n")
	assert.Equal(t, Position{Line: 1, Col: 1}, tokens[0].Pos)
	assert.Equal(t, Position{Line: 1, Col: 3}, tokens[1].Pos)
	assert.Equal(t, Position{Line: 2, Col: 1}, tokens[4].Pos)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	lex := NewLexer("x = $")
	var err error
	for err == nil {
		var tok Token
		tok, err = lex.Next()
		if err == nil && tok.Kind == TokenEOF {
			t.Fatal("expected a lex error before EOF")
		}
	}
	assert.IsType(t, &LexError{}, err)
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lex := NewLexer("a b")
	peeked, err := lex.Peek()
	require.NoError(t, err)
	next, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, peeked, next)
	after, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", after.Text)
}
