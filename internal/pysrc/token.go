package pysrc

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenIndent
	TokenDedent
	TokenName
	TokenKeyword
	TokenNumber
	TokenString
	TokenFString
	TokenOp
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "EOF",
	TokenNewline: "NEWLINE",
	TokenIndent:  "INDENT",
	TokenDedent:  "DEDENT",
	TokenName:    "NAME",
	TokenKeyword: "KEYWORD",
	TokenNumber:  "NUMBER",
	TokenString:  "STRING",
	TokenFString: "FSTRING",
	TokenOp:      "OP",
}

// String returns a human-readable name for the token kind.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit of workflow source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
}

// String renders the token for error messages and test failures.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF, TokenNewline, TokenIndent, TokenDedent:
		return t.Kind.String()
	case TokenKeyword, TokenOp:
		return fmt.Sprintf("%q", t.Text)
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}

// keywords is the set of reserved words recognized by the lexer. Words
// outside the parsed subset are still classified as keywords so that the
// parser rejects them with a clear message instead of misreading them as
// names.
var keywords = map[string]bool{
	"and":      true,
	"as":       true,
	"assert":   true,
	"async":    true,
	"await":    true,
	"break":    true,
	"class":    true,
	"continue": true,
	"def":      true,
	"del":      true,
	"elif":     true,
	"else":     true,
	"except":   true,
	"finally":  true,
	"for":      true,
	"from":     true,
	"global":   true,
	"if":       true,
	"import":   true,
	"in":       true,
	"is":       true,
	"lambda":   true,
	"nonlocal": true,
	"not":      true,
	"or":       true,
	"pass":     true,
	"raise":    true,
	"return":   true,
	"try":      true,
	"while":    true,
	"with":     true,
	"yield":    true,
	"False":    true,
	"None":     true,
	"True":     true,
}
