package pysrc

import (
	"errors"
	"fmt"
)

// ParseError is the base error for lexing and parsing failures. It carries
// the position of the offending input.
type ParseError struct {
	Message string
	Pos     Position
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Pos.Line, e.Pos.Col, e.Message)
}

// Position returns where the error occurred.
func (e *ParseError) Position() Position { return e.Pos }

// ErrorPosition extracts the source position from a lex or parse error.
// ok is false for errors that carry none.
func ErrorPosition(err error) (Position, bool) {
	var p interface{ Position() Position }
	if errors.As(err, &p) {
		return p.Position(), true
	}
	return Position{}, false
}

// LexError reports an invalid character sequence, such as an unterminated
// string literal or a stray control character.
type LexError struct {
	ParseError
}

func newLexError(pos Position, format string, args ...any) *LexError {
	return &LexError{ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}}
}

// SyntaxError reports a structurally invalid statement or expression.
type SyntaxError struct {
	ParseError
	Expected string
	Got      string
}

func newSyntaxError(pos Position, expected, got string) *SyntaxError {
	return &SyntaxError{
		ParseError: ParseError{
			Message: fmt.Sprintf("expected %s, got %s", expected, got),
			Pos:     pos,
		},
		Expected: expected,
		Got:      got,
	}
}

func syntaxErrorf(pos Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{ParseError: ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}}
}
