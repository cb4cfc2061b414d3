package pysrc

import (
	"strings"
	"unicode/utf8"
)

// tabWidth is the column multiple a tab advances to when measuring
// indentation, matching the reference tokenizer of the analyzed language.
const tabWidth = 8

// Lexer produces a stream of tokens from workflow source text. It tracks
// indentation and bracket depth so that INDENT, DEDENT and NEWLINE tokens
// follow the layout rules of the analyzed language.
type Lexer struct {
	src         []byte
	pos         int
	line        int
	col         int
	indents     []int
	pending     []Token
	depth       int
	atLineStart bool
	eofNewline  bool
	peeked      *Token
}

// NewLexer returns a lexer over src positioned at line 1, column 1.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:         []byte(src),
		line:        1,
		col:         1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked == nil {
		tok, err := l.scan()
		if err != nil {
			return Token{}, err
		}
		l.peeked = &tok
	}
	return *l.peeked, nil
}

// Next consumes and returns the next token. After the end of input it
// keeps returning EOF tokens.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.scan()
}

func (l *Lexer) scan() (Token, error) {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}

		if l.atLineStart && l.depth == 0 {
			if err := l.scanLineStart(); err != nil {
				return Token{}, err
			}
			continue
		}

		l.skipSpaces()

		if l.pos >= len(l.src) {
			if !l.eofNewline {
				l.eofNewline = true
				return Token{Kind: TokenNewline, Text: "\n", Pos: l.here()}, nil
			}
			for len(l.indents) > 1 {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, Token{Kind: TokenDedent, Pos: l.here()})
			}
			if len(l.pending) > 0 {
				continue
			}
			return Token{Kind: TokenEOF, Pos: l.here()}, nil
		}

		c := l.src[l.pos]
		switch {
		case c == '#':
			l.skipComment()
		case c == '\\' && l.peekByte(1) == '\n':
			l.advance()
			l.advance()
		case c == '\\' && l.peekByte(1) == '\r' && l.peekByte(2) == '\n':
			l.advance()
			l.advance()
			l.advance()
		case c == '\r':
			l.advance()
		case c == '\n':
			if l.depth > 0 {
				l.advance()
				continue
			}
			pos := l.here()
			l.advance()
			l.atLineStart = true
			return Token{Kind: TokenNewline, Text: "\n", Pos: pos}, nil
		case c == '\'' || c == '"':
			return l.scanString("")
		case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
			return l.scanNumber()
		case isIdentStart(c):
			return l.scanIdentifier()
		default:
			return l.scanOperator()
		}
	}
}

// scanLineStart measures the indentation of the next logical line,
// skipping blank and comment-only lines, and queues INDENT/DEDENT tokens
// as needed.
func (l *Lexer) scanLineStart() error {
	for {
		width := 0
	measure:
		for l.pos < len(l.src) {
			switch l.src[l.pos] {
			case ' ':
				width++
				l.advance()
			case '\t':
				width += tabWidth - width%tabWidth
				l.advance()
			case '\r':
				l.advance()
			default:
				break measure
			}
		}

		if l.pos >= len(l.src) {
			// Only trailing whitespace remains; the scan loop flushes
			// dedents and emits EOF.
			l.atLineStart = false
			l.eofNewline = true
			return nil
		}

		switch l.src[l.pos] {
		case '\n':
			l.advance()
			continue
		case '#':
			l.skipComment()
			continue
		}

		top := l.indents[len(l.indents)-1]
		switch {
		case width > top:
			l.indents = append(l.indents, width)
			l.pending = append(l.pending, Token{Kind: TokenIndent, Pos: l.here()})
		case width < top:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, Token{Kind: TokenDedent, Pos: l.here()})
			}
			if l.indents[len(l.indents)-1] != width {
				return newLexError(l.here(), "unindent does not match any outer indentation level")
			}
		}
		l.atLineStart = false
		return nil
	}
}

func (l *Lexer) scanString(prefix string) (Token, error) {
	pos := l.here()
	raw := strings.ContainsAny(prefix, "rR")
	formatted := strings.ContainsAny(prefix, "fF")

	quote := l.src[l.pos]
	l.advance()

	triple := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == quote && l.src[l.pos+1] == quote {
		triple = true
		l.advance()
		l.advance()
	}

	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, newLexError(pos, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == '\n' && !triple {
			return Token{}, newLexError(pos, "unterminated string literal")
		}
		if c == quote {
			if !triple {
				l.advance()
				break
			}
			if l.peekByte(1) == quote && l.peekByte(2) == quote {
				l.advance()
				l.advance()
				l.advance()
				break
			}
			sb.WriteByte(c)
			l.advance()
			continue
		}
		if c == '\\' && !raw {
			esc := l.peekByte(1)
			if esc == 0 {
				return Token{}, newLexError(pos, "unterminated string literal")
			}
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			case '\n':
				// Escaped newline: line continuation inside the literal.
			default:
				// Unknown escapes are kept verbatim, as the reference
				// tokenizer does.
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			l.advance()
			l.advance()
			continue
		}
		sb.WriteByte(c)
		l.advance()
	}

	kind := TokenString
	if formatted {
		kind = TokenFString
	}
	return Token{Kind: kind, Text: sb.String(), Pos: pos}, nil
}

func (l *Lexer) scanNumber() (Token, error) {
	pos := l.here()
	start := l.pos

	if l.src[l.pos] == '0' {
		switch l.peekByte(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && (isHexDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.advance()
			}
			return Token{Kind: TokenNumber, Text: string(l.src[start:l.pos]), Pos: pos}, nil
		}
	}

	digits := func() {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.advance()
		}
	}

	digits()
	if l.pos < len(l.src) && l.src[l.pos] == '.' && !isIdentStart(l.peekByte(1)) && l.peekByte(1) != '.' {
		l.advance()
		digits()
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		next := l.peekByte(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekByte(2))) {
			l.advance()
			if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
				l.advance()
			}
			digits()
		}
	}

	return Token{Kind: TokenNumber, Text: string(l.src[start:l.pos]), Pos: pos}, nil
}

func (l *Lexer) scanIdentifier() (Token, error) {
	pos := l.here()
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.advance()
	}
	text := string(l.src[start:l.pos])

	if (l.peekByte(0) == '"' || l.peekByte(0) == '\'') && isStringPrefix(text) {
		return l.scanString(text)
	}

	if keywords[text] {
		return Token{Kind: TokenKeyword, Text: text, Pos: pos}, nil
	}
	return Token{Kind: TokenName, Text: text, Pos: pos}, nil
}

// twoCharOps holds the multi-character operators recognized by the lexer.
var twoCharOps = map[string]bool{
	"==": true, "!=": true, "<=": true, ">=": true,
	"//": true, "**": true, "->": true, ":=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<": true, ">>": true,
}

const singleOps = "+-*/%<>=()[]{},:.;@&|^~"

func (l *Lexer) scanOperator() (Token, error) {
	pos := l.here()
	c := l.src[l.pos]

	if l.pos+1 < len(l.src) {
		two := string(l.src[l.pos : l.pos+2])
		if twoCharOps[two] {
			l.advance()
			l.advance()
			return Token{Kind: TokenOp, Text: two, Pos: pos}, nil
		}
	}

	if strings.IndexByte(singleOps, c) < 0 {
		return Token{}, newLexError(pos, "unexpected character %q", string(c))
	}

	switch c {
	case '(', '[', '{':
		l.depth++
	case ')', ']', '}':
		if l.depth > 0 {
			l.depth--
		}
	}
	l.advance()
	return Token{Kind: TokenOp, Text: string(c), Pos: pos}, nil
}

func (l *Lexer) skipSpaces() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.advance()
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) here() Position {
	return Position{Line: l.line, Col: l.col}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Identifier bytes outside ASCII are accepted permissively; the validator
// has no reason to reject non-ASCII names the runtime would allow.
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isStringPrefix(text string) bool {
	if len(text) == 0 || len(text) > 2 {
		return false
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case 'f', 'F', 'r', 'R', 'b', 'B', 'u', 'U':
		default:
			return false
		}
	}
	return true
}
