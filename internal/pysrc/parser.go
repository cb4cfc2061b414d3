package pysrc

import (
	"fmt"
	"strconv"
	"strings"
)

// maxNestingDepth bounds expression recursion so that degenerate inputs
// fail with a syntax error instead of exhausting the stack.
const maxNestingDepth = 200

// Parse parses workflow source text into a Module.
func Parse(src string) (*Module, error) {
	p := &parser{lex: NewLexer(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseModule()
}

type parser struct {
	lex   *Lexer
	tok   Token
	depth int
}

func (p *parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNestingDepth {
		return syntaxErrorf(p.tok.Pos, "expression nesting too deep")
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) atOp(text string) bool {
	return p.tok.Kind == TokenOp && p.tok.Text == text
}

func (p *parser) atKeyword(word string) bool {
	return p.tok.Kind == TokenKeyword && p.tok.Text == word
}

func (p *parser) expectOp(text string) error {
	if !p.atOp(text) {
		return newSyntaxError(p.tok.Pos, fmt.Sprintf("%q", text), p.tok.String())
	}
	return p.next()
}

func (p *parser) expectKeyword(word string) error {
	if !p.atKeyword(word) {
		return newSyntaxError(p.tok.Pos, fmt.Sprintf("%q", word), p.tok.String())
	}
	return p.next()
}

func (p *parser) expectName() (Token, error) {
	if p.tok.Kind != TokenName {
		return Token{}, newSyntaxError(p.tok.Pos, "name", p.tok.String())
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *parser) expectNewline() error {
	if p.tok.Kind != TokenNewline {
		return newSyntaxError(p.tok.Pos, "end of line", p.tok.String())
	}
	return p.next()
}

func (p *parser) parseModule() (*Module, error) {
	mod := &Module{}
	for p.tok.Kind != TokenEOF {
		if p.tok.Kind == TokenNewline {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmts...)
	}
	return mod, nil
}

func (p *parser) parseStatement() ([]Stmt, error) {
	switch p.tok.Kind {
	case TokenKeyword:
		switch p.tok.Text {
		case "def":
			stmt, err := p.parseFunctionDef(nil)
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "class":
			stmt, err := p.parseClassDef(nil)
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "async":
			if err := p.next(); err != nil {
				return nil, err
			}
			if !p.atKeyword("def") {
				return nil, newSyntaxError(p.tok.Pos, `"def"`, p.tok.String())
			}
			stmt, err := p.parseFunctionDef(nil)
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "if":
			stmt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "for":
			stmt, err := p.parseFor()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "while":
			stmt, err := p.parseWhile()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "try":
			stmt, err := p.parseTry()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "with":
			stmt, err := p.parseWith()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		case "import", "from", "return", "pass", "break", "continue",
			"raise", "assert", "True", "False", "None", "not", "await":
			return p.parseSimpleLine()
		default:
			return nil, newSyntaxError(p.tok.Pos, "statement", p.tok.String())
		}
	case TokenOp:
		if p.tok.Text == "@" {
			stmt, err := p.parseDecorated()
			if err != nil {
				return nil, err
			}
			return []Stmt{stmt}, nil
		}
		return p.parseSimpleLine()
	case TokenIndent:
		return nil, syntaxErrorf(p.tok.Pos, "unexpected indent")
	default:
		return p.parseSimpleLine()
	}
}

func (p *parser) parseDecorated() (Stmt, error) {
	var decorators []Expr
	for p.atOp("@") {
		if err := p.next(); err != nil {
			return nil, err
		}
		dec, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, dec)
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
	}

	switch {
	case p.atKeyword("def"):
		return p.parseFunctionDef(decorators)
	case p.atKeyword("class"):
		return p.parseClassDef(decorators)
	case p.atKeyword("async"):
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.atKeyword("def") {
			return nil, newSyntaxError(p.tok.Pos, `"def"`, p.tok.String())
		}
		return p.parseFunctionDef(decorators)
	default:
		return nil, newSyntaxError(p.tok.Pos, `"def" or "class" after decorators`, p.tok.String())
	}
}

func (p *parser) parseFunctionDef(decorators []Expr) (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // def
		return nil, err
	}
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp("("); err != nil {
		return nil, err
	}

	var params []Param
	for !p.atOp(")") {
		ppos := p.tok.Pos
		star := 0
		switch {
		case p.atOp("**"):
			if err := p.next(); err != nil {
				return nil, err
			}
			star = 2
		case p.atOp("*"):
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.atOp(",") || p.atOp(")") {
				// Bare * keyword-only marker carries no parameter.
				if p.atOp(",") {
					if err := p.next(); err != nil {
						return nil, err
					}
				}
				continue
			}
			star = 1
		}

		nameTok, err := p.expectName()
		if err != nil {
			return nil, err
		}
		param := Param{Name: nameTok.Text, Star: star, Pos: ppos}

		if p.atOp(":") {
			if err := p.next(); err != nil {
				return nil, err
			}
			if _, err := p.parseExpr(); err != nil { // annotation, unused
				return nil, err
			}
		}
		if p.atOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			def, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		params = append(params, param)

		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}

	if p.atOp("->") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.parseExpr(); err != nil { // return annotation, unused
			return nil, err
		}
	}

	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &FunctionDef{
		Name:       name.Text,
		Params:     params,
		Decorators: decorators,
		Body:       body,
		Pos:        pos,
	}, nil
}

func (p *parser) parseClassDef(decorators []Expr) (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // class
		return nil, err
	}
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}

	var bases []Expr
	var kws []Keyword
	if p.atOp("(") {
		if err := p.next(); err != nil {
			return nil, err
		}
		for !p.atOp(")") {
			if p.tok.Kind == TokenName {
				peek, err := p.lex.Peek()
				if err != nil {
					return nil, err
				}
				if peek.Kind == TokenOp && peek.Text == "=" {
					kwName := p.tok.Text
					kwPos := p.tok.Pos
					if err := p.next(); err != nil {
						return nil, err
					}
					if err := p.next(); err != nil {
						return nil, err
					}
					value, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					kws = append(kws, Keyword{Name: kwName, Value: value, Pos: kwPos})
					if p.atOp(",") {
						if err := p.next(); err != nil {
							return nil, err
						}
					}
					continue
				}
			}
			base, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			bases = append(bases, base)
			if p.atOp(",") {
				if err := p.next(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &ClassDef{
		Name:       name.Text,
		Bases:      bases,
		Keywords:   kws,
		Decorators: decorators,
		Body:       body,
		Pos:        pos,
	}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // if or elif
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}

	var orelse []Stmt
	switch {
	case p.atKeyword("elif"):
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		orelse = []Stmt{nested}
	case p.atKeyword("else"):
		if err := p.next(); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Cond: cond, Body: body, Orelse: orelse, Pos: pos}, nil
}

func (p *parser) parseFor() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // for
		return nil, err
	}
	target, err := p.parseTargetList()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	iter, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	var orelse []Stmt
	if p.atKeyword("else") {
		if err := p.next(); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}
	return &ForStmt{Target: target, Iter: iter, Body: body, Orelse: orelse, Pos: pos}, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // while
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	var orelse []Stmt
	if p.atKeyword("else") {
		if err := p.next(); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}
	return &WhileStmt{Cond: cond, Body: body, Orelse: orelse, Pos: pos}, nil
}

func (p *parser) parseTry() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // try
		return nil, err
	}
	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}

	var handlers []ExceptClause
	for p.atKeyword("except") {
		hpos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		var typ Expr
		name := ""
		if !p.atOp(":") {
			typ, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.atKeyword("as") {
				if err := p.next(); err != nil {
					return nil, err
				}
				nameTok, err := p.expectName()
				if err != nil {
					return nil, err
				}
				name = nameTok.Text
			}
		}
		hbody, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, ExceptClause{Type: typ, Name: name, Body: hbody, Pos: hpos})
	}

	var orelse, final []Stmt
	if p.atKeyword("else") {
		if err := p.next(); err != nil {
			return nil, err
		}
		orelse, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}
	if p.atKeyword("finally") {
		if err := p.next(); err != nil {
			return nil, err
		}
		final, err = p.parseBlockBody()
		if err != nil {
			return nil, err
		}
	}

	if len(handlers) == 0 && final == nil {
		return nil, syntaxErrorf(p.tok.Pos, "expected 'except' or 'finally' block")
	}
	return &TryStmt{Body: body, Handlers: handlers, Orelse: orelse, Final: final, Pos: pos}, nil
}

func (p *parser) parseWith() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // with
		return nil, err
	}

	var items []WithItem
	for {
		ctx, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		name := ""
		if p.atKeyword("as") {
			if err := p.next(); err != nil {
				return nil, err
			}
			target, err := p.parseTarget()
			if err != nil {
				return nil, err
			}
			if n, ok := target.(*Name); ok {
				name = n.ID
			}
		}
		items = append(items, WithItem{Ctx: ctx, Name: name})
		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	body, err := p.parseBlockBody()
	if err != nil {
		return nil, err
	}
	return &WithStmt{Items: items, Body: body, Pos: pos}, nil
}

// parseBlockBody parses the suite that follows a compound statement
// header: either an indented block or simple statements on the same line.
func (p *parser) parseBlockBody() ([]Stmt, error) {
	if err := p.expectOp(":"); err != nil {
		return nil, err
	}

	if p.tok.Kind != TokenNewline {
		return p.parseSimpleLine()
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.Kind != TokenIndent {
		return nil, newSyntaxError(p.tok.Pos, "indented block", p.tok.String())
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	var body []Stmt
	for p.tok.Kind != TokenDedent && p.tok.Kind != TokenEOF {
		if p.tok.Kind == TokenNewline {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	if p.tok.Kind == TokenDedent {
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// parseSimpleLine parses one or more semicolon-separated simple statements
// terminated by a newline.
func (p *parser) parseSimpleLine() ([]Stmt, error) {
	var stmts []Stmt
	for {
		stmt, err := p.parseSimpleStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if p.atOp(";") {
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.tok.Kind == TokenNewline {
				break
			}
			continue
		}
		break
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return stmts, nil
}

var augOps = map[string]bool{
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
}

func (p *parser) parseSimpleStmt() (Stmt, error) {
	pos := p.tok.Pos

	if p.tok.Kind == TokenKeyword {
		switch p.tok.Text {
		case "import":
			return p.parseImport()
		case "from":
			return p.parseFromImport()
		case "pass":
			if err := p.next(); err != nil {
				return nil, err
			}
			return &PassStmt{Pos: pos}, nil
		case "break":
			if err := p.next(); err != nil {
				return nil, err
			}
			return &BreakStmt{Pos: pos}, nil
		case "continue":
			if err := p.next(); err != nil {
				return nil, err
			}
			return &ContinueStmt{Pos: pos}, nil
		case "return":
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.tok.Kind == TokenNewline || p.atOp(";") {
				return &ReturnStmt{Pos: pos}, nil
			}
			value, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			return &ReturnStmt{Value: value, Pos: pos}, nil
		case "raise":
			if err := p.next(); err != nil {
				return nil, err
			}
			stmt := &RaiseStmt{Pos: pos}
			if p.tok.Kind != TokenNewline && !p.atOp(";") {
				exc, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				stmt.Exc = exc
				if p.atKeyword("from") {
					if err := p.next(); err != nil {
						return nil, err
					}
					cause, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					stmt.Cause = cause
				}
			}
			return stmt, nil
		case "assert":
			if err := p.next(); err != nil {
				return nil, err
			}
			test, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			stmt := &AssertStmt{Test: test, Pos: pos}
			if p.atOp(",") {
				if err := p.next(); err != nil {
					return nil, err
				}
				msg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				stmt.Msg = msg
			}
			return stmt, nil
		}
	}

	expr, err := p.parseExprList()
	if err != nil {
		return nil, err
	}

	// Annotated assignment: target ":" type ["=" value]. The annotation is
	// parsed and dropped.
	if p.atOp(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if _, err := p.parseExpr(); err != nil {
			return nil, err
		}
		if p.atOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			return &AssignStmt{Targets: []Expr{expr}, Value: value, Pos: pos}, nil
		}
		return &ExprStmt{X: expr, Pos: pos}, nil
	}

	if p.tok.Kind == TokenOp && augOps[p.tok.Text] {
		op := p.tok.Text
		if err := p.next(); err != nil {
			return nil, err
		}
		value, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		return &AugAssignStmt{Target: expr, Op: op, Value: value, Pos: pos}, nil
	}

	if p.atOp("=") {
		targets := []Expr{expr}
		var value Expr
		for p.atOp("=") {
			if err := p.next(); err != nil {
				return nil, err
			}
			v, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			targets = append(targets, v)
			value = v
		}
		return &AssignStmt{Targets: targets[:len(targets)-1], Value: value, Pos: pos}, nil
	}

	return &ExprStmt{X: expr, Pos: pos}, nil
}

func (p *parser) parseImport() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // import
		return nil, err
	}
	var items []ImportItem
	for {
		ipos := p.tok.Pos
		path, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.atKeyword("as") {
			if err := p.next(); err != nil {
				return nil, err
			}
			aliasTok, err := p.expectName()
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Text
		}
		items = append(items, ImportItem{Path: path, Alias: alias, Pos: ipos})
		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return &ImportStmt{Items: items, Pos: pos}, nil
}

func (p *parser) parseFromImport() (Stmt, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // from
		return nil, err
	}

	dots := 0
	for p.atOp(".") {
		dots++
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	module := ""
	if p.tok.Kind == TokenName {
		var err error
		module, err = p.parseDottedName()
		if err != nil {
			return nil, err
		}
	}
	if dots == 0 && module == "" {
		return nil, newSyntaxError(p.tok.Pos, "module name", p.tok.String())
	}

	if err := p.expectKeyword("import"); err != nil {
		return nil, err
	}

	stmt := &FromImportStmt{Dots: dots, Module: module, Pos: pos}

	if p.atOp("*") {
		if err := p.next(); err != nil {
			return nil, err
		}
		stmt.Star = true
		return stmt, nil
	}

	parenthesized := false
	if p.atOp("(") {
		parenthesized = true
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	for {
		ipos := p.tok.Pos
		nameTok, err := p.expectName()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.atKeyword("as") {
			if err := p.next(); err != nil {
				return nil, err
			}
			aliasTok, err := p.expectName()
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Text
		}
		stmt.Items = append(stmt.Items, ImportItem{Path: nameTok.Text, Alias: alias, Pos: ipos})
		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			if parenthesized && p.atOp(")") {
				break
			}
			continue
		}
		break
	}

	if parenthesized {
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseDottedName() (string, error) {
	first, err := p.expectName()
	if err != nil {
		return "", err
	}
	parts := []string{first.Text}
	for p.atOp(".") {
		if err := p.next(); err != nil {
			return "", err
		}
		part, err := p.expectName()
		if err != nil {
			return "", err
		}
		parts = append(parts, part.Text)
	}
	return strings.Join(parts, "."), nil
}

func (p *parser) canStartExpr() bool {
	switch p.tok.Kind {
	case TokenName, TokenNumber, TokenString, TokenFString:
		return true
	case TokenKeyword:
		switch p.tok.Text {
		case "True", "False", "None", "not", "await":
			return true
		}
		return false
	case TokenOp:
		switch p.tok.Text {
		case "(", "[", "{", "-", "+", "~", "*":
			return true
		}
		return false
	}
	return false
}

// parseExprList parses expr ("," expr)*, producing a Tuple when more than
// one expression is present.
func (p *parser) parseExprList() (Expr, error) {
	pos := p.tok.Pos
	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}
	if !p.atOp(",") {
		return first, nil
	}

	elts := []Expr{first}
	for p.atOp(",") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.canStartExpr() {
			break
		}
		elt, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
	}
	return &Tuple{Elts: elts, Pos: pos}, nil
}

func (p *parser) parseStarOrExpr() (Expr, error) {
	if p.atOp("*") {
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Starred{X: x, Pos: pos}, nil
	}
	return p.parseExpr()
}

// parseTargetList parses assignment/loop targets. Targets are primaries
// only, so a following "in" keyword is never swallowed by a comparison.
func (p *parser) parseTargetList() (Expr, error) {
	pos := p.tok.Pos
	first, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	if !p.atOp(",") {
		return first, nil
	}

	elts := []Expr{first}
	for p.atOp(",") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if !p.canStartExpr() {
			break
		}
		elt, err := p.parseTarget()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
	}
	return &Tuple{Elts: elts, Pos: pos}, nil
}

func (p *parser) parseTarget() (Expr, error) {
	if p.atOp("*") {
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseTarget()
		if err != nil {
			return nil, err
		}
		return &Starred{X: x, Pos: pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parseExpr() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	return p.parseTernary()
}

func (p *parser) parseTernary() (Expr, error) {
	expr, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("if") {
		return expr, nil
	}
	pos := p.tok.Pos
	if err := p.next(); err != nil {
		return nil, err
	}
	cond, err := p.parseOrTest()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	orelse, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &IfExp{Body: expr, Cond: cond, Orelse: orelse, Pos: pos}, nil
}

func (p *parser) parseOrTest() (Expr, error) {
	left, err := p.parseAndTest()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("or") {
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseAndTest()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Left: left, Op: "or", Right: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseAndTest() (Expr, error) {
	left, err := p.parseNotTest()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("and") {
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseNotTest()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Left: left, Op: "and", Right: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseNotTest() (Expr, error) {
	if !p.atKeyword("not") {
		return p.parseComparison()
	}
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	pos := p.tok.Pos
	if err := p.next(); err != nil {
		return nil, err
	}
	operand, err := p.parseNotTest()
	if err != nil {
		return nil, err
	}
	return &UnaryOp{Op: "not", Operand: operand, Pos: pos}, nil
}

var compOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseArith()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		pos := p.tok.Pos
		switch {
		case p.tok.Kind == TokenOp && compOps[p.tok.Text]:
			op = p.tok.Text
			if err := p.next(); err != nil {
				return nil, err
			}
		case p.atKeyword("in"):
			op = "in"
			if err := p.next(); err != nil {
				return nil, err
			}
		case p.atKeyword("not"):
			if err := p.next(); err != nil {
				return nil, err
			}
			if err := p.expectKeyword("in"); err != nil {
				return nil, err
			}
			op = "not in"
		case p.atKeyword("is"):
			if err := p.next(); err != nil {
				return nil, err
			}
			op = "is"
			if p.atKeyword("not") {
				if err := p.next(); err != nil {
					return nil, err
				}
				op = "is not"
			}
		default:
			return left, nil
		}
		right, err := p.parseArith()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Left: left, Op: op, Right: right, Pos: pos}
	}
}

func (p *parser) parseArith() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.atOp("+") || p.atOp("-") || p.atOp("|") || p.atOp("^") || p.atOp("&") || p.atOp("<<") || p.atOp(">>") {
		op := p.tok.Text
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Left: left, Op: op, Right: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.atOp("*") || p.atOp("/") || p.atOp("//") || p.atOp("%") || p.atOp("@") {
		op := p.tok.Text
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &BinOp{Left: left, Op: op, Right: right, Pos: pos}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	switch {
	case p.atOp("-"), p.atOp("+"), p.atOp("~"):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		op := p.tok.Text
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op, Operand: operand, Pos: pos}, nil
	case p.atKeyword("await"):
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: "await", Operand: operand, Pos: pos}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.atOp("**") {
		pos := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &BinOp{Left: left, Op: "**", Right: right, Pos: pos}, nil
	}
	return left, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atOp("("):
			expr, err = p.parseCallArgs(expr)
			if err != nil {
				return nil, err
			}
		case p.atOp("."):
			if err := p.next(); err != nil {
				return nil, err
			}
			nameTok, err := p.expectName()
			if err != nil {
				return nil, err
			}
			expr = &Attribute{Value: expr, Attr: nameTok.Text, Pos: nameTok.Pos}
		case p.atOp("["):
			pos := p.tok.Pos
			if err := p.next(); err != nil {
				return nil, err
			}
			index, err := p.parseSubscriptIndex()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("]"); err != nil {
				return nil, err
			}
			expr = &Subscript{Value: expr, Index: index, Pos: pos}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseCallArgs(fn Expr) (Expr, error) {
	pos := Pos(fn)
	if err := p.next(); err != nil { // (
		return nil, err
	}

	call := &Call{Func: fn, Pos: pos}
	for !p.atOp(")") {
		switch {
		case p.atOp("**"):
			kwPos := p.tok.Pos
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Keywords = append(call.Keywords, Keyword{Value: value, Pos: kwPos})
		case p.atOp("*"):
			starPos := p.tok.Pos
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, &Starred{X: value, Pos: starPos})
		default:
			if p.tok.Kind == TokenName {
				peek, err := p.lex.Peek()
				if err != nil {
					return nil, err
				}
				if peek.Kind == TokenOp && peek.Text == "=" {
					kwName := p.tok.Text
					kwPos := p.tok.Pos
					if err := p.next(); err != nil {
						return nil, err
					}
					if err := p.next(); err != nil {
						return nil, err
					}
					value, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					call.Keywords = append(call.Keywords, Keyword{Name: kwName, Value: value, Pos: kwPos})
					if p.atOp(",") {
						if err := p.next(); err != nil {
							return nil, err
						}
					}
					continue
				}
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.atKeyword("for") && len(call.Args) == 0 && len(call.Keywords) == 0 {
				comp, err := p.parseCompClauses(arg, nil, Pos(arg))
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, comp)
				continue
			}
			call.Args = append(call.Args, arg)
		}
		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseSubscriptIndex() (Expr, error) {
	pos := p.tok.Pos
	var parts []Expr

	// Slice notation folds into a Tuple; validation never dereferences it.
	if p.atOp(":") {
		parts = append(parts, nil)
	} else {
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if !p.atOp(":") && !p.atOp(",") {
			return first, nil
		}
		if p.atOp(",") {
			elts := []Expr{first}
			for p.atOp(",") {
				if err := p.next(); err != nil {
					return nil, err
				}
				if p.atOp("]") {
					break
				}
				elt, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				elts = append(elts, elt)
			}
			return &Tuple{Elts: elts, Pos: pos}, nil
		}
		parts = append(parts, first)
	}

	for p.atOp(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.atOp("]") || p.atOp(":") {
			parts = append(parts, nil)
			continue
		}
		part, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	tuple := &Tuple{Pos: pos}
	for _, part := range parts {
		if part != nil {
			tuple.Elts = append(tuple.Elts, part)
		}
	}
	return tuple, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.tok
	switch tok.Kind {
	case TokenName:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Name{ID: tok.Text, Pos: tok.Pos}, nil
	case TokenNumber:
		if err := p.next(); err != nil {
			return nil, err
		}
		return numFromToken(tok)
	case TokenString, TokenFString:
		value := tok.Text
		formatted := tok.Kind == TokenFString
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.Kind == TokenString || p.tok.Kind == TokenFString {
			value += p.tok.Text
			formatted = formatted || p.tok.Kind == TokenFString
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		return &Str{Value: value, FString: formatted, Pos: tok.Pos}, nil
	case TokenKeyword:
		switch tok.Text {
		case "True", "False":
			if err := p.next(); err != nil {
				return nil, err
			}
			return &BoolLit{Value: tok.Text == "True", Pos: tok.Pos}, nil
		case "None":
			if err := p.next(); err != nil {
				return nil, err
			}
			return &NoneLit{Pos: tok.Pos}, nil
		}
	case TokenOp:
		switch tok.Text {
		case "(":
			return p.parseParenOrTuple()
		case "[":
			return p.parseListDisplay()
		case "{":
			return p.parseDictDisplay()
		}
	}
	return nil, newSyntaxError(tok.Pos, "expression", tok.String())
}

func (p *parser) parseParenOrTuple() (Expr, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // (
		return nil, err
	}
	if p.atOp(")") {
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Tuple{Pos: pos}, nil
	}

	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("for") {
		comp, err := p.parseCompClauses(first, nil, pos)
		if err != nil {
			return nil, err
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return comp, nil
	}

	if p.atOp(",") {
		elts := []Expr{first}
		for p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.atOp(")") {
				break
			}
			elt, err := p.parseStarOrExpr()
			if err != nil {
				return nil, err
			}
			elts = append(elts, elt)
		}
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return &Tuple{Elts: elts, Pos: pos}, nil
	}

	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return first, nil
}

func (p *parser) parseListDisplay() (Expr, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // [
		return nil, err
	}
	if p.atOp("]") {
		if err := p.next(); err != nil {
			return nil, err
		}
		return &List{Pos: pos}, nil
	}

	first, err := p.parseStarOrExpr()
	if err != nil {
		return nil, err
	}

	if p.atKeyword("for") {
		comp, err := p.parseCompClauses(first, nil, pos)
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("]"); err != nil {
			return nil, err
		}
		return comp, nil
	}

	elts := []Expr{first}
	for p.atOp(",") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.atOp("]") {
			break
		}
		elt, err := p.parseStarOrExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
	}
	if err := p.expectOp("]"); err != nil {
		return nil, err
	}
	return &List{Elts: elts, Pos: pos}, nil
}

func (p *parser) parseDictDisplay() (Expr, error) {
	pos := p.tok.Pos
	if err := p.next(); err != nil { // {
		return nil, err
	}
	if p.atOp("}") {
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Dict{Pos: pos}, nil
	}

	if p.atOp("**") {
		return p.parseDictEntries(nil, pos)
	}

	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.atOp(":") {
		if err := p.next(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.atKeyword("for") {
			comp, err := p.parseCompClauses(first, value, pos)
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("}"); err != nil {
				return nil, err
			}
			return comp, nil
		}
		entry := DictEntry{Key: first, Value: value}
		return p.parseDictEntries(&entry, pos)
	}

	if p.atKeyword("for") {
		comp, err := p.parseCompClauses(first, nil, pos)
		if err != nil {
			return nil, err
		}
		if err := p.expectOp("}"); err != nil {
			return nil, err
		}
		return comp, nil
	}

	// Set display.
	elts := []Expr{first}
	for p.atOp(",") {
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.atOp("}") {
			break
		}
		elt, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elts = append(elts, elt)
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return &List{Elts: elts, Pos: pos}, nil
}

// parseDictEntries finishes a mapping display whose first entry (if any)
// has already been parsed.
func (p *parser) parseDictEntries(first *DictEntry, pos Position) (Expr, error) {
	dict := &Dict{Pos: pos}
	if first != nil {
		dict.Entries = append(dict.Entries, *first)
		if !p.atOp(",") {
			if err := p.expectOp("}"); err != nil {
				return nil, err
			}
			return dict, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	for !p.atOp("}") {
		if p.atOp("**") {
			if err := p.next(); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, DictEntry{Value: value})
		} else {
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(":"); err != nil {
				return nil, err
			}
			value, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			dict.Entries = append(dict.Entries, DictEntry{Key: key, Value: value})
		}
		if p.atOp(",") {
			if err := p.next(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return dict, nil
}

func (p *parser) parseCompClauses(elt, value Expr, pos Position) (Expr, error) {
	comp := &Comprehension{Elt: elt, Value: value, Pos: pos}
	for p.atKeyword("for") {
		if err := p.next(); err != nil {
			return nil, err
		}
		target, err := p.parseTargetList()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("in"); err != nil {
			return nil, err
		}
		iter, err := p.parseOrTest()
		if err != nil {
			return nil, err
		}
		clause := CompClause{Target: target, Iter: iter}
		for p.atKeyword("if") {
			if err := p.next(); err != nil {
				return nil, err
			}
			cond, err := p.parseOrTest()
			if err != nil {
				return nil, err
			}
			clause.Ifs = append(clause.Ifs, cond)
		}
		comp.Clauses = append(comp.Clauses, clause)
	}
	return comp, nil
}

func numFromToken(tok Token) (Expr, error) {
	raw := strings.ReplaceAll(tok.Text, "_", "")
	if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
		return &Num{Raw: tok.Text, IsInt: true, Int: i, Float: float64(i), Pos: tok.Pos}, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, syntaxErrorf(tok.Pos, "invalid numeric literal %q", tok.Text)
	}
	return &Num{Raw: tok.Text, Float: f, Pos: tok.Pos}, nil
}
