package pysrc

// Position locates a token or node within source text. Lines and columns
// are 1-based.
type Position struct {
	Line int
	Col  int
}

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Module is the root of a parsed source unit.
type Module struct {
	Body []Stmt
}

// ImportItem is one dotted path in an import statement, or one imported
// name in a from-import statement.
type ImportItem struct {
	Path  string
	Alias string
	Pos   Position
}

// ImportStmt is a plain import statement: import a.b [as c][, d].
type ImportStmt struct {
	Items []ImportItem
	Pos   Position
}

// FromImportStmt is a from-import statement:
// from [.]*module import a [as b][, c] or from module import *.
type FromImportStmt struct {
	Dots   int    // leading dots, >0 for relative imports
	Module string // may be empty: from . import x
	Items  []ImportItem
	Star   bool
	Pos    Position
}

// AssignStmt is an assignment, possibly chained: a = b = value.
type AssignStmt struct {
	Targets []Expr
	Value   Expr
	Pos     Position
}

// AugAssignStmt is an augmented assignment such as x += 1.
type AugAssignStmt struct {
	Target Expr
	Op     string
	Value  Expr
	Pos    Position
}

// ExprStmt is an expression evaluated for effect, such as a bare call.
type ExprStmt struct {
	X   Expr
	Pos Position
}

// ReturnStmt is a return statement; Value is nil for a bare return.
type ReturnStmt struct {
	Value Expr
	Pos   Position
}

// PassStmt is the pass statement.
type PassStmt struct {
	Pos Position
}

// BreakStmt is the break statement.
type BreakStmt struct {
	Pos Position
}

// ContinueStmt is the continue statement.
type ContinueStmt struct {
	Pos Position
}

// RaiseStmt is a raise statement; Exc and Cause may be nil.
type RaiseStmt struct {
	Exc   Expr
	Cause Expr
	Pos   Position
}

// AssertStmt is an assert statement; Msg may be nil.
type AssertStmt struct {
	Test Expr
	Msg  Expr
	Pos  Position
}

// Param is a single formal parameter of a function definition.
type Param struct {
	Name    string
	Star    int // 0 plain, 1 *args, 2 **kwargs
	Default Expr
	Pos     Position
}

// FunctionDef is a def statement, with any decorators that preceded it.
type FunctionDef struct {
	Name       string
	Params     []Param
	Decorators []Expr
	Body       []Stmt
	Pos        Position
}

// ClassDef is a class statement, with any decorators that preceded it.
type ClassDef struct {
	Name       string
	Bases      []Expr
	Keywords   []Keyword
	Decorators []Expr
	Body       []Stmt
	Pos        Position
}

// IfStmt is an if statement. An elif chain is represented as a nested
// IfStmt in Orelse.
type IfStmt struct {
	Cond   Expr
	Body   []Stmt
	Orelse []Stmt
	Pos    Position
}

// ForStmt is a for loop with an optional else block.
type ForStmt struct {
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
	Pos    Position
}

// WhileStmt is a while loop with an optional else block.
type WhileStmt struct {
	Cond   Expr
	Body   []Stmt
	Orelse []Stmt
	Pos    Position
}

// ExceptClause is one except handler of a try statement. Type is nil for
// a bare except; Name is empty when no "as" binding is present.
type ExceptClause struct {
	Type Expr
	Name string
	Body []Stmt
	Pos  Position
}

// TryStmt is a try statement with handlers and optional else/finally.
type TryStmt struct {
	Body     []Stmt
	Handlers []ExceptClause
	Orelse   []Stmt
	Final    []Stmt
	Pos      Position
}

// WithItem is one context manager of a with statement.
type WithItem struct {
	Ctx  Expr
	Name string
}

// WithStmt is a with statement.
type WithStmt struct {
	Items []WithItem
	Body  []Stmt
	Pos   Position
}

// Name is an identifier reference.
type Name struct {
	ID  string
	Pos Position
}

// Attribute is a dotted attribute access: Value.Attr.
type Attribute struct {
	Value Expr
	Attr  string
	Pos   Position
}

// Keyword is a keyword argument in a call (or class header). An empty
// Name marks a **mapping spread.
type Keyword struct {
	Name  string
	Value Expr
	Pos   Position
}

// Call is a function or method call.
type Call struct {
	Func     Expr
	Args     []Expr
	Keywords []Keyword
	Pos      Position
}

// Subscript is an index expression: Value[Index]. Slices are folded into
// a Tuple index; nothing downstream distinguishes them.
type Subscript struct {
	Value Expr
	Index Expr
	Pos   Position
}

// Str is a string literal. Adjacent literals are concatenated during
// parsing. FString marks formatted literals, whose text is kept raw.
type Str struct {
	Value   string
	FString bool
	Pos     Position
}

// Num is a numeric literal with both integer and float readings.
type Num struct {
	Raw   string
	IsInt bool
	Int   int64
	Float float64
	Pos   Position
}

// BoolLit is True or False.
type BoolLit struct {
	Value bool
	Pos   Position
}

// NoneLit is the None literal.
type NoneLit struct {
	Pos Position
}

// DictEntry is one key/value pair of a Dict. A nil Key marks a **spread
// entry.
type DictEntry struct {
	Key   Expr
	Value Expr
}

// Dict is a mapping display.
type Dict struct {
	Entries []DictEntry
	Pos     Position
}

// List is a list display. Set displays are folded into List; nothing
// downstream distinguishes them.
type List struct {
	Elts []Expr
	Pos  Position
}

// Tuple is a tuple display or an implicit expression list.
type Tuple struct {
	Elts []Expr
	Pos  Position
}

// UnaryOp is a unary operation such as -x or not x.
type UnaryOp struct {
	Op      string
	Operand Expr
	Pos     Position
}

// BinOp is a binary operation. Comparison chains are left-folded, which
// is close enough for static shape analysis.
type BinOp struct {
	Left  Expr
	Op    string
	Right Expr
	Pos   Position
}

// IfExp is a conditional expression: Body if Cond else Orelse.
type IfExp struct {
	Body   Expr
	Cond   Expr
	Orelse Expr
	Pos    Position
}

// Starred is a *expr unpacking, in calls or assignment targets.
type Starred struct {
	X   Expr
	Pos Position
}

// CompClause is one "for target in iter [if cond]" clause of a
// comprehension.
type CompClause struct {
	Target Expr
	Iter   Expr
	Ifs    []Expr
}

// Comprehension is a list/set/dict comprehension or generator expression.
// Value is non-nil only for mapping comprehensions.
type Comprehension struct {
	Elt     Expr
	Value   Expr
	Clauses []CompClause
	Pos     Position
}

func (*Module) node()         {}
func (*ImportStmt) node()     {}
func (*FromImportStmt) node() {}
func (*AssignStmt) node()     {}
func (*AugAssignStmt) node()  {}
func (*ExprStmt) node()       {}
func (*ReturnStmt) node()     {}
func (*PassStmt) node()       {}
func (*BreakStmt) node()      {}
func (*ContinueStmt) node()   {}
func (*RaiseStmt) node()      {}
func (*AssertStmt) node()     {}
func (*FunctionDef) node()    {}
func (*ClassDef) node()       {}
func (*IfStmt) node()         {}
func (*ForStmt) node()        {}
func (*WhileStmt) node()      {}
func (*TryStmt) node()        {}
func (*WithStmt) node()       {}
func (*Name) node()           {}
func (*Attribute) node()      {}
func (*Call) node()           {}
func (*Subscript) node()      {}
func (*Str) node()            {}
func (*Num) node()            {}
func (*BoolLit) node()        {}
func (*NoneLit) node()        {}
func (*Dict) node()           {}
func (*List) node()           {}
func (*Tuple) node()          {}
func (*UnaryOp) node()        {}
func (*BinOp) node()          {}
func (*IfExp) node()          {}
func (*Starred) node()        {}
func (*Comprehension) node()  {}

func (*ImportStmt) stmtNode()     {}
func (*FromImportStmt) stmtNode() {}
func (*AssignStmt) stmtNode()     {}
func (*AugAssignStmt) stmtNode()  {}
func (*ExprStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()     {}
func (*PassStmt) stmtNode()       {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*RaiseStmt) stmtNode()      {}
func (*AssertStmt) stmtNode()     {}
func (*FunctionDef) stmtNode()    {}
func (*ClassDef) stmtNode()       {}
func (*IfStmt) stmtNode()         {}
func (*ForStmt) stmtNode()        {}
func (*WhileStmt) stmtNode()      {}
func (*TryStmt) stmtNode()        {}
func (*WithStmt) stmtNode()       {}

func (*Name) exprNode()          {}
func (*Attribute) exprNode()     {}
func (*Call) exprNode()          {}
func (*Subscript) exprNode()     {}
func (*Str) exprNode()           {}
func (*Num) exprNode()           {}
func (*BoolLit) exprNode()       {}
func (*NoneLit) exprNode()       {}
func (*Dict) exprNode()          {}
func (*List) exprNode()          {}
func (*Tuple) exprNode()         {}
func (*UnaryOp) exprNode()       {}
func (*BinOp) exprNode()         {}
func (*IfExp) exprNode()         {}
func (*Starred) exprNode()       {}
func (*Comprehension) exprNode() {}

// Pos returns the source position of any AST node. The Module root has no
// position of its own and reports line 1.
func Pos(n Node) Position {
	switch v := n.(type) {
	case *Module:
		return Position{Line: 1, Col: 1}
	case *ImportStmt:
		return v.Pos
	case *FromImportStmt:
		return v.Pos
	case *AssignStmt:
		return v.Pos
	case *AugAssignStmt:
		return v.Pos
	case *ExprStmt:
		return v.Pos
	case *ReturnStmt:
		return v.Pos
	case *PassStmt:
		return v.Pos
	case *BreakStmt:
		return v.Pos
	case *ContinueStmt:
		return v.Pos
	case *RaiseStmt:
		return v.Pos
	case *AssertStmt:
		return v.Pos
	case *FunctionDef:
		return v.Pos
	case *ClassDef:
		return v.Pos
	case *IfStmt:
		return v.Pos
	case *ForStmt:
		return v.Pos
	case *WhileStmt:
		return v.Pos
	case *TryStmt:
		return v.Pos
	case *WithStmt:
		return v.Pos
	case *Name:
		return v.Pos
	case *Attribute:
		return v.Pos
	case *Call:
		return v.Pos
	case *Subscript:
		return v.Pos
	case *Str:
		return v.Pos
	case *Num:
		return v.Pos
	case *BoolLit:
		return v.Pos
	case *NoneLit:
		return v.Pos
	case *Dict:
		return v.Pos
	case *List:
		return v.Pos
	case *Tuple:
		return v.Pos
	case *UnaryOp:
		return v.Pos
	case *BinOp:
		return v.Pos
	case *IfExp:
		return v.Pos
	case *Starred:
		return v.Pos
	case *Comprehension:
		return v.Pos
	}
	return Position{}
}
