package pysrc

// Walk traverses the AST rooted at node in depth-first source order,
// calling fn for each node. When fn returns false the node's children are
// skipped.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Module:
		walkStmts(n.Body, fn)
	case *AssignStmt:
		walkExprs(n.Targets, fn)
		walkExpr(n.Value, fn)
	case *AugAssignStmt:
		walkExpr(n.Target, fn)
		walkExpr(n.Value, fn)
	case *ExprStmt:
		walkExpr(n.X, fn)
	case *ReturnStmt:
		walkExpr(n.Value, fn)
	case *RaiseStmt:
		walkExpr(n.Exc, fn)
		walkExpr(n.Cause, fn)
	case *AssertStmt:
		walkExpr(n.Test, fn)
		walkExpr(n.Msg, fn)
	case *FunctionDef:
		walkExprs(n.Decorators, fn)
		for _, param := range n.Params {
			walkExpr(param.Default, fn)
		}
		walkStmts(n.Body, fn)
	case *ClassDef:
		walkExprs(n.Decorators, fn)
		walkExprs(n.Bases, fn)
		for _, kw := range n.Keywords {
			walkExpr(kw.Value, fn)
		}
		walkStmts(n.Body, fn)
	case *IfStmt:
		walkExpr(n.Cond, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *ForStmt:
		walkExpr(n.Target, fn)
		walkExpr(n.Iter, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *WhileStmt:
		walkExpr(n.Cond, fn)
		walkStmts(n.Body, fn)
		walkStmts(n.Orelse, fn)
	case *TryStmt:
		walkStmts(n.Body, fn)
		for _, h := range n.Handlers {
			walkExpr(h.Type, fn)
			walkStmts(h.Body, fn)
		}
		walkStmts(n.Orelse, fn)
		walkStmts(n.Final, fn)
	case *WithStmt:
		for _, item := range n.Items {
			walkExpr(item.Ctx, fn)
		}
		walkStmts(n.Body, fn)
	case *Attribute:
		walkExpr(n.Value, fn)
	case *Call:
		walkExpr(n.Func, fn)
		walkExprs(n.Args, fn)
		for _, kw := range n.Keywords {
			walkExpr(kw.Value, fn)
		}
	case *Subscript:
		walkExpr(n.Value, fn)
		walkExpr(n.Index, fn)
	case *Dict:
		for _, entry := range n.Entries {
			walkExpr(entry.Key, fn)
			walkExpr(entry.Value, fn)
		}
	case *List:
		walkExprs(n.Elts, fn)
	case *Tuple:
		walkExprs(n.Elts, fn)
	case *UnaryOp:
		walkExpr(n.Operand, fn)
	case *BinOp:
		walkExpr(n.Left, fn)
		walkExpr(n.Right, fn)
	case *IfExp:
		walkExpr(n.Body, fn)
		walkExpr(n.Cond, fn)
		walkExpr(n.Orelse, fn)
	case *Starred:
		walkExpr(n.X, fn)
	case *Comprehension:
		walkExpr(n.Elt, fn)
		walkExpr(n.Value, fn)
		for _, clause := range n.Clauses {
			walkExpr(clause.Target, fn)
			walkExpr(clause.Iter, fn)
			walkExprs(clause.Ifs, fn)
		}
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, fn)
	}
}

func walkExpr(expr Expr, fn func(Node) bool) {
	if expr == nil {
		return
	}
	Walk(expr, fn)
}
