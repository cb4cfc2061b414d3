package ir

import (
	"sort"

	"github.com/loomwork/loomlint/internal/pysrc"
)

// Extract walks a parsed module and records every recognized SDK call
// shape. It never fails; unrecognized constructs are skipped.
func Extract(m *pysrc.Module) *Unit {
	ex := &extractor{
		unit:   &Unit{},
		kinds:  make(map[string]VarKind),
		cycles: make(map[string]*Cycle),
	}
	ex.stmts(m.Body)
	ex.unit.Uses, ex.unit.Bound = collectUses(m)
	return ex.unit
}

// extractor carries the per-unit recording state. Variable bindings live
// in one flat scope: precise scoping buys nothing for the shapes the rules
// inspect, and workflows are overwhelmingly straight-line scripts.
type extractor struct {
	unit   *Unit
	kinds  map[string]VarKind
	cycles map[string]*Cycle
}

func (ex *extractor) stmts(body []pysrc.Stmt) {
	for _, s := range body {
		ex.stmt(s)
	}
}

func (ex *extractor) stmt(s pysrc.Stmt) {
	switch st := s.(type) {
	case *pysrc.ImportStmt:
		ex.plainImport(st)
	case *pysrc.FromImportStmt:
		ex.fromImport(st)
	case *pysrc.AssignStmt:
		ex.assign(st)
	case *pysrc.AugAssignStmt:
		ex.scanNested(st.Value)
	case *pysrc.ExprStmt:
		ex.evalChain(st.X)
	case *pysrc.ReturnStmt:
		if st.Value != nil {
			ex.evalChain(st.Value)
		}
	case *pysrc.RaiseStmt:
		ex.scanNested(st.Exc)
		ex.scanNested(st.Cause)
	case *pysrc.AssertStmt:
		ex.scanNested(st.Test)
		ex.scanNested(st.Msg)
	case *pysrc.ClassDef:
		ex.unit.Classes = append(ex.unit.Classes, extractClass(st))
		ex.stmts(st.Body)
	case *pysrc.FunctionDef:
		ex.stmts(st.Body)
	case *pysrc.IfStmt:
		ex.scanNested(st.Cond)
		ex.stmts(st.Body)
		ex.stmts(st.Orelse)
	case *pysrc.ForStmt:
		ex.scanNested(st.Iter)
		ex.stmts(st.Body)
		ex.stmts(st.Orelse)
	case *pysrc.WhileStmt:
		ex.scanNested(st.Cond)
		ex.stmts(st.Body)
		ex.stmts(st.Orelse)
	case *pysrc.TryStmt:
		ex.stmts(st.Body)
		for _, h := range st.Handlers {
			ex.stmts(h.Body)
		}
		ex.stmts(st.Orelse)
		ex.stmts(st.Final)
	case *pysrc.WithStmt:
		for _, item := range st.Items {
			ex.scanNested(item.Ctx)
		}
		ex.stmts(st.Body)
	}
}

// assign evaluates the right-hand side and rebinds every plain-name target
// to whatever the value was traced to.
func (ex *extractor) assign(st *pysrc.AssignStmt) {
	kind, cyc := ex.evalChain(st.Value)
	for _, t := range st.Targets {
		name, ok := t.(*pysrc.Name)
		if !ok {
			continue
		}
		delete(ex.kinds, name.ID)
		delete(ex.cycles, name.ID)
		if cyc != nil {
			ex.cycles[name.ID] = cyc
		} else if kind != KindUnknown {
			ex.kinds[name.ID] = kind
		}
	}
}

// evalChain analyzes one expression, recording any recognized SDK call
// shapes, and reports what the expression evaluates to when it can be
// traced (a builder, a runtime, a built workflow, or a cycle definition).
func (ex *extractor) evalChain(e pysrc.Expr) (VarKind, *Cycle) {
	if name, ok := e.(*pysrc.Name); ok {
		return ex.kinds[name.ID], ex.cycles[name.ID]
	}
	base, calls := unwindChain(e)
	if len(calls) == 0 {
		ex.scanNested(e)
		return KindUnknown, nil
	}

	kind := KindUnknown
	var cyc *Cycle
	receiver := ""
	if name, ok := base.(*pysrc.Name); ok {
		receiver = name.ID
		kind = ex.kinds[name.ID]
		cyc = ex.cycles[name.ID]
	} else if base != nil {
		ex.scanNested(base)
	}

	for _, mc := range calls {
		switch mc.method {
		case "add_node":
			ex.addNode(mc.call)
		case "add_connection":
			ex.addConnection(mc.call)
		case "create_cycle":
			cyc = ex.newCycle(mc.call)
			kind = KindUnknown
			receiver = ""
		case "connect":
			if cyc != nil {
				cycleConnect(cyc, mc.call)
			}
		case "max_iterations":
			if cyc != nil {
				cycleMaxIterations(cyc, mc.call)
			}
		case "converge_when":
			if cyc != nil {
				cycleConvergeWhen(cyc, mc.call)
			}
		case "timeout":
			if cyc != nil {
				cycleTimeout(cyc, mc.call)
			}
		case "build":
			if cyc == nil {
				ex.unit.ExecCalls = append(ex.unit.ExecCalls, ExecCall{
					Receiver:     receiver,
					ReceiverKind: kind,
					Method:       "build",
					Line:         pysrc.Pos(mc.call).Line,
				})
				if kind == KindBuilder {
					kind = KindWorkflow
				}
				receiver = ""
			}
		case "execute":
			ex.unit.ExecCalls = append(ex.unit.ExecCalls, ExecCall{
				Receiver:     receiver,
				ReceiverKind: kind,
				Method:       "execute",
				Line:         pysrc.Pos(mc.call).Line,
			})
			kind = KindUnknown
			receiver = ""
			cyc = nil
		case "WorkflowBuilder":
			kind = KindBuilder
			receiver = ""
			cyc = nil
		case "LocalRuntime":
			kind = KindRuntime
			receiver = ""
			cyc = nil
		default:
			// The return value of an unknown method is untracked, except
			// on cycle builders, whose setters all return the cycle.
			if cyc == nil {
				kind = KindUnknown
				receiver = ""
			}
		}
		for _, a := range mc.call.Args {
			ex.evalChain(a)
		}
		for _, kw := range mc.call.Keywords {
			ex.evalChain(kw.Value)
		}
	}
	return kind, cyc
}

// scanNested records recognized call shapes nested anywhere inside an
// expression that is not itself a traced chain.
func (ex *extractor) scanNested(e pysrc.Expr) {
	if e == nil {
		return
	}
	pysrc.Walk(e, func(n pysrc.Node) bool {
		if call, ok := n.(*pysrc.Call); ok {
			ex.evalChain(call)
			return false
		}
		return true
	})
}

// collectUses gathers identifier references for the import checks, plus
// the set of names the unit itself binds (assignment targets, def/class
// names, loop targets, function parameters). Names in binding positions
// and inside import statements do not count as uses.
func collectUses(m *pysrc.Module) ([]IdentUse, []string) {
	c := &useCollector{bound: make(map[string]struct{})}
	c.walk(m)
	names := make([]string, 0, len(c.bound))
	for name := range c.bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return c.uses, names
}

type useCollector struct {
	uses  []IdentUse
	bound map[string]struct{}
}

func (c *useCollector) bind(name string) {
	if name != "" {
		c.bound[name] = struct{}{}
	}
}

func (c *useCollector) walk(n pysrc.Node) {
	if n == nil {
		return
	}
	pysrc.Walk(n, c.visit)
}

func (c *useCollector) visit(n pysrc.Node) bool {
	switch v := n.(type) {
	case *pysrc.ImportStmt, *pysrc.FromImportStmt:
		return false
	case *pysrc.Name:
		c.uses = append(c.uses, IdentUse{Name: v.ID, Line: v.Pos.Line})
	case *pysrc.FunctionDef:
		c.bind(v.Name)
		for _, p := range v.Params {
			c.bind(p.Name)
		}
	case *pysrc.ClassDef:
		c.bind(v.Name)
	case *pysrc.TryStmt:
		for _, h := range v.Handlers {
			c.bind(h.Name)
		}
	case *pysrc.WithStmt:
		for _, item := range v.Items {
			c.bind(item.Name)
		}
	case *pysrc.AssignStmt:
		for _, t := range v.Targets {
			c.target(t)
		}
		c.walk(v.Value)
		return false
	case *pysrc.ForStmt:
		c.target(v.Target)
		c.walk(v.Iter)
		for _, s := range v.Body {
			c.walk(s)
		}
		for _, s := range v.Orelse {
			c.walk(s)
		}
		return false
	case *pysrc.Comprehension:
		c.walk(v.Elt)
		if v.Value != nil {
			c.walk(v.Value)
		}
		for _, cl := range v.Clauses {
			c.target(cl.Target)
			c.walk(cl.Iter)
			for _, f := range cl.Ifs {
				c.walk(f)
			}
		}
		return false
	}
	return true
}

// target records uses inside an assignment target without counting the
// bound names themselves. Attribute and subscript targets read their
// receivers.
func (c *useCollector) target(t pysrc.Expr) {
	if t == nil {
		return
	}
	switch v := t.(type) {
	case *pysrc.Name:
		c.bind(v.ID)
	case *pysrc.Tuple:
		for _, e := range v.Elts {
			c.target(e)
		}
	case *pysrc.List:
		for _, e := range v.Elts {
			c.target(e)
		}
	case *pysrc.Starred:
		c.target(v.X)
	case *pysrc.Attribute:
		c.walk(v.Value)
	case *pysrc.Subscript:
		c.walk(v.Value)
		c.walk(v.Index)
	default:
		c.walk(t)
	}
}
