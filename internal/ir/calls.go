package ir

import "github.com/loomwork/loomlint/internal/pysrc"

// chainCall is one method call within a flattened call chain. An empty
// method marks a call whose callee could not be named.
type chainCall struct {
	method string
	call   *pysrc.Call
}

// unwindChain flattens a method-call chain such as a.b("x").c().d() into
// its base expression and the calls applied to it, innermost first. A call
// on a bare name (Constructor()) contributes the name as its method and a
// nil base.
func unwindChain(e pysrc.Expr) (pysrc.Expr, []chainCall) {
	var calls []chainCall
	for {
		call, ok := e.(*pysrc.Call)
		if !ok {
			return e, reverseCalls(calls)
		}
		switch fn := call.Func.(type) {
		case *pysrc.Attribute:
			calls = append(calls, chainCall{method: fn.Attr, call: call})
			e = fn.Value
		case *pysrc.Name:
			calls = append(calls, chainCall{method: fn.ID, call: call})
			return nil, reverseCalls(calls)
		default:
			calls = append(calls, chainCall{call: call})
			e = call.Func
		}
	}
}

func reverseCalls(calls []chainCall) []chainCall {
	for i, j := 0, len(calls)-1; i < j; i, j = i+1, j-1 {
		calls[i], calls[j] = calls[j], calls[i]
	}
	return calls
}

// keywordArg returns the value of a named keyword argument.
func keywordArg(call *pysrc.Call, name string) (pysrc.Expr, bool) {
	for _, kw := range call.Keywords {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

func stringLit(e pysrc.Expr) (string, bool) {
	s, ok := e.(*pysrc.Str)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func intLit(e pysrc.Expr) (int, bool) {
	n, ok := e.(*pysrc.Num)
	if !ok || !n.IsInt {
		return 0, false
	}
	return int(n.Int), true
}

// numericLit resolves a numeric literal, folding a leading unary sign.
func numericLit(e pysrc.Expr) (float64, bool) {
	switch v := e.(type) {
	case *pysrc.Num:
		if v.IsInt {
			return float64(v.Int), true
		}
		return v.Float, true
	case *pysrc.UnaryOp:
		if v.Op != "-" && v.Op != "+" {
			return 0, false
		}
		f, ok := numericLit(v.Operand)
		if !ok {
			return 0, false
		}
		if v.Op == "-" {
			return -f, true
		}
		return f, true
	}
	return 0, false
}

func boolLit(e pysrc.Expr) (bool, bool) {
	b, ok := e.(*pysrc.BoolLit)
	if !ok {
		return false, false
	}
	return b.Value, true
}

// isLiteral reports whether the expression is a literal display, numeric,
// string, boolean or None.
func isLiteral(e pysrc.Expr) bool {
	switch e.(type) {
	case *pysrc.Str, *pysrc.Num, *pysrc.BoolLit, *pysrc.NoneLit,
		*pysrc.Dict, *pysrc.List, *pysrc.Tuple:
		return true
	}
	return false
}

// dottedName renders a bare name or dotted attribute chain. ok is false
// for any other expression shape.
func dottedName(e pysrc.Expr) (string, bool) {
	switch v := e.(type) {
	case *pysrc.Name:
		return v.ID, true
	case *pysrc.Attribute:
		base, ok := dottedName(v.Value)
		if !ok {
			return "", false
		}
		return base + "." + v.Attr, true
	}
	return "", false
}

// terminalName returns the last identifier of a name, attribute chain or
// call target.
func terminalName(e pysrc.Expr) string {
	switch v := e.(type) {
	case *pysrc.Name:
		return v.ID
	case *pysrc.Attribute:
		return v.Attr
	case *pysrc.Call:
		return terminalName(v.Func)
	}
	return ""
}

// exprText renders a best-effort endpoint name: string literals resolve to
// their value, identifiers keep their source name.
func exprText(e pysrc.Expr) string {
	switch v := e.(type) {
	case *pysrc.Str:
		return v.Value
	case *pysrc.Name:
		return v.ID
	case *pysrc.Attribute:
		if s, ok := dottedName(v); ok {
			return s
		}
	case *pysrc.Num:
		return v.Raw
	case *pysrc.BoolLit:
		if v.Value {
			return "True"
		}
		return "False"
	}
	return DynamicName
}

// isStringStringDict reports whether the expression is a dict literal with
// string-literal keys and string-literal values throughout.
func isStringStringDict(e pysrc.Expr) bool {
	d, ok := e.(*pysrc.Dict)
	if !ok {
		return false
	}
	for _, ent := range d.Entries {
		if ent.Key == nil {
			return false
		}
		if _, ok := ent.Key.(*pysrc.Str); !ok {
			return false
		}
		if _, ok := ent.Value.(*pysrc.Str); !ok {
			return false
		}
	}
	return true
}

// addNode records an add_node call. Both the class and the node id must be
// string literals; anything else is not a declaration this tool can trace.
func (ex *extractor) addNode(call *pysrc.Call) {
	if len(call.Args) < 2 {
		return
	}
	class, okClass := stringLit(call.Args[0])
	id, okID := stringLit(call.Args[1])
	if !okClass || !okID {
		return
	}
	n := Node{Class: class, ID: id, Line: pysrc.Pos(call).Line}

	cfg, _ := keywordArg(call, "config")
	if cfg == nil && len(call.Args) >= 3 {
		cfg = call.Args[2]
	}
	if cfg != nil {
		d, ok := cfg.(*pysrc.Dict)
		if !ok {
			n.ConfigDynamic = true
		} else {
			n.Config = make(map[string]pysrc.Expr, len(d.Entries))
			for _, ent := range d.Entries {
				if ent.Key == nil {
					n.ConfigDynamic = true
					continue
				}
				k, ok := stringLit(ent.Key)
				if !ok {
					n.ConfigDynamic = true
					continue
				}
				n.Config[k] = ent.Value
			}
		}
	}
	ex.unit.Nodes = append(ex.unit.Nodes, n)
}

// addConnection records an add_connection call: four positional arguments
// form a full edge, two form the deprecated short edge, anything else is a
// bad call. A literal cycle=True keyword tags the edge and is remembered
// for the legacy-flag check.
func (ex *extractor) addConnection(call *pysrc.Call) {
	for _, a := range call.Args {
		if _, ok := a.(*pysrc.Starred); ok {
			return
		}
	}
	line := pysrc.Pos(call).Line
	cycleEdge := false
	if v, ok := keywordArg(call, "cycle"); ok {
		if b, ok := boolLit(v); ok && b {
			cycleEdge = true
			ex.unit.CycleFlagLines = append(ex.unit.CycleFlagLines, line)
		}
	}
	switch len(call.Args) {
	case 4:
		ex.unit.Connections = append(ex.unit.Connections, Connection{
			SourceNode:   exprText(call.Args[0]),
			SourceOutput: exprText(call.Args[1]),
			TargetNode:   exprText(call.Args[2]),
			TargetInput:  exprText(call.Args[3]),
			IsCycleEdge:  cycleEdge,
			Line:         line,
		})
	case 2:
		ex.unit.Connections = append(ex.unit.Connections, Connection{
			SourceNode:  exprText(call.Args[0]),
			TargetNode:  exprText(call.Args[1]),
			IsCycleEdge: cycleEdge,
			TwoArg:      true,
			Line:        line,
		})
	default:
		ex.unit.BadConnections = append(ex.unit.BadConnections, BadConnection{
			Args: len(call.Args),
			Line: line,
		})
	}
}

// newCycle starts a cycle record from a create_cycle call.
func (ex *extractor) newCycle(call *pysrc.Call) *Cycle {
	c := &Cycle{Line: pysrc.Pos(call).Line}
	if len(call.Args) >= 1 {
		if name, ok := stringLit(call.Args[0]); ok {
			c.Name = name
		}
	}
	ex.unit.Cycles = append(ex.unit.Cycles, c)
	return c
}

func cycleConnect(c *Cycle, call *pysrc.Call) {
	if len(call.Args) < 2 {
		return
	}
	edge := CycleEdge{
		Source:    exprText(call.Args[0]),
		Target:    exprText(call.Args[1]),
		MappingOK: true,
		Line:      pysrc.Pos(call).Line,
	}
	mapping, _ := keywordArg(call, "mapping")
	if mapping == nil && len(call.Args) >= 3 {
		mapping = call.Args[2]
	}
	if mapping != nil {
		edge.MappingOK = isStringStringDict(mapping)
	}
	c.Edges = append(c.Edges, edge)
}

func cycleMaxIterations(c *Cycle, call *pysrc.Call) {
	if len(call.Args) < 1 {
		return
	}
	c.HasMaxIterations = true
	c.MaxIterationsLine = pysrc.Pos(call).Line
	if v, ok := intLit(call.Args[0]); ok {
		c.MaxIterations = &v
	}
}

func cycleConvergeWhen(c *Cycle, call *pysrc.Call) {
	if len(call.Args) < 1 {
		return
	}
	c.HasConvergeWhen = true
	c.ConvergeLine = pysrc.Pos(call).Line
	if s, ok := stringLit(call.Args[0]); ok {
		c.ConvergeWhen = &s
	}
}

func cycleTimeout(c *Cycle, call *pysrc.Call) {
	if len(call.Args) < 1 {
		return
	}
	c.HasTimeout = true
	c.TimeoutLine = pysrc.Pos(call).Line
	if f, ok := numericLit(call.Args[0]); ok {
		c.TimeoutSeconds = &f
		return
	}
	if isLiteral(call.Args[0]) {
		c.TimeoutNonNumeric = true
	}
}
