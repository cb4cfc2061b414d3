package ir

import "github.com/loomwork/loomlint/internal/pysrc"

// extractClass records a class definition: its bases, whether it carries
// the register_node decorator, the parameters its get_parameters method
// declares, and every kwargs access inside run or execute.
func extractClass(cd *pysrc.ClassDef) Class {
	c := Class{Name: cd.Name, Line: cd.Pos.Line}
	for _, b := range cd.Bases {
		if s, ok := dottedName(b); ok {
			c.Bases = append(c.Bases, s)
		}
	}
	for _, d := range cd.Decorators {
		if terminalName(d) == "register_node" {
			c.Registered = true
		}
	}
	for _, s := range cd.Body {
		fd, ok := s.(*pysrc.FunctionDef)
		if !ok {
			continue
		}
		switch fd.Name {
		case "get_parameters":
			c.HasGetParameters = true
			c.ParamsLine = fd.Pos.Line
			for _, ret := range methodReturns(fd) {
				c.Params = append(c.Params, paramsFromReturn(ret)...)
			}
		case "run", "execute":
			c.KwargUses = append(c.KwargUses, kwargUses(fd)...)
		}
	}
	return c
}

// methodReturns collects every return value inside a method body, looking
// through control flow but not into nested definitions.
func methodReturns(fd *pysrc.FunctionDef) []pysrc.Expr {
	var rets []pysrc.Expr
	for _, s := range fd.Body {
		collectReturns(s, &rets)
	}
	return rets
}

func collectReturns(s pysrc.Stmt, out *[]pysrc.Expr) {
	switch st := s.(type) {
	case *pysrc.ReturnStmt:
		if st.Value != nil {
			*out = append(*out, st.Value)
		}
	case *pysrc.IfStmt:
		collectReturnsAll(st.Body, out)
		collectReturnsAll(st.Orelse, out)
	case *pysrc.ForStmt:
		collectReturnsAll(st.Body, out)
		collectReturnsAll(st.Orelse, out)
	case *pysrc.WhileStmt:
		collectReturnsAll(st.Body, out)
		collectReturnsAll(st.Orelse, out)
	case *pysrc.TryStmt:
		collectReturnsAll(st.Body, out)
		for _, h := range st.Handlers {
			collectReturnsAll(h.Body, out)
		}
		collectReturnsAll(st.Orelse, out)
		collectReturnsAll(st.Final, out)
	case *pysrc.WithStmt:
		collectReturnsAll(st.Body, out)
	}
}

func collectReturnsAll(body []pysrc.Stmt, out *[]pysrc.Expr) {
	for _, s := range body {
		collectReturns(s, out)
	}
}

// paramsFromReturn reads parameter declarations out of a returned list,
// tuple or dict. In the dict form the key names the parameter; a value
// that is not a NodeParameter call still declares the name.
func paramsFromReturn(v pysrc.Expr) []Param {
	var out []Param
	switch val := v.(type) {
	case *pysrc.List:
		for _, elt := range val.Elts {
			if p, ok := paramFromCall(elt, ""); ok {
				out = append(out, p)
			}
		}
	case *pysrc.Tuple:
		for _, elt := range val.Elts {
			if p, ok := paramFromCall(elt, ""); ok {
				out = append(out, p)
			}
		}
	case *pysrc.Dict:
		for _, ent := range val.Entries {
			if ent.Key == nil {
				continue
			}
			key, ok := stringLit(ent.Key)
			if !ok {
				continue
			}
			if p, ok := paramFromCall(ent.Value, key); ok {
				out = append(out, p)
			} else {
				out = append(out, Param{Name: key, Line: pysrc.Pos(ent.Value).Line})
			}
		}
	}
	return out
}

// paramFromCall reads one NodeParameter(...) call. The name comes from the
// override (dict key), the name= keyword, or the first positional string.
func paramFromCall(e pysrc.Expr, nameOverride string) (Param, bool) {
	call, ok := e.(*pysrc.Call)
	if !ok || terminalName(call.Func) != "NodeParameter" {
		return Param{}, false
	}
	p := Param{Name: nameOverride, Line: pysrc.Pos(call).Line}
	if p.Name == "" && len(call.Args) >= 1 {
		if s, ok := stringLit(call.Args[0]); ok {
			p.Name = s
		}
	}
	if len(call.Args) >= 2 {
		p.HasType = true
		p.Type = typeText(call.Args[1])
	}
	for _, kw := range call.Keywords {
		switch kw.Name {
		case "name":
			if p.Name == "" {
				if s, ok := stringLit(kw.Value); ok {
					p.Name = s
				}
			}
		case "type":
			p.HasType = true
			p.Type = typeText(kw.Value)
		case "required":
			if b, ok := boolLit(kw.Value); ok {
				p.Required = b
			}
		case "default":
			p.HasDefault = true
		}
	}
	if p.Name == "" {
		return Param{}, false
	}
	return p, true
}

// typeText renders a declared parameter type: either a string literal
// ("string") or a bare type name (str).
func typeText(e pysrc.Expr) string {
	if s, ok := stringLit(e); ok {
		return s
	}
	if s, ok := dottedName(e); ok {
		return s
	}
	return ""
}

// kwargUses collects kwargs["x"] subscripts and kwargs.get("x") calls
// inside a method, keyed off the method's actual **parameter name.
func kwargUses(fd *pysrc.FunctionDef) []KwargUse {
	kw := ""
	for _, p := range fd.Params {
		if p.Star == 2 {
			kw = p.Name
		}
	}
	if kw == "" {
		return nil
	}
	var uses []KwargUse
	for _, s := range fd.Body {
		pysrc.Walk(s, func(n pysrc.Node) bool {
			switch v := n.(type) {
			case *pysrc.Subscript:
				name, ok := v.Value.(*pysrc.Name)
				if !ok || name.ID != kw {
					return true
				}
				if key, ok := stringLit(v.Index); ok {
					uses = append(uses, KwargUse{Name: key, Line: v.Pos.Line})
				}
			case *pysrc.Call:
				attr, ok := v.Func.(*pysrc.Attribute)
				if !ok || attr.Attr != "get" {
					return true
				}
				name, ok := attr.Value.(*pysrc.Name)
				if !ok || name.ID != kw || len(v.Args) == 0 {
					return true
				}
				if key, ok := stringLit(v.Args[0]); ok {
					uses = append(uses, KwargUse{Name: key, Line: pysrc.Pos(v).Line})
				}
			}
			return true
		})
	}
	return uses
}
