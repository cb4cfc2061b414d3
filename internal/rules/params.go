package rules

import (
	"context"
	"fmt"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/graph"
	"github.com/loomwork/loomlint/internal/ir"
	"github.com/loomwork/loomlint/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// paramsPass checks parameter declarations: custom node classes must
// declare their parameters, run() must only read declared keywords, and
// registry-known classes must be configured with every required value.
type paramsPass struct{}

func (paramsPass) Name() string { return "parameters" }

func (paramsPass) Check(_ context.Context, in *Input) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, cls := range in.Unit.Classes {
		if !cls.IsNodeClass() {
			continue
		}
		out = append(out, checkClassParams(cls)...)
	}
	for _, node := range in.Graph.Nodes() {
		out = append(out, checkRequiredConfig(in.Sigs, node)...)
	}
	return out
}

func checkClassParams(cls ir.Class) []diag.Diagnostic {
	if !cls.HasGetParameters {
		d := diag.Newf(diag.CodeNoParameterMethod,
			"node class '%s' does not declare a get_parameters method", cls.Name)
		d.Line = cls.Line
		d.NodeType = cls.Name
		return []diag.Diagnostic{d}
	}

	var out []diag.Diagnostic
	declared := cls.ParamNames()
	declaredSet := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		declaredSet[name] = struct{}{}
	}

	// One report per undeclared keyword, at its first read. The runtime
	// silently drops undeclared parameters, so this is a correctness
	// trap rather than style.
	reported := make(map[string]struct{})
	for _, use := range cls.KwargUses {
		if _, ok := declaredSet[use.Name]; ok {
			continue
		}
		if _, dup := reported[use.Name]; dup {
			continue
		}
		reported[use.Name] = struct{}{}

		msg := fmt.Sprintf("keyword '%s' is read in %s.run() but not declared in get_parameters", use.Name, cls.Name)
		if near := graph.NearestName(use.Name, declared, 1); near != "" {
			msg += fmt.Sprintf("; did you mean '%s'?", near)
		}
		d := diag.New(diag.CodeUndeclaredParameter, msg)
		d.Line = use.Line
		d.NodeType = cls.Name
		d.Parameter = use.Name
		out = append(out, d)
	}

	for _, p := range cls.Params {
		if p.HasType {
			continue
		}
		d := diag.Newf(diag.CodeUntypedParameter,
			"parameter '%s' of node class '%s' declares no type", p.Name, cls.Name)
		d.Line = p.Line
		d.NodeType = cls.Name
		d.Parameter = p.Name
		out = append(out, d)
	}
	return out
}

func checkRequiredConfig(sigs registry.Signatures, node ir.Node) []diag.Diagnostic {
	sig, ok := sigs.Lookup(node.Class)
	if !ok {
		return nil
	}
	if node.ConfigDynamic {
		// Config keys cannot be resolved statically; absence proves nothing.
		return nil
	}

	var out []diag.Diagnostic
	for _, p := range sig.Params {
		if !p.Required {
			continue
		}
		if _, present := node.Config[p.Name]; present {
			continue
		}

		msg := fmt.Sprintf("node '%s' (%s) is missing required parameter '%s'", node.ID, node.Class, p.Name)
		if p.Type != cty.NilType && !p.Type.Equals(cty.DynamicPseudoType) {
			msg = fmt.Sprintf("node '%s' (%s) is missing required parameter '%s' (%s)",
				node.ID, node.Class, p.Name, p.Type.FriendlyName())
		}
		if near := graph.NearestName(p.Name, node.ConfigKeys(), 1); near != "" {
			msg += fmt.Sprintf("; config key '%s' looks like a typo", near)
		}
		d := diag.New(diag.CodeMissingRequiredParameter, msg)
		d.Line = node.Line
		d.NodeType = node.Class
		d.NodeID = node.ID
		d.Parameter = p.Name
		out = append(out, d)
	}
	return out
}
