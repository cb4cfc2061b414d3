package validator

import (
	"context"

	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/graph"
	"github.com/loomwork/loomlint/internal/ir"
	"github.com/loomwork/loomlint/internal/pysrc"
	"github.com/loomwork/loomlint/internal/registry"
	"github.com/loomwork/loomlint/internal/rules"
	"github.com/loomwork/loomlint/internal/suggest"
)

// Service exposes the validation operations. It holds only immutable
// collaborators and is safe for concurrent use.
type Service struct {
	sigs registry.Signatures
	cfg  rules.Config
}

// New returns a Service validating against the given signature registry
// and rule configuration.
func New(sigs registry.Signatures, cfg rules.Config) *Service {
	return &Service{sigs: sigs, cfg: cfg}
}

// ValidateWorkflow runs every rule family over one source file.
func (s *Service) ValidateWorkflow(ctx context.Context, source string) Result {
	return s.analyze(ctx, source, rules.All())
}

// CheckNodeParameters runs only the parameter checks.
func (s *Service) CheckNodeParameters(ctx context.Context, source string) Result {
	return s.analyze(ctx, source, []rules.Pass{rules.Params()})
}

// ValidateGoldStandards runs only the gold-standard pattern checks.
func (s *Service) ValidateGoldStandards(ctx context.Context, source string) Result {
	return s.analyze(ctx, source, []rules.Pass{rules.GoldStandards()})
}

// SuggestFixes maps diagnostics to remediation templates, one per
// distinct code in first-seen order.
func (s *Service) SuggestFixes(diags []diag.Diagnostic) []suggest.Suggestion {
	return suggest.SuggestFixes(diags)
}

func (s *Service) analyze(ctx context.Context, source string, passes []rules.Pass) Result {
	logger := ctxlog.FromContext(ctx)

	mod, err := pysrc.Parse(source)
	if err != nil {
		// Nothing downstream can run without a syntax tree; the parse
		// failure is the whole result.
		logger.Debug("source failed to parse", "error", err)
		return buildResult([]diag.Diagnostic{syntaxDiagnostic(err)})
	}

	unit := ir.Extract(mod)
	in := &rules.Input{Unit: unit, Graph: graph.Build(unit), Sigs: s.sigs, Cfg: s.cfg}
	diags := rules.Run(ctx, in, passes)
	logger.Debug("validation finished", "passes", len(passes), "diagnostics", len(diags))
	return buildResult(diags)
}

func syntaxDiagnostic(err error) diag.Diagnostic {
	d := diag.Newf(diag.CodeSyntaxError, "syntax error: %v", err)
	if pos, ok := pysrc.ErrorPosition(err); ok {
		d.Line = pos.Line
	}
	return d
}

// ConnectionSpec is one externally supplied edge for ValidateConnections.
type ConnectionSpec struct {
	Source string `json:"source" yaml:"source"`
	Output string `json:"output" yaml:"output"`
	Target string `json:"target" yaml:"target"`
	Input  string `json:"input" yaml:"input"`
}

// ValidateConnections checks an edge list supplied without source code.
// The node set is the union of the endpoints, so the findings are
// wiring-level only: cycles and field-name heuristics.
func (s *Service) ValidateConnections(ctx context.Context, conns []ConnectionSpec) Result {
	unit := &ir.Unit{}
	declared := make(map[string]struct{}, len(conns)*2)
	declare := func(id string) {
		if id == "" {
			return
		}
		if _, ok := declared[id]; ok {
			return
		}
		declared[id] = struct{}{}
		unit.Nodes = append(unit.Nodes, ir.Node{ID: id})
	}
	for _, c := range conns {
		declare(c.Source)
		declare(c.Target)
		unit.Connections = append(unit.Connections, ir.Connection{
			SourceNode:   c.Source,
			SourceOutput: c.Output,
			TargetNode:   c.Target,
			TargetInput:  c.Input,
		})
	}

	in := &rules.Input{Unit: unit, Graph: graph.Build(unit), Sigs: s.sigs, Cfg: s.cfg}
	diags := rules.Run(ctx, in, []rules.Pass{rules.Connections()})
	return buildResult(diags)
}
