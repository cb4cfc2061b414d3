package rules

import (
	"context"
	"log/slog"

	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/graph"
	"github.com/loomwork/loomlint/internal/ir"
	"github.com/loomwork/loomlint/internal/registry"
)

// Pass is one rule family. Check must not mutate the input; every pass
// sees the same unit and graph.
type Pass interface {
	Name() string
	Check(ctx context.Context, in *Input) []diag.Diagnostic
}

// Input is the read-only material shared by every pass.
type Input struct {
	Unit  *ir.Unit
	Graph *graph.Graph
	Sigs  registry.Signatures
	Cfg   Config
}

// Config carries the tunable thresholds and word lists the passes
// consult. Zero values are not usable; start from DefaultConfig.
type Config struct {
	// MaxIterationsHighWater is the cycle iteration count above which a
	// performance warning is raised.
	MaxIterationsHighWater int

	// CommonFieldNames is the allow-list for connection output/input
	// field names; names outside it are flagged as suspicious.
	CommonFieldNames []string

	// HeavyModules are import roots whose unused import costs real
	// startup time and deserves more than an unused-name note.
	HeavyModules []string
}

// DefaultConfig returns the shipping defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterationsHighWater: 1000,
		CommonFieldNames: []string{
			"result", "data", "output", "input", "response",
			"text", "content", "value", "status",
		},
		HeavyModules: []string{
			"pandas", "numpy", "tensorflow", "torch",
			"scipy", "sklearn", "matplotlib", "cv2",
		},
	}
}

// All returns the five shipping passes in catalog order.
func All() []Pass {
	return []Pass{
		paramsPass{},
		connectionsPass{},
		cyclesPass{},
		importsPass{},
		patternsPass{},
	}
}

// Params returns the parameter pass alone, for scoped checks.
func Params() Pass { return paramsPass{} }

// Connections returns the connection pass alone, for scoped checks.
func Connections() Pass { return connectionsPass{} }

// GoldStandards returns the pattern pass alone, for scoped checks.
func GoldStandards() Pass { return patternsPass{} }

// Run executes the passes sequentially. A pass that panics contributes
// a single internal-fault diagnostic naming it and the remaining passes
// still run. Cancellation is honored between passes.
func Run(ctx context.Context, in *Input, passes []Pass) []diag.Diagnostic {
	logger := ctxlog.FromContext(ctx)

	var out []diag.Diagnostic
	for _, p := range passes {
		if ctx.Err() != nil {
			logger.Warn("validation cancelled between passes", "pending_pass", p.Name())
			break
		}
		out = append(out, runPass(ctx, logger, p, in)...)
	}
	return out
}

func runPass(ctx context.Context, logger *slog.Logger, p Pass, in *Input) (diags []diag.Diagnostic) {
	// Partial output from a pass that blew up is not trustworthy, so a
	// panic replaces it entirely with the fault diagnostic.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("validator pass panicked", "pass", p.Name(), "panic", r)
			diags = []diag.Diagnostic{
				diag.Newf(diag.CodeInternalFault, "internal fault in %s pass: %v", p.Name(), r),
			}
		}
	}()
	return p.Check(ctx, in)
}
