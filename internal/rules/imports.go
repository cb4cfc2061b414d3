package rules

import (
	"context"
	"fmt"
	"sort"

	"github.com/loomwork/loomlint/internal/diag"
	"github.com/loomwork/loomlint/internal/ir"
)

// sdkModule is the canonical home of each public SDK symbol.
var sdkModule = map[string]string{
	"WorkflowBuilder": "loom.workflow",
	"LocalRuntime":    "loom.runtime",
	"Node":            "loom.nodes.base",
	"NodeParameter":   "loom.nodes.base",
	"register_node":   "loom.nodes.base",
}

// sdkRoot is the top-level SDK package name.
const sdkRoot = "loom"

// pythonStdlib lists the standard-library roots the ordering check
// recognizes. Not exhaustive; an unknown root is treated as third-party,
// which at worst misses a warning.
var pythonStdlib = map[string]struct{}{
	"abc": {}, "asyncio": {}, "collections": {}, "copy": {}, "csv": {},
	"dataclasses": {}, "datetime": {}, "enum": {}, "functools": {},
	"hashlib": {}, "inspect": {}, "io": {}, "itertools": {}, "json": {},
	"logging": {}, "math": {}, "os": {}, "pathlib": {}, "random": {},
	"re": {}, "string": {}, "subprocess": {}, "sys": {}, "textwrap": {},
	"threading": {}, "time": {}, "traceback": {}, "typing": {},
	"unittest": {}, "urllib": {}, "uuid": {}, "warnings": {},
}

// importsPass cross-references identifier uses against import bindings
// and checks import hygiene for the SDK namespace.
type importsPass struct{}

func (importsPass) Name() string { return "imports" }

func (importsPass) Check(_ context.Context, in *Input) []diag.Diagnostic {
	u := in.Unit
	var out []diag.Diagnostic
	out = append(out, checkMissingImports(u)...)
	out = append(out, checkUnusedImports(u, in.Cfg.HeavyModules)...)
	out = append(out, checkCanonicalPaths(u)...)
	out = append(out, checkRelativeImports(u)...)
	out = append(out, checkImportOrder(u)...)
	return out
}

// checkMissingImports flags SDK names referenced without any binding
// (IMP001): they raise NameError the moment the workflow module loads.
func checkMissingImports(u *ir.Unit) []diag.Diagnostic {
	bindings := make(map[string]struct{})
	starModules := make(map[string]struct{})
	blanketStar := false
	for _, imp := range u.Imports {
		if imp.Star {
			if imp.Root() == sdkRoot {
				starModules[imp.Module] = struct{}{}
			} else {
				// A star import of an unknown module binds unknowable
				// names; missing-import checks prove nothing after it.
				blanketStar = true
			}
			continue
		}
		for _, n := range imp.Names {
			bindings[n.Binding()] = struct{}{}
		}
	}
	if blanketStar {
		return nil
	}

	var out []diag.Diagnostic
	reported := make(map[string]struct{})
	for _, use := range u.Uses {
		canonical, sdk := sdkModule[use.Name]
		if !sdk && use.Name != sdkRoot {
			continue
		}
		if _, bound := bindings[use.Name]; bound {
			continue
		}
		if _, star := starModules[canonical]; star && sdk {
			continue
		}
		if u.IsBound(use.Name) {
			continue
		}
		if _, dup := reported[use.Name]; dup {
			continue
		}
		reported[use.Name] = struct{}{}

		msg := fmt.Sprintf("module '%s' is used but never imported", sdkRoot)
		if sdk {
			msg = fmt.Sprintf("'%s' is used but never imported; add: from %s import %s", use.Name, canonical, use.Name)
		}
		d := diag.New(diag.CodeMissingImport, msg)
		d.Line = use.Line
		out = append(out, d)
	}
	return out
}

// checkUnusedImports reports bindings nothing references: a heavy module
// whose bindings are all unused is IMP008 (real startup cost, once per
// module), any other unused binding is IMP002.
func checkUnusedImports(u *ir.Unit, heavy []string) []diag.Diagnostic {
	heavySet := make(map[string]struct{}, len(heavy))
	for _, h := range heavy {
		heavySet[h] = struct{}{}
	}
	used := make(map[string]struct{}, len(u.Uses))
	for _, use := range u.Uses {
		used[use.Name] = struct{}{}
	}

	rootHasUse := make(map[string]bool)
	for _, imp := range u.Imports {
		for _, n := range imp.Names {
			if _, ok := used[n.Binding()]; ok {
				rootHasUse[imp.Root()] = true
			}
		}
	}

	var out []diag.Diagnostic
	heavyReported := make(map[string]struct{})
	for _, imp := range u.Imports {
		root := imp.Root()
		_, isHeavy := heavySet[root]
		for _, n := range imp.Names {
			binding := n.Binding()
			if binding == "" {
				continue
			}
			if _, ok := used[binding]; ok {
				continue
			}
			if isHeavy && !rootHasUse[root] {
				if _, dup := heavyReported[root]; dup {
					continue
				}
				heavyReported[root] = struct{}{}
				d := diag.Newf(diag.CodeHeavyImport,
					"heavy module '%s' is imported but never used; it slows every workflow start", root)
				d.Line = n.Line
				out = append(out, d)
				continue
			}
			d := diag.Newf(diag.CodeUnusedImport, "imported name '%s' is never used", binding)
			d.Line = n.Line
			out = append(out, d)
		}
	}
	return out
}

// checkCanonicalPaths flags SDK symbols imported from the wrong module
// path (IMP003). Only SDK-rooted imports are judged; an unrelated
// package exporting a same-named symbol is none of our business.
func checkCanonicalPaths(u *ir.Unit) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, imp := range u.Imports {
		if !imp.IsFrom || imp.Root() != sdkRoot {
			continue
		}
		for _, n := range imp.Names {
			canonical, ok := sdkModule[n.Name]
			if !ok || imp.Module == canonical {
				continue
			}
			d := diag.Newf(diag.CodeWrongImportPath,
				"'%s' is imported from '%s'; its canonical module is '%s'", n.Name, imp.Module, canonical)
			d.Line = n.Line
			out = append(out, d)
		}
	}
	return out
}

// checkRelativeImports warns when SDK symbols arrive through relative
// imports (IMP004); the absolute form survives file moves.
func checkRelativeImports(u *ir.Unit) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, imp := range u.Imports {
		if !imp.IsRelative() {
			continue
		}
		for _, n := range imp.Names {
			canonical, ok := sdkModule[n.Name]
			if !ok {
				continue
			}
			d := diag.Newf(diag.CodeRelativeImport,
				"relative import of SDK symbol '%s'; use: from %s import %s", n.Name, canonical, n.Name)
			d.Line = n.Line
			out = append(out, d)
		}
	}
	return out
}

// checkImportOrder warns once per line where a standard-library import
// follows a third-party one (IMP006).
func checkImportOrder(u *ir.Unit) []diag.Diagnostic {
	imports := make([]ir.Import, len(u.Imports))
	copy(imports, u.Imports)
	sort.SliceStable(imports, func(i, j int) bool { return imports[i].Line < imports[j].Line })

	var out []diag.Diagnostic
	firstThirdParty := 0
	flagged := make(map[int]struct{})
	for _, imp := range imports {
		root := imp.Root()
		if _, std := pythonStdlib[root]; !std {
			// Relative and third-party imports both end the stdlib group.
			if firstThirdParty == 0 {
				firstThirdParty = imp.Line
			}
			continue
		}
		if firstThirdParty == 0 || imp.Line <= firstThirdParty {
			continue
		}
		if _, dup := flagged[imp.Line]; dup {
			continue
		}
		flagged[imp.Line] = struct{}{}
		d := diag.Newf(diag.CodeImportOrder,
			"standard-library import '%s' appears after third-party imports; group stdlib imports first", imp.Module)
		d.Line = imp.Line
		out = append(out, d)
	}
	return out
}
