package diag

import "sort"

// Diagnostic codes, grouped by the validator family that emits them. The
// string values are the stable wire contract; the constant names describe
// the finding.
const (
	// Syntax.
	CodeSyntaxError = "SYN001"

	// Parameters.
	CodeNoParameterMethod        = "PAR001"
	CodeUndeclaredParameter      = "PAR002"
	CodeUntypedParameter         = "PAR003"
	CodeMissingRequiredParameter = "PAR004"

	// Connections.
	CodeBadConnectionArity   = "CON001"
	CodeDeprecatedConnection = "CON002"
	CodeUnknownSourceNode    = "CON003"
	CodeUnknownTargetNode    = "CON004"
	CodeCircularDependency   = "CON005"
	CodeSuspiciousOutput     = "CON006"
	CodeSuspiciousInput      = "CON007"

	// Cycles.
	CodeLegacyCycleFlag    = "CYC001"
	CodeUnboundedCycle     = "CYC002"
	CodeBadConvergence     = "CYC003"
	CodeEmptyCycle         = "CYC004"
	CodeBadCycleMapping    = "CYC005"
	CodeHighIterationLimit = "CYC006"
	CodeBadCycleTimeout    = "CYC007"
	CodeUnknownCycleNode   = "CYC008"

	// Imports.
	CodeMissingImport   = "IMP001"
	CodeUnusedImport    = "IMP002"
	CodeWrongImportPath = "IMP003"
	CodeRelativeImport  = "IMP004"
	CodeImportOrder     = "IMP006"
	CodeHeavyImport     = "IMP008"

	// Patterns.
	CodeInvertedExecution = "GOLD002"

	// Internal.
	CodeInternalFault = "VAL001"
)

// severities is the catalog of default severities per code. Codes absent
// from the catalog default to error, the safe direction for an unknown
// finding.
var severities = map[string]Severity{
	CodeSyntaxError: SeverityError,

	CodeNoParameterMethod:        SeverityError,
	CodeUndeclaredParameter:      SeverityError,
	CodeUntypedParameter:         SeverityError,
	CodeMissingRequiredParameter: SeverityError,

	CodeBadConnectionArity:   SeverityError,
	CodeDeprecatedConnection: SeverityError,
	CodeUnknownSourceNode:    SeverityError,
	CodeUnknownTargetNode:    SeverityError,
	CodeCircularDependency:   SeverityError,
	CodeSuspiciousOutput:     SeverityWarning,
	CodeSuspiciousInput:      SeverityWarning,

	CodeLegacyCycleFlag:    SeverityError,
	CodeUnboundedCycle:     SeverityError,
	CodeBadConvergence:     SeverityError,
	CodeEmptyCycle:         SeverityError,
	CodeBadCycleMapping:    SeverityError,
	CodeHighIterationLimit: SeverityWarning,
	CodeBadCycleTimeout:    SeverityError,
	CodeUnknownCycleNode:   SeverityError,

	CodeMissingImport:   SeverityError,
	CodeUnusedImport:    SeverityInfo,
	CodeWrongImportPath: SeverityError,
	CodeRelativeImport:  SeverityWarning,
	CodeImportOrder:     SeverityWarning,
	CodeHeavyImport:     SeverityWarning,

	CodeInvertedExecution: SeverityError,

	CodeInternalFault: SeverityError,
}

// SeverityFor returns the cataloged severity for a diagnostic code.
func SeverityFor(code string) Severity {
	if sev, ok := severities[code]; ok {
		return sev
	}
	return SeverityError
}

// Codes returns every cataloged diagnostic code in lexical order.
func Codes() []string {
	out := make([]string, 0, len(severities))
	for code := range severities {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
