package suggest

import (
	"fmt"

	"github.com/loomwork/loomlint/internal/diag"
)

// Suggestion is the remediation record for one diagnostic code.
type Suggestion struct {
	ErrorCode   string `json:"error_code"`
	Description string `json:"description"`
	Fix         string `json:"fix"`
	CodeExample string `json:"code_example"`
	Explanation string `json:"explanation"`
}

// For returns the suggestion template for a code. ok is false when the
// code is not cataloged.
func For(code string) (Suggestion, bool) {
	t, ok := templates[code]
	if !ok {
		return Suggestion{}, false
	}
	return Suggestion{
		ErrorCode:   code,
		Description: t.description,
		Fix:         t.fix,
		CodeExample: t.codeExample,
		Explanation: t.explanation,
	}, true
}

// SuggestFixes returns one suggestion per distinct diagnostic code, in
// the order the codes first appear. A code outside the catalog still
// yields a generic entry so every finding maps to some remediation.
func SuggestFixes(diags []diag.Diagnostic) []Suggestion {
	var out []Suggestion
	seen := make(map[string]struct{}, len(diags))
	for _, d := range diags {
		if _, dup := seen[d.Code]; dup {
			continue
		}
		seen[d.Code] = struct{}{}
		s, ok := For(d.Code)
		if !ok {
			s = Suggestion{
				ErrorCode:   d.Code,
				Description: "An uncataloged finding was reported.",
				Fix:         fmt.Sprintf("Review the message reported for %s and adjust the workflow source accordingly.", d.Code),
				Explanation: "The diagnostic carries its details in the message field.",
			}
		}
		out = append(out, s)
	}
	return out
}
