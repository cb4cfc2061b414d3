package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Validate performs a consistency check over the loaded signatures:
// empty names, duplicate parameters, and defaults that contradict the
// declared type or required flag.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, class := range r.Classes() {
		sig := r.sigs[class]
		if strings.TrimSpace(sig.Class) == "" {
			errs = append(errs, "signature with empty class name")
		}

		seen := make(map[string]struct{})
		for _, p := range sig.Params {
			if strings.TrimSpace(p.Name) == "" {
				errs = append(errs, fmt.Sprintf("node '%s': parameter with empty name", class))
				continue
			}
			if _, dup := seen[p.Name]; dup {
				errs = append(errs, fmt.Sprintf("node '%s': duplicate parameter '%s'", class, p.Name))
			}
			seen[p.Name] = struct{}{}

			if p.Required && p.HasDefault() {
				errs = append(errs, fmt.Sprintf("node '%s': parameter '%s' is required but declares a default", class, p.Name))
			}

			if p.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Signature declares a parameter with 'type = any', which disables static type checking. Consider using a specific type like 'string', 'number', or 'bool'.", "node", class, "parameter", p.Name)
				continue
			}

			if p.HasDefault() {
				if _, err := convert.Convert(p.Default, p.Type); err != nil {
					errs = append(errs, fmt.Sprintf("node '%s', parameter '%s': default value is not compatible with declared type '%s': %v",
						class, p.Name, p.Type.FriendlyName(), err))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
