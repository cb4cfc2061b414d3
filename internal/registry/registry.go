package registry

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Signatures is the read-only view rule passes consume. Lookup reports
// whether the class is known; unknown classes are not an error, they
// simply opt out of signature-driven checks.
type Signatures interface {
	Lookup(class string) (Signature, bool)
	Classes() []string
}

// Signature describes the parameters one node class accepts.
type Signature struct {
	Class       string
	Description string
	Params      []ParamSpec
}

// ParamSpec describes a single declared parameter. Default is
// cty.NilVal when the parameter has no default.
type ParamSpec struct {
	Name        string
	Type        cty.Type
	Required    bool
	Default     cty.Value
	Description string
}

// HasDefault reports whether the parameter declares a default value. A
// declared null still counts; only the NilVal no-default marker does not.
func (p ParamSpec) HasDefault() bool {
	return !p.Default.Type().Equals(cty.NilType)
}

// Required returns the names of required parameters in declaration order.
func (s Signature) Required() []string {
	var names []string
	for _, p := range s.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Param returns the spec for the named parameter.
func (s Signature) Param(name string) (ParamSpec, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// ParamNames returns all declared parameter names in declaration order.
func (s Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// Registry holds node signatures keyed by class name. It is populated
// during startup (builtins, then manifests) and read-only afterwards.
type Registry struct {
	sigs map[string]Signature
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		sigs: make(map[string]Signature),
	}
}

// Add stores a signature. A signature for an already-known class
// replaces the previous one, which is how manifests override builtins.
func (r *Registry) Add(sig Signature) {
	r.sigs[sig.Class] = sig
}

// Lookup implements Signatures.
func (r *Registry) Lookup(class string) (Signature, bool) {
	sig, ok := r.sigs[class]
	return sig, ok
}

// Classes implements Signatures. The result is sorted so callers can
// render it without caring about map order.
func (r *Registry) Classes() []string {
	out := make([]string, 0, len(r.sigs))
	for class := range r.sigs {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}
