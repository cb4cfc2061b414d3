// Package registry stores node signatures: the mapping between a node
// class name (e.g. "LLMAgent") and the parameters instances of that
// class accept.
//
// The registry is populated from two sources. A compiled-in table
// covers the SDK's builtin node classes, and HCL manifest files can
// extend or override it with project-specific classes. After loading,
// the registry is validated for internal consistency and then treated
// as read-only; rule passes consult it through the Signatures
// interface.
package registry
