package ir

import (
	"sort"
	"strings"

	"github.com/loomwork/loomlint/internal/pysrc"
)

// Node is a workflow node declaration recorded from an add_node call.
type Node struct {
	ID    string
	Class string

	// Config holds the literal string-keyed entries of the config mapping.
	// ConfigDynamic is set when a config argument was present but its keys
	// could not be fully resolved (non-literal mapping, spread entries,
	// non-string keys); required-parameter checks are skipped in that case.
	Config        map[string]pysrc.Expr
	ConfigDynamic bool

	Line int
}

// HasConfig reports whether the declaration carried any config argument.
func (n Node) HasConfig() bool {
	return n.Config != nil || n.ConfigDynamic
}

// ConfigKeys returns the resolved config keys in sorted order.
func (n Node) ConfigKeys() []string {
	if len(n.Config) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Config))
	for k := range n.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DynamicName is the placeholder recorded for an endpoint or field
// argument that is neither a literal nor an identifier. Such names
// cannot be resolved statically and are exempt from endpoint checks.
const DynamicName = "<expr>"

// Connection is a recorded add_connection call. Four-argument calls carry
// all endpoint fields; the deprecated two-argument form carries node names
// only, with TwoArg set. Endpoint names are best-effort: string literals
// are resolved, bare identifiers keep their variable name, anything else
// records DynamicName.
type Connection struct {
	SourceNode   string
	SourceOutput string
	TargetNode   string
	TargetInput  string
	IsCycleEdge  bool
	TwoArg       bool
	Line         int
}

// BadConnection records an add_connection call whose positional argument
// count is neither two nor four. The call is not usable as an edge.
type BadConnection struct {
	Args int
	Line int
}

// Cycle is a cycle definition assembled from a create_cycle chain. The
// pointer fields hold literal argument values; each Has flag reports that
// the corresponding setter was called at all, so a dynamic argument still
// counts as setting a bound even when its value is unknown.
type Cycle struct {
	Name  string
	Edges []CycleEdge

	HasMaxIterations  bool
	MaxIterations     *int
	MaxIterationsLine int

	HasConvergeWhen bool
	ConvergeWhen    *string
	ConvergeLine    int

	HasTimeout        bool
	TimeoutSeconds    *float64
	TimeoutNonNumeric bool
	TimeoutLine       int

	Line int
}

// CycleEdge is one connect call on a cycle definition. MappingOK is false
// when a mapping argument was present but was not a dict literal with
// string keys and string values.
type CycleEdge struct {
	Source    string
	Target    string
	MappingOK bool
	Line      int
}

// Param is one declared node parameter from a get_parameters method.
type Param struct {
	Name       string
	Type       string
	HasType    bool
	Required   bool
	HasDefault bool
	Line       int
}

// KwargUse is one kwargs["x"] or kwargs.get("x") access inside a node
// class's run or execute method.
type KwargUse struct {
	Name string
	Line int
}

// Class is a class definition recorded for parameter checks.
type Class struct {
	Name       string
	Bases      []string
	Registered bool

	HasGetParameters bool
	ParamsLine       int
	Params           []Param

	KwargUses []KwargUse

	Line int
}

// IsNodeClass reports whether the class is recognized as a workflow node:
// it extends a base whose terminal name is Node, or it carries the
// register_node decorator.
func (c Class) IsNodeClass() bool {
	if c.Registered {
		return true
	}
	for _, b := range c.Bases {
		if b == "Node" || strings.HasSuffix(b, ".Node") {
			return true
		}
	}
	return false
}

// ParamNames returns the declared parameter names in declaration order.
func (c Class) ParamNames() []string {
	out := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		out = append(out, p.Name)
	}
	return out
}

// Import is one import statement (one record per imported module for the
// plain form, one per statement for the from form).
type Import struct {
	Module string
	Dots   int
	IsFrom bool
	Star   bool
	Names  []ImportedName
	Line   int
}

// IsRelative reports whether the import used leading dots.
func (i Import) IsRelative() bool { return i.Dots > 0 }

// Root returns the first segment of the imported module path, or the
// empty string for a purely relative import.
func (i Import) Root() string {
	if i.Module == "" {
		return ""
	}
	if idx := strings.IndexByte(i.Module, '.'); idx >= 0 {
		return i.Module[:idx]
	}
	return i.Module
}

// ImportedName is a single name bound by an import statement.
type ImportedName struct {
	Name  string
	Alias string
	Line  int
}

// Binding returns the local name the import introduces: the alias when
// present, otherwise the first path segment.
func (n ImportedName) Binding() string {
	if n.Alias != "" {
		return n.Alias
	}
	if idx := strings.IndexByte(n.Name, '.'); idx >= 0 {
		return n.Name[:idx]
	}
	return n.Name
}

// IdentUse is one identifier reference outside import statements and
// binding positions.
type IdentUse struct {
	Name string
	Line int
}

// VarKind classifies what a traced variable holds.
type VarKind int

const (
	KindUnknown VarKind = iota
	KindBuilder
	KindRuntime
	KindWorkflow
)

func (k VarKind) String() string {
	switch k {
	case KindBuilder:
		return "builder"
	case KindRuntime:
		return "runtime"
	case KindWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

// ExecCall is an execute or build call recorded for pattern checks.
type ExecCall struct {
	Receiver     string
	ReceiverKind VarKind
	Method       string
	Line         int
}

// Unit is the extracted IR of one source file.
type Unit struct {
	Nodes          []Node
	Connections    []Connection
	BadConnections []BadConnection
	CycleFlagLines []int
	Cycles         []*Cycle
	Classes        []Class
	Imports        []Import
	Uses           []IdentUse
	Bound          []string
	ExecCalls      []ExecCall
}

// IsBound reports whether the unit itself binds the given name through
// an assignment, def, class, loop target, or function parameter. Import
// bindings are tracked separately on Imports.
func (u *Unit) IsBound(name string) bool {
	i := sort.SearchStrings(u.Bound, name)
	return i < len(u.Bound) && u.Bound[i] == name
}
