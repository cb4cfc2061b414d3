package registry

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ParamDefinition defines a single parameter of a node class as it
// appears in a manifest file.
type ParamDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Required    bool           `hcl:"required,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// NodeDefinition represents the manifest block for one node class.
type NodeDefinition struct {
	Class       string             `hcl:"class,label"`
	Description string             `hcl:"description,optional"`
	Params      []*ParamDefinition `hcl:"param,block"`
}

// ManifestConfig represents the top-level structure of a manifest file.
type ManifestConfig struct {
	Nodes []*NodeDefinition `hcl:"node,block"`
	Body  hcl.Body          `hcl:",remain"`
}
