package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/loomwork/loomlint/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// LoadDir recursively loads node signature manifests (*.hcl) from the
// given directory. Loaded signatures override any already in the
// registry, so builtins go in first.
func (r *Registry) LoadDir(ctx context.Context, manifestPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading signatures from manifest path...", "path", manifestPath)

	filePaths, err := fsutil.FindByExtension(manifestPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk manifest directory", "path", manifestPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", manifestPath)
		return nil
	}

	parser := hclparse.NewParser()

	loaded := 0
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var manifest ManifestConfig
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return fmt.Errorf("failed to decode manifest %s: %w", filePath, diags)
		}

		for _, def := range manifest.Nodes {
			sig, err := signatureFromDefinition(ctx, def)
			if err != nil {
				return fmt.Errorf("failed to process node definition in %s: %w", filePath, err)
			}
			r.Add(sig)
			loaded++
		}
		logger.Debug("Successfully loaded signatures from HCL file", "file", filePath)
	}

	logger.Info("Registry loaded successfully.", "node_signatures_loaded", loaded)
	return nil
}

// signatureFromDefinition converts a decoded manifest block into a
// Signature, translating HCL type expressions along the way.
func signatureFromDefinition(ctx context.Context, def *NodeDefinition) (Signature, error) {
	sig := Signature{
		Class:       def.Class,
		Description: def.Description,
	}
	for _, pd := range def.Params {
		paramType, err := typeExprToCtyType(ctx, pd.Type)
		if err != nil {
			return Signature{}, fmt.Errorf("node %q parameter %q: %w", def.Class, pd.Name, err)
		}
		spec := ParamSpec{
			Name:        pd.Name,
			Type:        paramType,
			Required:    pd.Required,
			Default:     cty.NilVal,
			Description: pd.Description,
		}
		if pd.Default != nil {
			spec.Default = *pd.Default
		}
		sig.Params = append(sig.Params, spec)
	}
	return sig, nil
}
