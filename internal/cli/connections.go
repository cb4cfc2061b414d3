package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loomwork/loomlint/internal/validator"
)

func newConnectionsCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "connections <file.yaml>",
		Short: "Validate a connection list given as YAML",
		Long: `Connections checks a wiring plan without any workflow source. The file
holds a YAML list of {source, output, target, input} entries; the node
set is the union of the endpoints, so only acyclicity and field-name
heuristics apply.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := readConnections(args[0])
			if err != nil {
				return err
			}
			res := r.app.Service().ValidateConnections(r.app.Context(), specs)
			if err := renderResult(r.outW, args[0], res, r.jsonOut); err != nil {
				return err
			}
			if res.HasErrors {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

func readConnections(path string) ([]validator.ConnectionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read connections file %s: %w", path, err)
	}
	var specs []validator.ConnectionSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse connections file %s: %w", path, err)
	}
	return specs, nil
}
