package cli

import (
	"github.com/spf13/cobra"
)

func newValidateCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.py>",
		Short: "Run every validation pass over a workflow file",
		Long: `Validate parses the workflow file, runs every pass (parameters,
connections, cycles, imports, gold standards) and prints the merged
diagnostics. The process exits 1 when any error-severity diagnostic is
reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readWorkflow(args[0])
			if err != nil {
				return err
			}
			res := r.app.Service().ValidateWorkflow(r.app.Context(), source)
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
