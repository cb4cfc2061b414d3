package cli

import (
	"github.com/spf13/cobra"
)

func newGoldCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "gold <file.py>",
		Short: "Check a workflow file against gold-standard usage patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readWorkflow(args[0])
			if err != nil {
				return err
			}
			res := r.app.Service().ValidateGoldStandards(r.app.Context(), source)
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
