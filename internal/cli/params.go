package cli

import (
	"github.com/spf13/cobra"
)

func newParamsCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "params <file.py>",
		Short: "Check node parameters against registered signatures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readWorkflow(args[0])
			if err != nil {
				return err
			}
			res := r.app.Service().CheckNodeParameters(r.app.Context(), source)
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
