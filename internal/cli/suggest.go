package cli

import (
	"github.com/spf13/cobra"
)

func newSuggestCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <file.py>",
		Short: "Print remediation suggestions for a workflow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readWorkflow(args[0])
			if err != nil {
				return err
			}
			res := r.app.Service().ValidateWorkflow(r.app.Context(), source)
			if err := renderSuggestions(r.outW, res.Suggestions, r.jsonOut); err != nil {
				return err
			}
			if res.HasErrors {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}
