package cli

import (
	"github.com/spf13/cobra"
)

func newPatternsCommand(r *root) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Print the gold-standard pattern reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPatterns(r.outW, r.app.Service().GetValidationPatterns(), r.jsonOut)
		},
	}
}
