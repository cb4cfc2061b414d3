package cli

import (
	"github.com/spf13/cobra"
)

func newScanCommand(r *root) *cobra.Command {
	var patternType string
	cmd := &cobra.Command{
		Use:   "scan <file.py>",
		Short: "Scan a workflow file for one anti-pattern family",
		Long: `Scan locates every occurrence of a single gold-standard violation
family, named by --type. Run 'loomlint patterns' for the list of
families. The process exits 1 when the pattern is present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readWorkflow(args[0])
			if err != nil {
				return err
			}
			report, err := r.app.Service().CheckErrorPattern(r.app.Context(), source, patternType)
			if err != nil {
				return err
			}
			if err := renderPatternReport(r.outW, args[0], patternType, report, r.jsonOut); err != nil {
				return err
			}
			if report.HasPattern {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&patternType, "type", "", "pattern family to scan for (see 'loomlint patterns')")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
