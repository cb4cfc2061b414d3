package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/loomwork/loomlint/internal/app"
)

// root carries the flag values and the wired application shared by every
// subcommand for one invocation.
type root struct {
	outW io.Writer
	errW io.Writer

	configPath    string
	registryPaths []string
	logLevel      string
	logFormat     string
	jsonOut       bool

	app *app.App
}

func newRootCommand(outW, errW io.Writer) *cobra.Command {
	r := &root{outW: outW, errW: errW}
	cmd := &cobra.Command{
		Use:   "loomlint",
		Short: "Static validator for loom workflow definitions",
		Long: `loomlint statically analyzes workflow definitions written against the
loom SDK: node parameters, connection wiring, cycle safety, imports, and
gold-standard usage patterns. It reports deterministic diagnostics with
remediation suggestions, without executing the workflow.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.initApp(cmd)
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(errW)

	cmd.PersistentFlags().StringVar(&r.configPath, "config", "", `path to the settings file (default ".loomlint.yaml")`)
	cmd.PersistentFlags().StringArrayVar(&r.registryPaths, "registry", nil, "directory of node manifests to load (repeatable)")
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "info", "log verbosity: 'debug', 'info', 'warn' or 'error'")
	cmd.PersistentFlags().StringVar(&r.logFormat, "log-format", "text", "log output format: 'text' or 'json'")
	cmd.PersistentFlags().BoolVar(&r.jsonOut, "json", false, "emit results as JSON")

	cmd.AddCommand(
		newValidateCommand(r),
		newParamsCommand(r),
		newConnectionsCommand(r),
		newGoldCommand(r),
		newPatternsCommand(r),
		newSuggestCommand(r),
		newScanCommand(r),
	)
	return cmd
}

// initApp resolves settings from file, environment and flags, then wires
// the application. Flags win over the environment, which wins over the
// settings file. Logs go to errW so stdout stays parseable.
func (r *root) initApp(cmd *cobra.Command) error {
	settings, err := app.LoadSettings(r.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		settings.Log.Level = r.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		settings.Log.Format = r.logFormat
	}

	switch settings.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	switch settings.Log.Format {
	case "text", "json":
	default:
		return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	a, err := app.New(r.errW, app.Options{
		Settings:      settings,
		RegistryPaths: r.registryPaths,
	})
	if err != nil {
		return err
	}
	r.app = a
	return nil
}
