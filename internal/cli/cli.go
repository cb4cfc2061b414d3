package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitError is a custom error type that includes a specific exit code.
// An empty Message means the command already rendered its findings and
// only the exit code is left to report.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Run executes the loomlint command named by args, writing results to
// outW and logs to errW. Every returned error is an *ExitError: code 1
// when validation found errors, code 2 for usage and infrastructure
// faults.
func Run(outW, errW io.Writer, args []string) error {
	root := newRootCommand(outW, errW)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return nil
}

// readWorkflow loads the Python source a file-oriented subcommand was
// pointed at.
func readWorkflow(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read workflow file %s: %w", path, err)
	}
	return string(data), nil
}
