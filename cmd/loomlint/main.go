package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/loomwork/loomlint/internal/cli"
)

// main is the entrypoint for the loomlint binary.
func main() {
	// Use a minimal logger until the app configures the full one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run executes the CLI and maps its errors to exit codes, separated from
// main for easier testing.
func run(outW, errW io.Writer, args []string) int {
	if err := cli.Run(outW, errW, args); err != nil {
		code := 2
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.Code
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errW, msg)
		}
		return code
	}
	return 0
}
