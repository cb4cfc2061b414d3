package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/loomwork/loomlint/internal/ctxlog"
	"github.com/loomwork/loomlint/internal/registry"
	"github.com/loomwork/loomlint/internal/validator"
)

// Options carries everything the CLI resolves before startup.
type Options struct {
	Settings Settings

	// RegistryPaths are extra manifest directories, applied after the
	// ones from the settings file. Later manifests override earlier
	// signatures class by class.
	RegistryPaths []string
}

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger  *slog.Logger
	reg     *registry.Registry
	service *validator.Service
}

// New assembles a fully initialized App, including its own isolated
// logger and registry. A failure to load or validate the registry is a
// fatal startup error.
func New(outW io.Writer, opts Options) (*App, error) {
	logger := newLogger(opts.Settings.Log.Level, opts.Settings.Log.Format, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.Builtins()
	paths := make([]string, 0, len(opts.Settings.RegistryPaths)+len(opts.RegistryPaths))
	paths = append(paths, opts.Settings.RegistryPaths...)
	paths = append(paths, opts.RegistryPaths...)
	for _, dir := range paths {
		if err := reg.LoadDir(ctx, dir); err != nil {
			return nil, fmt.Errorf("failed to load registry manifests from %s: %w", dir, err)
		}
	}
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry ready.", "classes", len(reg.Classes()))

	return &App{
		logger:  logger,
		reg:     reg,
		service: validator.New(reg, opts.Settings.RuleConfig()),
	}, nil
}

// Service returns the validation facade.
func (a *App) Service() *validator.Service { return a.service }

// Registry returns the signature registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.reg }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Context returns a background context carrying the application logger.
func (a *App) Context() context.Context {
	return ctxlog.WithLogger(context.Background(), a.logger)
}
