// Package app orchestrates one resolver invocation: load the template
// catalog, load the workload, load the bundle, resolve, and write the plan.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/halcyard/stackplan/internal/bundle"
	"github.com/halcyard/stackplan/internal/ctxlog"
	"github.com/halcyard/stackplan/internal/model"
	"github.com/halcyard/stackplan/internal/registry"
	"github.com/halcyard/stackplan/internal/resolve"
)

// App wires the resolver's stages together for one invocation.
type App struct {
	out    io.Writer
	logOut io.Writer
	config *Config

	// Result holds the resolution outcome after a successful Run, exposed
	// for tests and embedding callers.
	Result *resolve.Result
}

// NewApp creates an App writing the plan to out and logs to logOut.
func NewApp(out, logOut io.Writer, config *Config) *App {
	return &App{
		out:    out,
		logOut: logOut,
		config: config,
	}
}

// Run executes the full pipeline. Any configuration error aborts before a
// plan is written.
func (a *App) Run(ctx context.Context) error {
	logger := NewLogger(a.logOut, a.config.LogFormat, a.config.LogLevel)
	ctx = ctxlog.WithLogger(ctx, logger)

	reg := registry.New()
	if err := reg.LoadTemplatesRecursively(ctx, a.config.TemplatesPath); err != nil {
		return fmt.Errorf("failed to load template catalog: %w", err)
	}
	if err := reg.ValidateRegistry(ctx); err != nil {
		return err
	}

	workload, err := model.LoadWorkload(ctx, a.config.WorkloadPath)
	if err != nil {
		return fmt.Errorf("failed to load workload: %w", err)
	}

	values := bundle.Empty()
	if a.config.BundlePath != "" {
		values, err = bundle.Load(a.config.BundlePath)
		if err != nil {
			return err
		}
		logger.Info("Parameter bundle loaded.", "context", values.Context, "values", len(values.Values))
	}

	result, err := resolve.Resolve(ctx, workload, reg, values)
	if err != nil {
		return err
	}
	a.Result = result

	out := a.out
	if a.config.OutputPath != "" {
		f, err := os.Create(a.config.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create plan output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := result.Plan.Encode(out); err != nil {
		return err
	}

	logger.Info("Realization plan written.",
		"modules", len(result.Plan.Modules),
		"excluded", len(result.Plan.Excluded),
		"fingerprint", result.Plan.Fingerprint,
	)
	return nil
}
