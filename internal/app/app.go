package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/reflectcheck/internal/config"
	"github.com/vk/reflectcheck/internal/ctxlog"
)

// App encapsulates the verifier's dependencies, configuration and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	plan   *config.Plan
}

// NewApp is the constructor for the application. It loads the plan (or the
// built-in defaults) and applies configuration overrides. A plan that cannot
// be loaded is a fatal startup error and panics; the caller recovers it.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var plan *config.Plan
	if appConfig.PlanPath != "" {
		loaded, err := config.NewLoader().Load(ctx, appConfig.PlanPath)
		if err != nil {
			panic(fmt.Errorf("failed to load plan: %w", err))
		}
		plan = loaded
	} else {
		plan = config.DefaultPlan()
		logger.Debug("No plan file given, using the default plan.")
	}

	if appConfig.ScratchDir != "" {
		plan.ScratchDir = appConfig.ScratchDir
	}

	if err := plan.Validate(); err != nil {
		panic(err)
	}
	logger.Debug("Plan validated.", "collections", len(plan.Collections))

	return &App{
		outW:   outW,
		logger: logger,
		plan:   plan,
	}
}

// Plan returns the resolved plan. This is primarily for testing.
func (a *App) Plan() *config.Plan {
	return a.plan
}
