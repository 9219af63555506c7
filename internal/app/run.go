package app

import (
	"context"
	"fmt"

	"github.com/vk/reflectcheck/internal/ctxlog"
	"github.com/vk/reflectcheck/internal/verify"
)

// Run executes the verification procedure with the resolved plan. The report
// is written even when the run fails, so CI can inspect the failing step.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "quick", appConfig.Quick())

	verifier := verify.New(a.plan, appConfig.ScanLibs)
	report, runErr := verifier.Run(ctx, appConfig.Quick())

	if appConfig.ReportPath != "" {
		if err := report.WriteFile(appConfig.ReportPath); err != nil {
			if runErr != nil {
				a.logger.Error("Failed to write run report.", "error", err)
				return runErr
			}
			return fmt.Errorf("run succeeded but report could not be written: %w", err)
		}
		a.logger.Info("Run report written.", "path", appConfig.ReportPath)
	}

	if runErr != nil {
		return fmt.Errorf("verification failed: %w", runErr)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
