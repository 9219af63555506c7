package verify

import "fmt"

// Pass names used in errors and report records.
const (
	PassBootstrap = "bootstrap"
	PassReflected = "reflected"
)

// StepError is the explicit failure value of a single verification step. It
// carries the exit code the run should terminate with, so the CLI can
// propagate the failing sub-invocation's status.
type StepError struct {
	Pass     string
	File     string
	ExitCode int
	Err      error
}

// Error implements the error interface for StepError.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s pass: %s: %v", e.Pass, e.File, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
