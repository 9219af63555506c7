package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/reflectcheck/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("reflectcheck", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
reflectcheck - two-pass bootstrap self-test for a self-hosting compiler.

Usage:
  reflectcheck [options] [MODE]

Arguments:
  MODE
    Optional. The literal value "quick" skips the bootstrap pass and only
    re-verifies against the existing output tree. Any other value runs the
    full two-pass procedure.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to an HCL plan file. Empty uses the built-in layout.")
	scratchFlag := flagSet.String("scratch-dir", "", "Override the plan's scratch directory.")
	reportFlag := flagSet.String("report", "", "Write a JSON run report to this path.")
	scanLibsFlag := flagSet.Bool("scan-libs", false, "Record the compiled executable's shared-library dependencies.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	// The mode argument is compared against the quick sentinel only; any
	// unrecognized value runs the full procedure rather than erroring out.
	mode := ""
	if flagSet.NArg() > 0 {
		mode = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config := &app.Config{
		PlanPath:   *planFlag,
		Mode:       mode,
		ScratchDir: *scratchFlag,
		ReportPath: *reportFlag,
		ScanLibs:   *scanLibsFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	}

	slog.Debug("CLI parser finished successfully.", "mode", mode)
	return config, false, nil
}
