package app

// Config holds all the configuration an App instance needs to run.
type Config struct {
	// PlanPath is the optional HCL plan file. Empty means the built-in
	// default plan.
	PlanPath string

	// Mode is the raw positional mode argument. The literal "quick" skips
	// the bootstrap pass; every other value, including empty, runs the full
	// procedure. The check is a plain equality test, kept permissive on
	// purpose.
	Mode string

	// ScratchDir overrides the plan's scratch directory when non-empty.
	ScratchDir string

	// ReportPath, when non-empty, is where the JSON run report is written.
	ReportPath string

	// ScanLibs enables the shared-library scan of the compiled executable.
	ScanLibs bool

	LogFormat string
	LogLevel  string
}

// ModeQuick is the sentinel value that skips the bootstrap pass.
const ModeQuick = "quick"

// Quick reports whether the bootstrap pass should be skipped.
func (c *Config) Quick() bool {
	return c.Mode == ModeQuick
}
