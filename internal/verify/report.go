package verify

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ReportVersion is the report format version.
const ReportVersion = "1.0.0"

// Report status values.
const (
	StatusPass = "pass"
	StatusFail = "fail"
)

// Step kinds recorded in the report.
const (
	StepCompile = "compile"
	StepCopy    = "copy"
	StepCompare = "compare"
	StepScan    = "scan"
)

// Report is the machine-readable record of one verification run.
type Report struct {
	Version    string          `json:"version"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Steps      []StepRecord    `json:"steps"`
	Libraries  []LibraryRecord `json:"libraries,omitempty"`
}

// StepRecord is one step of the run. Failed runs end with their failing step;
// nothing after it executes.
type StepRecord struct {
	Kind       string `json:"kind"`
	Pass       string `json:"pass,omitempty"`
	File       string `json:"file,omitempty"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	ExitCode   int    `json:"exit_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// LibraryRecord is one shared-library dependency of the compiled executable.
type LibraryRecord struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

func newReport() *Report {
	return &Report{
		Version:   ReportVersion,
		Status:    StatusFail,
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) add(rec StepRecord) {
	r.Steps = append(r.Steps, rec)
}

func (r *Report) finish(status string) {
	r.Status = status
	r.FinishedAt = time.Now().UTC()
}

// WriteFile serializes the report as indented JSON to path.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
