package verify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/reflectcheck/internal/config"
	"github.com/vk/reflectcheck/internal/ctxlog"
	"github.com/vk/reflectcheck/internal/invoke"
	"github.com/vk/reflectcheck/internal/sharedlib"
)

// Verifier drives the two-pass self-test described by a plan.
type Verifier struct {
	plan    *config.Plan
	inv     invoke.Invoker
	scanner *sharedlib.Scanner

	report *Report
}

// New creates a Verifier for the given plan. When scanLibs is true, the
// compiled executable's shared-library dependencies are recorded after
// Pass 1.
func New(plan *config.Plan, scanLibs bool) *Verifier {
	v := &Verifier{plan: plan}
	if scanLibs {
		v.scanner = sharedlib.NewScanner()
	}
	return v
}

// Run executes the procedure: Pass 1 unless quick is set, then the
// environment handoff, then Pass 2. The returned report is valid in both
// outcomes; on failure the error is the *StepError of the step that stopped
// the run.
func (v *Verifier) Run(ctx context.Context, quick bool) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	v.report = newReport()

	if quick {
		logger.Info("Skipping bootstrap pass, reusing existing output tree.", "output", v.plan.OutputRoot)
	} else {
		if err := v.pass1(ctx); err != nil {
			v.report.finish(StatusFail)
			return v.report, err
		}
	}

	// In quick mode the executable comes from the prior full run; the scan
	// applies either way.
	v.scanLibraries(ctx)

	env, err := v.handoffEnv()
	if err != nil {
		v.report.finish(StatusFail)
		return v.report, err
	}

	if err := v.pass2(ctx, env); err != nil {
		v.report.finish(StatusFail)
		return v.report, err
	}

	v.report.finish(StatusPass)
	logger.Info("Self-test passed: compiled compiler reproduces its own output.")
	return v.report, nil
}

// handoffEnv builds the per-invocation environment for Pass 2: the module
// search-path variable pointing at the persisted output root, so the compiled
// executable resolves its own generated support modules as if installed.
func (v *Verifier) handoffEnv() (map[string]string, error) {
	root, err := filepath.Abs(v.plan.OutputRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving output root: %w", err)
	}
	return map[string]string{v.plan.SearchPathVar: root}, nil
}

// scanLibraries records the executable's shared-library dependencies. It is
// informational only; any failure is logged and the run continues.
func (v *Verifier) scanLibraries(ctx context.Context) {
	if v.scanner == nil {
		return
	}
	logger := ctxlog.FromContext(ctx)

	exe := filepath.Join(v.plan.OutputRoot, v.plan.Compiler.Executable)
	start := time.Now()
	deps, err := v.scanner.Scan(ctx, exe)
	if err != nil {
		logger.Warn("Shared library scan failed.", "binary", exe, "error", err)
		v.report.add(StepRecord{
			Kind:       StepScan,
			File:       exe,
			Status:     StatusFail,
			DurationMS: time.Since(start).Milliseconds(),
			Detail:     err.Error(),
		})
		return
	}

	for _, dep := range deps {
		logger.Info("Executable links against shared library.", "name", dep.Name, "path", dep.Path)
		v.report.Libraries = append(v.report.Libraries, LibraryRecord{Name: dep.Name, Path: dep.Path})
	}
	v.report.add(StepRecord{
		Kind:       StepScan,
		File:       exe,
		Status:     StatusPass,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

// interpretedArgv builds the argv for the interpreter-hosted compiler form.
func (v *Verifier) interpretedArgv(input string, extra ...string) []string {
	var argv []string
	if v.plan.Compiler.Interpreter != "" {
		argv = append(argv, v.plan.Compiler.Interpreter)
	}
	argv = append(argv, v.plan.Compiler.Entry, input)
	return append(argv, extra...)
}

// compiledArgv builds the argv for the Pass-1-produced executable form.
func (v *Verifier) compiledArgv(input string, extra ...string) []string {
	exe := filepath.Join(v.plan.OutputRoot, v.plan.Compiler.Executable)
	return append([]string{exe, input}, extra...)
}

// stderrSnippet trims compiler stderr down to a single diagnostic line.
func stderrSnippet(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
