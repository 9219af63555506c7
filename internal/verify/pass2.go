package verify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/vk/reflectcheck/internal/compare"
	"github.com/vk/reflectcheck/internal/config"
	"github.com/vk/reflectcheck/internal/ctxlog"
	"github.com/vk/reflectcheck/internal/fsutil"
)

// Comparison exit codes, following the cmp convention: 1 for differing
// files, 2 when a file could not be read at all.
const (
	exitMismatch = 1
	exitTrouble  = 2
)

// pass2 recompiles every collection with the Pass-1-produced executable into
// the scratch directory and compares each fresh artifact against its
// persisted counterpart. The first non-zero exit or byte difference aborts.
func (v *Verifier) pass2(ctx context.Context, env map[string]string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Reflected pass started.", "executable", filepath.Join(v.plan.OutputRoot, v.plan.Compiler.Executable))

	if err := fsutil.EnsureDir(v.plan.ScratchDir); err != nil {
		return &StepError{Pass: PassReflected, File: v.plan.ScratchDir, ExitCode: 1, Err: err}
	}

	for _, col := range v.plan.Collections {
		if err := v.reflectCollection(ctx, col, env); err != nil {
			return err
		}
	}
	return nil
}

func (v *Verifier) reflectCollection(ctx context.Context, col config.Collection, env map[string]string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.ListByExtension(col.Dir, v.plan.SourceExt)
	if err != nil {
		return &StepError{Pass: PassReflected, File: col.Dir, ExitCode: 1, Err: err}
	}

	for _, file := range files {
		if col.Exclude != "" && filepath.Base(file) == col.Exclude {
			continue
		}

		logger.Info("Compiling", "file", file, "pass", PassReflected)

		scratch := fsutil.ArtifactPath(v.plan.ScratchDir, file, v.plan.ArtifactSuffix)
		if err := os.Remove(scratch); err != nil && !os.IsNotExist(err) {
			return &StepError{Pass: PassReflected, File: file, ExitCode: 1, Err: err}
		}

		argv := v.compiledArgv(file, "--output="+v.plan.ScratchDir)
		if err := v.compileStep(ctx, PassReflected, file, argv, env); err != nil {
			return err
		}

		persisted := fsutil.ArtifactPath(col.Output, file, v.plan.ArtifactSuffix)
		if err := v.compareStep(ctx, file, scratch, persisted); err != nil {
			return err
		}
	}
	return nil
}

// compareStep checks a fresh artifact against its persisted counterpart.
func (v *Verifier) compareStep(ctx context.Context, file string, scratch string, persisted string) error {
	logger := ctxlog.FromContext(ctx)

	start := time.Now()
	err := compare.Files(scratch, persisted)
	if err == nil {
		v.report.add(StepRecord{
			Kind:       StepCompare,
			Pass:       PassReflected,
			File:       file,
			Status:     StatusPass,
			DurationMS: time.Since(start).Milliseconds(),
		})
		return nil
	}

	exitCode := exitTrouble
	var mismatch *compare.Mismatch
	if errors.As(err, &mismatch) {
		exitCode = exitMismatch
		logger.Error("Artifact differs between passes.",
			"file", file, "line", mismatch.Line, "byte", mismatch.Offset)
	}

	v.report.add(StepRecord{
		Kind:       StepCompare,
		Pass:       PassReflected,
		File:       file,
		Status:     StatusFail,
		DurationMS: time.Since(start).Milliseconds(),
		ExitCode:   exitCode,
		Detail:     err.Error(),
	})
	return &StepError{Pass: PassReflected, File: file, ExitCode: exitCode, Err: err}
}
