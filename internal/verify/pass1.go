package verify

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vk/reflectcheck/internal/config"
	"github.com/vk/reflectcheck/internal/ctxlog"
	"github.com/vk/reflectcheck/internal/fsutil"
	"github.com/vk/reflectcheck/internal/invoke"
)

// pass1 compiles every collection with the interpreter-hosted compiler, then
// compiles the entry point into the executable. Output directories are
// created and cleared of stale artifacts before each collection; the
// designated excluded file is copied verbatim after its collection.
func (v *Verifier) pass1(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Bootstrap pass started.", "collections", len(v.plan.Collections))

	for _, col := range v.plan.Collections {
		if err := v.compileCollection(ctx, col); err != nil {
			return err
		}
	}

	return v.compileExecutable(ctx)
}

func (v *Verifier) compileCollection(ctx context.Context, col config.Collection) error {
	logger := ctxlog.FromContext(ctx)

	if err := fsutil.EnsureDir(col.Output); err != nil {
		return &StepError{Pass: PassBootstrap, File: col.Output, ExitCode: 1, Err: err}
	}
	if err := fsutil.RemoveBySuffix(col.Output, v.plan.ArtifactSuffix); err != nil {
		return &StepError{Pass: PassBootstrap, File: col.Output, ExitCode: 1, Err: err}
	}

	files, err := fsutil.ListByExtension(col.Dir, v.plan.SourceExt)
	if err != nil {
		return &StepError{Pass: PassBootstrap, File: col.Dir, ExitCode: 1, Err: err}
	}

	for _, file := range files {
		if col.Exclude != "" && filepath.Base(file) == col.Exclude {
			continue
		}

		logger.Info("Compiling", "file", file)
		if err := v.compileStep(ctx, PassBootstrap, file, v.interpretedArgv(file, "--output="+col.Output), nil); err != nil {
			return err
		}
	}

	if col.Exclude != "" {
		if err := v.copyExcluded(col); err != nil {
			return err
		}
	}
	return nil
}

// copyExcluded places the collection's initializer file into the output
// directory untouched. A missing file is fatal, surfaced by the copy itself.
func (v *Verifier) copyExcluded(col config.Collection) error {
	src := filepath.Join(col.Dir, col.Exclude)
	dst := filepath.Join(col.Output, col.Exclude)

	start := time.Now()
	if err := fsutil.CopyFile(src, dst); err != nil {
		v.report.add(StepRecord{
			Kind:       StepCopy,
			Pass:       PassBootstrap,
			File:       src,
			Status:     StatusFail,
			DurationMS: time.Since(start).Milliseconds(),
			Detail:     err.Error(),
		})
		return &StepError{Pass: PassBootstrap, File: src, ExitCode: 1, Err: err}
	}

	v.report.add(StepRecord{
		Kind:       StepCopy,
		Pass:       PassBootstrap,
		File:       src,
		Status:     StatusPass,
		DurationMS: time.Since(start).Milliseconds(),
	})
	return nil
}

// compileExecutable compiles the entry point with the executable flag into
// the output root.
func (v *Verifier) compileExecutable(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	entry := v.plan.Compiler.Entry

	logger.Info("Compiling", "file", entry, "mode", "exe")
	return v.compileStep(ctx, PassBootstrap, entry,
		v.interpretedArgv(entry, "--output="+v.plan.OutputRoot, "--exe"), nil)
}

// compileStep runs one compiler invocation and records its outcome. A
// non-zero exit aborts the run with the invocation's own exit code.
func (v *Verifier) compileStep(ctx context.Context, pass string, file string, argv []string, env map[string]string) error {
	start := time.Now()
	result, err := v.inv.Run(ctx, invoke.Invocation{Argv: argv, Env: env})
	if err != nil {
		v.report.add(StepRecord{
			Kind:       StepCompile,
			Pass:       pass,
			File:       file,
			Status:     StatusFail,
			DurationMS: time.Since(start).Milliseconds(),
			Detail:     err.Error(),
		})
		return &StepError{Pass: pass, File: file, ExitCode: 1, Err: err}
	}

	if result.ExitCode != 0 {
		detail := stderrSnippet(result.Stderr)
		v.report.add(StepRecord{
			Kind:       StepCompile,
			Pass:       pass,
			File:       file,
			Status:     StatusFail,
			DurationMS: time.Since(start).Milliseconds(),
			ExitCode:   result.ExitCode,
			Detail:     detail,
		})
		return &StepError{
			Pass:     pass,
			File:     file,
			ExitCode: result.ExitCode,
			Err:      fmt.Errorf("compiler exited with code %d: %s", result.ExitCode, detail),
		}
	}

	v.report.add(StepRecord{
		Kind:       StepCompile,
		Pass:       pass,
		File:       file,
		Status:     StatusPass,
		DurationMS: time.Since(start).Milliseconds(),
	})
	return nil
}
