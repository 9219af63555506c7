// Package invoke runs one external process at a time and reports its outcome
// as data. Exit codes are returned to the caller rather than folded into the
// error; the orchestrator decides what is fatal.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/vk/reflectcheck/internal/ctxlog"
)

// Invocation is a single external command. Env entries are merged over the
// parent environment per invocation; nothing is ever exported globally.
type Invocation struct {
	Argv []string
	Dir  string
	Env  map[string]string
}

// Result is the outcome of a completed invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Invoker executes invocations synchronously, one at a time.
type Invoker struct{}

// Run starts the invocation and blocks until it completes or ctx is done.
// A non-zero exit code is reported through Result, not through the error;
// the error is reserved for failures to run the command at all.
func (Invoker) Run(ctx context.Context, inv Invocation) (*Result, error) {
	if len(inv.Argv) == 0 {
		return nil, errors.New("invoke: empty argv")
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Invoking external command.", "argv", strings.Join(inv.Argv, " "))

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = mergedEnv(inv.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("invoke: running %s: %w", inv.Argv[0], err)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("invoke: %s interrupted: %w", inv.Argv[0], ctx.Err())
		}
		result := &Result{
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			ExitCode: exitErr.ExitCode(),
		}
		logger.Debug("Command exited non-zero.", "argv0", inv.Argv[0], "exit_code", result.ExitCode)
		return result, nil
	}

	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: 0}, nil
}

// mergedEnv builds the child environment: the parent environment with the
// invocation's entries overriding by key.
func mergedEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}

	env := os.Environ()
	out := make([]string, 0, len(env)+len(overrides))
	for _, kv := range env {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := overrides[key]; overridden {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		out = append(out, key+"="+overrides[key])
	}
	return out
}
