// Package sharedlib inspects the shared-library dependencies of a compiled
// executable using the platform's own tooling (ldd on Linux, otool on
// Darwin). The scan is informational; it never decides pass or fail.
package sharedlib

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/vk/reflectcheck/internal/ctxlog"
	"github.com/vk/reflectcheck/internal/invoke"
)

// ErrUnsupported is returned on platforms without a known dependency tool.
var ErrUnsupported = errors.New("sharedlib: no dependency tool for this platform")

// Dependency is one shared library the executable links against. Path is
// empty when the dynamic linker did not resolve the library to a file.
type Dependency struct {
	Name string
	Path string
}

// Scanner runs the platform dependency tool against a binary.
type Scanner struct {
	inv invoke.Invoker

	// goos overrides runtime.GOOS in tests.
	goos string
}

// NewScanner creates a Scanner for the current platform.
func NewScanner() *Scanner {
	return &Scanner{goos: runtime.GOOS}
}

// Scan lists the shared-library dependencies of the binary at path.
func (s *Scanner) Scan(ctx context.Context, path string) ([]Dependency, error) {
	logger := ctxlog.FromContext(ctx)

	var argv []string
	switch s.goos {
	case "linux":
		argv = []string{"ldd", path}
	case "darwin":
		argv = []string{"otool", "-L", path}
	default:
		return nil, ErrUnsupported
	}

	result, err := s.inv.Run(ctx, invoke.Invocation{Argv: argv})
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("sharedlib: %s exited with code %d: %s",
			argv[0], result.ExitCode, strings.TrimSpace(string(result.Stderr)))
	}

	var deps []Dependency
	switch argv[0] {
	case "ldd":
		deps = parseLdd(result.Stdout)
	case "otool":
		deps = parseOtool(result.Stdout, path)
	}

	logger.Debug("Shared library scan complete.", "binary", path, "count", len(deps))
	return deps, nil
}

// parseLdd handles the three ldd line shapes:
//
//	libfoo.so.1 => /lib/libfoo.so.1 (0x...)
//	/lib64/ld-linux-x86-64.so.2 (0x...)
//	statically linked
func parseLdd(out []byte) []Dependency {
	var deps []Dependency
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "statically linked" {
			continue
		}

		// Drop the trailing load address.
		if idx := strings.LastIndex(line, " ("); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		name, path, arrow := strings.Cut(line, " => ")
		if !arrow {
			deps = append(deps, Dependency{Name: line, Path: line})
			continue
		}
		dep := Dependency{Name: strings.TrimSpace(name)}
		if path = strings.TrimSpace(path); path != "not found" {
			dep.Path = path
		}
		deps = append(deps, dep)
	}
	return deps
}

// parseOtool handles `otool -L` output: a header line naming the binary,
// then one tab-indented line per dependency with a version suffix.
func parseOtool(out []byte, binary string) []Dependency {
	var deps []Dependency
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "\t") {
			continue
		}
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, " (compatibility"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		// The first indented entry repeats the binary's own install name.
		if line == binary {
			continue
		}
		deps = append(deps, Dependency{Name: line, Path: line})
	}
	return deps
}
