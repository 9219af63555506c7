package config

import (
	"errors"
	"fmt"
	"strings"
)

// Compiler describes how the compiler under test is invoked in each of its
// two forms.
type Compiler struct {
	// Interpreter is the runtime that hosts the entry point in Pass 1, e.g.
	// "python3". Empty means the entry point is executed directly.
	Interpreter string

	// Entry is the path to the interpreted compiler entry point, relative to
	// the working directory.
	Entry string

	// Executable is the file name of the compiled executable that Pass 1
	// leaves in the output root.
	Executable string
}

// Collection is one ordered group of compiler sources. Collections are
// processed in plan order in both passes.
type Collection struct {
	// Name identifies the collection in logs and reports.
	Name string

	// Dir is the flat directory holding the collection's source files.
	Dir string

	// Output is the directory the generated artifacts are written to in
	// Pass 1 and compared against in Pass 2.
	Output string

	// Exclude is the file name inside Dir that is never compiled and instead
	// copied verbatim into Output after the rest of the collection.
	Exclude string
}

// Plan is the complete description of one verification run.
type Plan struct {
	Compiler Compiler

	// SourceExt is the extension of compiler source files, including the dot.
	SourceExt string

	// ArtifactSuffix is the extension of generated artifacts, including the
	// dot. The suffix is fixed regardless of the compiler's target backend.
	ArtifactSuffix string

	// SearchPathVar is the environment variable the compiled executable
	// resolves its own generated support modules through. It is set to the
	// output root, per invocation, before Pass 2.
	SearchPathVar string

	// SourceRoot and OutputRoot anchor the collection directories; ScratchDir
	// receives the throwaway Pass 2 artifacts.
	SourceRoot string
	OutputRoot string
	ScratchDir string

	Collections []Collection
}

// Validate rejects plans that cannot drive a run.
func (p *Plan) Validate() error {
	if p.Compiler.Entry == "" {
		return errors.New("plan: compiler entry point is required")
	}
	if p.Compiler.Executable == "" {
		return errors.New("plan: compiler executable name is required")
	}
	if !strings.HasPrefix(p.ArtifactSuffix, ".") {
		return fmt.Errorf("plan: artifact suffix %q must start with a dot", p.ArtifactSuffix)
	}
	if !strings.HasPrefix(p.SourceExt, ".") {
		return fmt.Errorf("plan: source extension %q must start with a dot", p.SourceExt)
	}
	if p.OutputRoot == "" {
		return errors.New("plan: output root is required")
	}
	if p.ScratchDir == "" {
		return errors.New("plan: scratch directory is required")
	}
	if len(p.Collections) == 0 {
		return errors.New("plan: at least one source collection is required")
	}
	seen := make(map[string]struct{}, len(p.Collections))
	for _, col := range p.Collections {
		if col.Name == "" || col.Dir == "" || col.Output == "" {
			return fmt.Errorf("plan: collection %q is missing a name, dir or output", col.Name)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("plan: duplicate collection %q", col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}
