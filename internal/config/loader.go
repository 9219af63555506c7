package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/reflectcheck/internal/ctxlog"
)

// Loader reads an HCL plan file and merges it over the default plan.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// compilerBlock mirrors the `compiler` block of a plan file.
type compilerBlock struct {
	Interpreter *string `hcl:"interpreter"`
	Entry       string  `hcl:"entry"`
	Executable  string  `hcl:"executable"`
}

// collectionBlock mirrors one `collection` block. Dir and Output are HCL
// expressions so they can reference the paths.* variables.
type collectionBlock struct {
	Name    string  `hcl:"name,label"`
	Dir     string  `hcl:"dir"`
	Output  string  `hcl:"output"`
	Exclude *string `hcl:"exclude"`
}

// fileRoot decodes the scalar plan attributes first; collection blocks stay
// in Remain so they can be decoded a second time with the paths.* variables
// in scope.
type fileRoot struct {
	Compiler       *compilerBlock `hcl:"compiler,block"`
	SourceExt      *string        `hcl:"source_ext"`
	ArtifactSuffix *string        `hcl:"artifact_suffix"`
	SearchPathVar  *string        `hcl:"search_path_var"`
	SourceRoot     *string        `hcl:"source_root"`
	OutputRoot     *string        `hcl:"output_root"`
	ScratchDir     *string        `hcl:"scratch_dir"`
	Remain         hcl.Body       `hcl:",remain"`
}

type collectionsRoot struct {
	Collections []*collectionBlock `hcl:"collection,block"`
}

// Load parses the plan file at path and returns the resulting plan, with any
// attribute the file does not set taken from DefaultPlan. Collection blocks
// replace the default collections entirely when present.
func (l *Loader) Load(ctx context.Context, path string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Plan loader started.", "path", path)

	plan := DefaultPlan()

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse plan file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode plan file %s: %w", path, diags)
	}

	if root.Compiler != nil {
		if root.Compiler.Interpreter != nil {
			plan.Compiler.Interpreter = *root.Compiler.Interpreter
		}
		plan.Compiler.Entry = root.Compiler.Entry
		plan.Compiler.Executable = root.Compiler.Executable
	}
	setIfPresent(&plan.SourceExt, root.SourceExt)
	setIfPresent(&plan.ArtifactSuffix, root.ArtifactSuffix)
	setIfPresent(&plan.SearchPathVar, root.SearchPathVar)
	setIfPresent(&plan.SourceRoot, root.SourceRoot)
	setIfPresent(&plan.OutputRoot, root.OutputRoot)
	setIfPresent(&plan.ScratchDir, root.ScratchDir)

	// Collection dir/output expressions may reference the resolved roots, so
	// they are decoded in a second pass with paths.* in scope.
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"paths": cty.ObjectVal(map[string]cty.Value{
				"src":     cty.StringVal(plan.SourceRoot),
				"out":     cty.StringVal(plan.OutputRoot),
				"scratch": cty.StringVal(plan.ScratchDir),
			}),
		},
	}

	var cols collectionsRoot
	if diags := gohcl.DecodeBody(root.Remain, evalCtx, &cols); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode collections in %s: %w", path, diags)
	}

	if len(cols.Collections) == 0 {
		// No collection blocks: re-anchor the default trio at the resolved
		// roots so a root override alone still targets the right tree.
		plan.Collections = DefaultCollections(plan.SourceRoot, plan.OutputRoot)
	} else {
		plan.Collections = plan.Collections[:0]
		for _, block := range cols.Collections {
			col := Collection{
				Name:   block.Name,
				Dir:    block.Dir,
				Output: block.Output,
			}
			if block.Exclude != nil {
				col.Exclude = *block.Exclude
			}
			plan.Collections = append(plan.Collections, col)
		}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Plan loaded.", "collections", len(plan.Collections), "output_root", plan.OutputRoot)
	return plan, nil
}

func setIfPresent(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
