package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/reflectcheck/internal/ctxlog"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultPlan_IsValid(t *testing.T) {
	t.Parallel()

	plan := DefaultPlan()
	require.NoError(t, plan.Validate())
	require.Len(t, plan.Collections, 3)
	require.Equal(t, "toplevel", plan.Collections[0].Name)
	require.Equal(t, "nodes", plan.Collections[1].Name)
	require.Equal(t, "templates", plan.Collections[2].Name)
	require.Equal(t, ".c++", plan.ArtifactSuffix)
	require.Equal(t, "PYTHONPATH", plan.SearchPathVar)
}

func TestLoad_OverridesAndPathVariables(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := writePlan(t, `
compiler {
  interpreter = "python3"
  entry       = "compiler/main.py"
  executable  = "main.exe"
}

source_root = "compiler"
output_root = "build/reflected"
scratch_dir = "/tmp/reflectcheck-test"

collection "core" {
  dir     = paths.src
  output  = paths.out
  exclude = "__init__.py"
}

collection "gen" {
  dir    = "${paths.src}/gen"
  output = "${paths.out}/gen"
}
`)

	// --- Act ---
	plan, err := NewLoader().Load(testContext(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "compiler/main.py", plan.Compiler.Entry)
	require.Equal(t, "main.exe", plan.Compiler.Executable)
	require.Equal(t, "build/reflected", plan.OutputRoot)

	// Collections replace the defaults and keep file order.
	require.Len(t, plan.Collections, 2)
	require.Equal(t, "core", plan.Collections[0].Name)
	require.Equal(t, "compiler", plan.Collections[0].Dir)
	require.Equal(t, "build/reflected", plan.Collections[0].Output)
	require.Equal(t, "__init__.py", plan.Collections[0].Exclude)

	require.Equal(t, "gen", plan.Collections[1].Name)
	require.Equal(t, "compiler/gen", plan.Collections[1].Dir)
	require.Equal(t, "build/reflected/gen", plan.Collections[1].Output)
	require.Empty(t, plan.Collections[1].Exclude)

	// Attributes the file does not set keep their defaults.
	require.Equal(t, ".py", plan.SourceExt)
	require.Equal(t, ".c++", plan.ArtifactSuffix)
}

func TestLoad_RootOverridesReanchorDefaultCollections(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Overriding the roots without declaring collection blocks must move the
	// default trio along with them.
	path := writePlan(t, `
source_root = "compiler"
output_root = "build/reflected"
`)

	// --- Act ---
	plan, err := NewLoader().Load(testContext(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, plan.Collections, 3)
	require.Equal(t, "compiler", plan.Collections[0].Dir)
	require.Equal(t, "build/reflected", plan.Collections[0].Output)
	require.Equal(t, filepath.Join("compiler", "nodes"), plan.Collections[1].Dir)
	require.Equal(t, filepath.Join("build/reflected", "nodes"), plan.Collections[1].Output)
	require.Equal(t, filepath.Join("compiler", "templates"), plan.Collections[2].Dir)
	require.Equal(t, filepath.Join("build/reflected", "templates"), plan.Collections[2].Output)
}

func TestLoad_InvalidHCLIsRejected(t *testing.T) {
	t.Parallel()

	path := writePlan(t, `collection "broken" {`)
	_, err := NewLoader().Load(testContext(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Parallel()

	// Suffix without a leading dot cannot derive artifact paths.
	path := writePlan(t, `artifact_suffix = "cpp"`)
	_, err := NewLoader().Load(testContext(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "must start with a dot")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(testContext(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}

func TestValidate_DuplicateCollection(t *testing.T) {
	t.Parallel()

	plan := DefaultPlan()
	plan.Collections = append(plan.Collections, plan.Collections[0])
	require.Error(t, plan.Validate())
}
