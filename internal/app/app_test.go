package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewApp_DefaultPlanWhenNoPlanPath(t *testing.T) {
	t.Parallel()

	a := NewApp(&bytes.Buffer{}, &Config{LogLevel: "error", LogFormat: "text"})

	plan := a.Plan()
	require.Len(t, plan.Collections, 3)
	require.Equal(t, filepath.Join("tests", "reflected"), plan.OutputRoot)
}

func TestNewApp_ScratchDirOverride(t *testing.T) {
	t.Parallel()

	a := NewApp(&bytes.Buffer{}, &Config{
		ScratchDir: "/tmp/elsewhere",
		LogLevel:   "error",
		LogFormat:  "text",
	})

	require.Equal(t, "/tmp/elsewhere", a.Plan().ScratchDir)
}

func TestNewApp_PanicsOnBrokenPlan(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "plan.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`compiler {`), 0o644))

	// --- Act / Assert ---
	require.Panics(t, func() {
		NewApp(&bytes.Buffer{}, &Config{PlanPath: path, LogLevel: "error", LogFormat: "text"})
	})
}

func TestConfig_Quick(t *testing.T) {
	t.Parallel()

	require.True(t, (&Config{Mode: ModeQuick}).Quick())
	require.False(t, (&Config{Mode: ""}).Quick())
	require.False(t, (&Config{Mode: "Quick"}).Quick(), "the sentinel check is case-sensitive")
}
