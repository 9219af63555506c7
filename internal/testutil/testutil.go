// Package testutil provides the shared fixtures for verifier tests: a fake
// compiler implemented as a shell script honoring the real compiler's CLI
// contract, source-tree builders and a run harness.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/reflectcheck/internal/config"
)

// ExecutableName is the file name the fake compiler produces in --exe mode.
const ExecutableName = "compiler.exe"

// fakeCompilerScript mimics the compiler contract:
//
//	<entry> <input> --output=<dir> [--exe]
//
// Module mode writes a deterministic artifact derived only from the input
// file; --exe mode installs a copy of the script itself as the executable.
const fakeCompilerScript = `#!/bin/sh
input=""
out=""
exe=0
for arg in "$@"; do
  case "$arg" in
    --output=*) out="${arg#--output=}" ;;
    --exe) exe=1 ;;
    *) input="$arg" ;;
  esac
done
base=$(basename "$input")
stem="${base%.*}"
if [ "$exe" -eq 1 ]; then
  cp "$0" "$out/` + ExecutableName + `"
  chmod +x "$out/` + ExecutableName + `"
else
  {
    printf '// generated from %s\n' "$base"
    cat "$input"
  } > "$out/$stem.c++"
fi
`

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFakeCompiler installs the fake compiler script at path.
func WriteFakeCompiler(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(fakeCompilerScript), 0o755))
}

// WriteFailingCompiler installs a compiler stand-in at path that always
// exits with the given code after printing a diagnostic to stderr.
func WriteFailingCompiler(t *testing.T, path string, code int) {
	t.Helper()
	script := "#!/bin/sh\necho 'fake compiler: refusing to compile' >&2\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
}

// WriteSourceTree writes the given relative path to content pairs under root.
func WriteSourceTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// Plan returns a verification plan rooted at root, wired to the fake
// compiler script at root/compiler.sh. The layout mirrors the default plan:
// three collections under src/, output under out/, scratch under scratch/.
func Plan(root string) *config.Plan {
	src := filepath.Join(root, "src")
	out := filepath.Join(root, "out")

	return &config.Plan{
		Compiler: config.Compiler{
			Interpreter: "sh",
			Entry:       filepath.Join(root, "compiler.sh"),
			Executable:  ExecutableName,
		},
		SourceExt:      ".py",
		ArtifactSuffix: ".c++",
		SearchPathVar:  "REFLECTCHECK_PATH",
		SourceRoot:     src,
		OutputRoot:     out,
		ScratchDir:     filepath.Join(root, "scratch"),
		Collections: []config.Collection{
			{Name: "toplevel", Dir: src, Output: out, Exclude: "__init__.py"},
			{Name: "nodes", Dir: filepath.Join(src, "nodes"), Output: filepath.Join(out, "nodes"), Exclude: "__init__.py"},
			{Name: "templates", Dir: filepath.Join(src, "templates"), Output: filepath.Join(out, "templates"), Exclude: "__init__.py"},
		},
	}
}
