package compare

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFiles_Identical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.c++", "int main() {}\n")
	b := writeFile(t, dir, "b.c++", "int main() {}\n")

	require.NoError(t, Files(a, b))
}

func TestFiles_MismatchReportsFirstDivergence(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	a := writeFile(t, dir, "a.c++", "line one\nline two\n")
	b := writeFile(t, dir, "b.c++", "line one\nline 2wo\n")

	// --- Act ---
	err := Files(a, b)

	// --- Assert ---
	require.Error(t, err)
	mismatch, ok := err.(*Mismatch)
	require.True(t, ok, "expected a *Mismatch, got %T", err)
	require.Equal(t, 2, mismatch.Line)
	// "line one\nline " is 14 bytes; the divergence is the 15th byte.
	require.Equal(t, int64(15), mismatch.Offset)
}

func TestFiles_PrefixOfOtherIsAMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.c++", "shared prefix\n")
	b := writeFile(t, dir, "b.c++", "shared prefix\nextra tail\n")

	err := Files(a, b)
	require.Error(t, err)

	mismatch, ok := err.(*Mismatch)
	require.True(t, ok)
	require.Equal(t, int64(15), mismatch.Offset)
	require.Equal(t, 2, mismatch.Line)
}

func TestFiles_MissingCounterpartIsNotAMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.c++", "content\n")

	err := Files(a, filepath.Join(dir, "absent.c++"))
	require.Error(t, err)

	_, ok := err.(*Mismatch)
	require.False(t, ok, "a missing file must surface as a read error, not a mismatch")
}
