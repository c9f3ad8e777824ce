package staging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSource creates a fake executable to stage and returns its path.
func writeSource(t *testing.T, contents []byte, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "widget-bin")
	require.NoError(t, os.WriteFile(path, contents, mode))

	return path
}

// TestAssemble stages the executable under the canonical product name.
func TestAssemble(t *testing.T) {
	t.Parallel()

	workRoot := t.TempDir()
	source := writeSource(t, []byte("binary contents"), 0o755)

	dir, binary, err := Assemble(workRoot, "widget", "2.3.1", "x86_64", source)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(workRoot, "widget-2.3.1-x86_64"), dir)
	require.Equal(t, filepath.Join(dir, "widget"), binary)

	contents, err := os.ReadFile(binary)
	require.NoError(t, err)
	require.Equal(t, []byte("binary contents"), contents)
}

// TestAssembleWritable ensures the staged copy is owner-writable even when
// the source is read-only, so in-place patching can follow.
func TestAssembleWritable(t *testing.T) {
	t.Parallel()

	workRoot := t.TempDir()
	source := writeSource(t, []byte("read-only source"), 0o444)

	_, binary, err := Assemble(workRoot, "widget", "1.0", "x86_64", source)
	require.NoError(t, err)

	info, err := os.Stat(binary)
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o200)
}

// TestAssembleIdempotent verifies leftovers from a previous run are destroyed.
func TestAssembleIdempotent(t *testing.T) {
	t.Parallel()

	workRoot := t.TempDir()
	source := writeSource(t, []byte("v1"), 0o755)

	dir, _, err := Assemble(workRoot, "widget", "1.0", "x86_64", source)
	require.NoError(t, err)

	// Pollute the staging directory.
	leftover := filepath.Join(dir, "stale-file")
	require.NoError(t, os.WriteFile(leftover, []byte("junk"), 0o600))

	dir2, binary, err := Assemble(workRoot, "widget", "1.0", "x86_64", source)
	require.NoError(t, err)
	require.Equal(t, dir, dir2)

	_, err = os.Stat(leftover)
	require.ErrorIs(t, err, os.ErrNotExist)

	entries, err := os.ReadDir(dir2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, filepath.Base(binary), entries[0].Name())
}

// TestAssembleMissingSource surfaces the offending path on copy failure.
func TestAssembleMissingSource(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent")

	_, _, err := Assemble(t.TempDir(), "widget", "1.0", "x86_64", missing)
	require.Error(t, err)
	require.ErrorContains(t, err, missing)
}
