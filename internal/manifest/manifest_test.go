package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeManifest drops a manifest with the given contents into a temp dir.
func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestReadVersion checks that the version field is returned verbatim.
func TestReadVersion(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "[package]\nname = \"widget\"\nversion = \"2.3.1\"\n")

	version, err := ReadVersion(path)
	require.NoError(t, err)
	require.Equal(t, "2.3.1", version)
}

// TestReadVersionOpaque ensures non-numeric version labels pass through untouched.
func TestReadVersionOpaque(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "[package]\nversion = \"1.0.0-rc.2+nightly\"\n")

	version, err := ReadVersion(path)
	require.NoError(t, err)
	require.Equal(t, "1.0.0-rc.2+nightly", version)
}

// TestReadVersionTopLevel accepts a bare top-level version key.
func TestReadVersionTopLevel(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "version = \"0.9\"\n")

	version, err := ReadVersion(path)
	require.NoError(t, err)
	require.Equal(t, "0.9", version)
}

// TestReadVersionMissing rejects manifests without a version or with an empty one.
func TestReadVersionMissing(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "[package]\nname = \"widget\"\n")

	_, err := ReadVersion(path)
	require.ErrorIs(t, err, ErrVersionMissing)

	path = writeManifest(t, "[package]\nversion = \"\"\n")

	_, err = ReadVersion(path)
	require.ErrorIs(t, err, ErrVersionMissing)
}

// TestReadVersionMalformed surfaces TOML decode errors.
func TestReadVersionMalformed(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "[package\nversion = 1")

	_, err := ReadVersion(path)
	require.Error(t, err)

	// Absent file.
	_, err = ReadVersion(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
