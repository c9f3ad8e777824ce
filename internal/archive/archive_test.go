package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// stageDir builds a staging directory with a single fake executable.
func stageDir(t *testing.T, name string, contents []byte) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget"), contents, 0o755))

	return dir
}

// readEntries extracts all archive entries into a name-to-contents map.
func readEntries(t *testing.T, r io.Reader) map[string][]byte {
	t.Helper()

	entries := make(map[string][]byte)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}

		require.NoError(t, err)

		if header.Typeflag == tar.TypeDir {
			entries[header.Name] = nil

			continue
		}

		contents, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[header.Name] = contents
	}

	return entries
}

// TestCompressRoundTrip verifies the tar.gz archive reproduces the staged
// tree byte-for-byte under the staged directory's own name.
func TestCompressRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte("relocated executable")
	dir := stageDir(t, "widget-2.3.1-x86_64", payload)

	out, err := Compress(dir, "tar.gz")
	require.NoError(t, err)
	require.Equal(t, dir+".tar.gz", out)

	f, err := os.Open(out)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	entries := readEntries(t, gz)
	require.Contains(t, entries, "widget-2.3.1-x86_64/")
	require.Equal(t, payload, entries["widget-2.3.1-x86_64/widget"])
}

// TestCompressXZ checks the alternate container produces a valid xz stream.
func TestCompressXZ(t *testing.T) {
	t.Parallel()

	payload := []byte("relocated executable")
	dir := stageDir(t, "widget-1.0-x86_64", payload)

	out, err := Compress(dir, "tar.xz")
	require.NoError(t, err)
	require.Equal(t, dir+".tar.xz", out)

	f, err := os.Open(out)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	xzr, err := xz.NewReader(f)
	require.NoError(t, err)

	entries := readEntries(t, xzr)
	require.Equal(t, payload, entries["widget-1.0-x86_64/widget"])
}

// TestCompressOverwrites replaces a stale archive from a previous run.
func TestCompressOverwrites(t *testing.T) {
	t.Parallel()

	dir := stageDir(t, "widget-1.0-x86_64", []byte("fresh"))
	require.NoError(t, os.WriteFile(dir+".tar.gz", []byte("stale bytes"), 0o644))

	out, err := Compress(dir, "tar.gz")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	entries := readEntries(t, gz)
	require.Equal(t, []byte("fresh"), entries["widget-1.0-x86_64/widget"])
}

// TestCompressUnknownFormat rejects unsupported containers.
func TestCompressUnknownFormat(t *testing.T) {
	t.Parallel()

	dir := stageDir(t, "widget-1.0-x86_64", []byte("x"))

	_, err := Compress(dir, "zip")
	require.Error(t, err)
}
