package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

const archivePermissions = 0o644

// Compress packs the staging directory into <dir>.<format> next to it and
// returns the archive path. The directory name is preserved as the top-level
// entry so extraction reproduces the staged layout. A prior archive of the
// same name is overwritten.
func Compress(dir, format string) (string, error) {
	out := dir + "." + format

	f, err := os.OpenFile(filepath.Clean(out), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, archivePermissions)
	if err != nil {
		return "", fmt.Errorf("create archive %s: %w", out, err)
	}

	compressor, err := newCompressor(f, format)
	if err != nil {
		_ = f.Close()

		return "", err
	}

	if err = writeTar(compressor, dir); err != nil {
		_ = compressor.Close()
		_ = f.Close()

		return "", fmt.Errorf("write archive %s: %w", out, err)
	}

	if err = compressor.Close(); err != nil {
		_ = f.Close()

		return "", fmt.Errorf("finish archive %s: %w", out, err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close archive %s: %w", out, err)
	}

	return out, nil
}

// newCompressor wraps w in the compression stream matching the format.
func newCompressor(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case "tar.gz":
		return gzip.NewWriter(w), nil
	case "tar.xz":
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("initialize xz stream: %w", err)
		}

		return xzw, nil
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

// writeTar streams dir into a tar archive rooted at the directory's own name.
func writeTar(w io.Writer, dir string) error {
	tw := tar.NewWriter(w)
	base := filepath.Base(dir)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		header.Name = filepath.ToSlash(filepath.Join(base, rel))
		if d.IsDir() {
			header.Name += "/"
		}

		if err = tw.WriteHeader(header); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return err
		}

		defer func() {
			_ = f.Close()
		}()

		_, err = io.Copy(tw, f)

		return err
	})
	if err != nil {
		return err
	}

	return tw.Close()
}
