package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when the build result contains no packageable executable.
var ErrNotFound = errors.New("build artifact not found")

// shebang marks a script launcher rather than a native executable.
var shebang = []byte("#!")

// Locate resolves the real executable inside a build result.
//
// Wrapper-aware build systems leave a thin launcher at the public path and
// the true executable at a hidden "-wrapped" sibling, so the sibling is
// preferred whenever it exists. Without it, the public path is used as-is,
// except that a script launcher there means the real binary is absent and
// packaging it would ship a broken, environment-dependent artifact.
func Locate(buildRoot, binaryPath string) (string, error) {
	public := filepath.Join(buildRoot, binaryPath)
	private := filepath.Join(filepath.Dir(public), "."+filepath.Base(public)+"-wrapped")

	if isRegular(private) {
		return private, nil
	}

	if !isRegular(public) {
		return "", fmt.Errorf("%w: neither %s nor %s exists", ErrNotFound, private, public)
	}

	wrapper, err := isScript(public)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", public, err)
	}

	if wrapper {
		return "", fmt.Errorf("%w: %s is a launcher script and no unwrapped binary exists", ErrNotFound, public)
	}

	return public, nil
}

// isRegular reports whether path exists and is a regular file.
func isRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// isScript reports whether the file starts with a shebang line.
func isScript(path string) (bool, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return false, err
	}

	defer func() {
		_ = f.Close()
	}()

	head := make([]byte, len(shebang))

	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}

	return bytes.Equal(head[:n], shebang), nil
}
