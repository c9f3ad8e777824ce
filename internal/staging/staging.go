package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	dirPermissions = 0o755

	// patchPermissions keeps the copy owner-writable so the relocator can
	// mutate it in place; final permissions are restored after patching.
	patchPermissions = 0o700
)

// Assemble produces a clean staging directory <workRoot>/<product>-<version>-<arch>
// holding a single file: the located executable copied in under the product name.
// Any pre-existing directory of the same name is destroyed first, so repeated
// runs with identical inputs converge to identical contents.
// It returns the staging directory and the path of the staged executable.
func Assemble(workRoot, product, version, arch, source string) (string, string, error) {
	dir := filepath.Join(workRoot, fmt.Sprintf("%s-%s-%s", product, version, arch))

	if err := os.RemoveAll(dir); err != nil {
		return "", "", fmt.Errorf("clean staging directory %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return "", "", fmt.Errorf("create staging directory %s: %w", dir, err)
	}

	dest := filepath.Join(dir, product)
	if err := copyFile(source, dest); err != nil {
		return "", "", err
	}

	return dir, dest, nil
}

// copyFile copies source to dest, creating dest owner-writable regardless of
// the source permissions (build outputs are often read-only).
func copyFile(source, dest string) error {
	in, err := os.Open(filepath.Clean(source))
	if err != nil {
		return fmt.Errorf("open %s: %w", source, err)
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dest), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, patchPermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s to %s: %w", source, dest, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dest, err)
	}

	// The source may have been staged before under a stricter umask.
	if err = os.Chmod(dest, patchPermissions); err != nil {
		return fmt.Errorf("chmod %s: %w", dest, err)
	}

	return nil
}
