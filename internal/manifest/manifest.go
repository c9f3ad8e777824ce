package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrVersionMissing is returned when the manifest carries no usable version field.
var ErrVersionMissing = errors.New("manifest has no version field")

// document mirrors the two places a version can live in a TOML manifest:
// a Cargo-style [package] table, or a bare top-level key.
type document struct {
	Version string `toml:"version"`
	Package struct {
		Version string `toml:"version"`
	} `toml:"package"`
}

// ReadVersion returns the manifest's version string verbatim.
// The value is an opaque label used only for artifact naming; it is never
// parsed or compared, so any non-empty string is accepted.
func ReadVersion(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(contents, &doc); err != nil {
		return "", fmt.Errorf("parse manifest %s: %w", path, err)
	}

	version := doc.Package.Version
	if version == "" {
		version = doc.Version
	}

	if version == "" {
		return "", fmt.Errorf("%s: %w", path, ErrVersionMissing)
	}

	return version, nil
}
