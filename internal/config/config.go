package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the packaging pipeline settings.
type Config struct {
	// Product is the canonical application name used for the staged
	// directory, the packaged executable and the archive.
	Product string `yaml:"product"`
	// ManifestPath is the path to the project manifest holding the version field.
	ManifestPath string `yaml:"manifest_path"`
	// BuildRoot is the root of the externally supplied build result.
	BuildRoot string `yaml:"build_root"`
	// BinaryPath is the expected executable location relative to BuildRoot.
	BinaryPath string `yaml:"binary_path"`
	// WorkRoot is the directory where the staged distribution and archive are written.
	WorkRoot string `yaml:"work_root"`
	// Architecture is the architecture label interpolated into artifact names.
	Architecture string `yaml:"architecture"`
	// ArchiveFormat selects the archive container, one of "tar.gz" or "tar.xz".
	ArchiveFormat string `yaml:"archive_format"`
	// LoaderPaths are dynamic-linker interpreter candidates tried in order.
	LoaderPaths []string `yaml:"loader_paths"`
	// PatchTool is the name or path of the binary-metadata editing utility.
	PatchTool string `yaml:"patch_tool"`
	// ToolTimeout bounds a single invocation of the patch tool.
	ToolTimeout time.Duration `yaml:"tool_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "epm-packager.yaml"

	// DefaultProduct is the canonical name of the packaged application.
	DefaultProduct = "eve-preview-manager"

	// DefaultManifestPath points at the application's Cargo manifest.
	DefaultManifestPath = "Cargo.toml"

	// DefaultBuildRoot is where the external build step leaves its result.
	DefaultBuildRoot = "result"

	// DefaultBinaryPath is the expected executable location inside the build result.
	DefaultBinaryPath = "bin/eve-preview-manager"

	// DefaultWorkRoot is the output directory for staged and archived artifacts.
	DefaultWorkRoot = "dist"

	// DefaultArchitecture labels artifacts for the only supported target.
	DefaultArchitecture = "x86_64"

	// DefaultArchiveFormat is gzip-compressed tar.
	DefaultArchiveFormat = "tar.gz"

	// DefaultPatchTool is the conventional ELF metadata editor.
	DefaultPatchTool = "patchelf"

	// DefaultToolTimeout is the duration allowed for one patch tool invocation.
	DefaultToolTimeout = 30 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// DefaultLoaderPaths returns the interpreter candidates tried in order:
// the conventional 64-bit loader first, then the multi-arch location.
func DefaultLoaderPaths() []string {
	return []string{
		"/lib64/ld-linux-x86-64.so.2",
		"/lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
	}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProductHasSeparator is returned when the product name would escape the staging directory.
	errProductHasSeparator = errors.New("product name must not contain path separators")
	// errUnknownArchiveFormat is returned for an unsupported archive container.
	errUnknownArchiveFormat = errors.New(`archive format must be "tar.gz" or "tar.xz"`)
)

// Default returns a configuration matching the conventional release layout.
func Default() *Config {
	return &Config{
		Product:       DefaultProduct,
		ManifestPath:  DefaultManifestPath,
		BuildRoot:     DefaultBuildRoot,
		BinaryPath:    DefaultBinaryPath,
		WorkRoot:      DefaultWorkRoot,
		Architecture:  DefaultArchitecture,
		ArchiveFormat: DefaultArchiveFormat,
		LoaderPaths:   DefaultLoaderPaths(),
		PatchTool:     DefaultPatchTool,
		ToolTimeout:   DefaultToolTimeout,
	}
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load, but a missing file at the default
// location is not an error: the built-in defaults are used instead.
// An explicitly provided path must exist.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""

	cfg, err := Load(path)
	if err != nil && !explicit && errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults for omitted ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Product == "" {
		cfg.Product = DefaultProduct
	}

	if strings.ContainsRune(cfg.Product, os.PathSeparator) {
		return errProductHasSeparator
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultManifestPath
	}

	if cfg.BuildRoot == "" {
		cfg.BuildRoot = DefaultBuildRoot
	}

	if cfg.BinaryPath == "" {
		cfg.BinaryPath = DefaultBinaryPath
	}

	if cfg.WorkRoot == "" {
		cfg.WorkRoot = DefaultWorkRoot
	}

	if cfg.Architecture == "" {
		cfg.Architecture = DefaultArchitecture
	}

	if cfg.ArchiveFormat == "" {
		cfg.ArchiveFormat = DefaultArchiveFormat
	}

	if cfg.ArchiveFormat != "tar.gz" && cfg.ArchiveFormat != "tar.xz" {
		return fmt.Errorf("%w, got %q", errUnknownArchiveFormat, cfg.ArchiveFormat)
	}

	if len(cfg.LoaderPaths) == 0 {
		cfg.LoaderPaths = DefaultLoaderPaths()
	}

	if cfg.PatchTool == "" {
		cfg.PatchTool = DefaultPatchTool
	}

	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = DefaultToolTimeout
	}

	return nil
}
