package packager

import (
	"context"
	"fmt"

	"github.com/eve-preview-manager/packager/internal/archive"
	"github.com/eve-preview-manager/packager/internal/artifact"
	"github.com/eve-preview-manager/packager/internal/config"
	"github.com/eve-preview-manager/packager/internal/logger"
	"github.com/eve-preview-manager/packager/internal/manifest"
	"github.com/eve-preview-manager/packager/internal/relocate"
	"github.com/eve-preview-manager/packager/internal/staging"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to the pipeline settings (defaults to epm-packager.yaml).
	ConfigPath string
	// WorkRoot overrides the configured output directory when non-empty.
	WorkRoot string
}

// packager turns an externally built binary into a portable release archive.
// It is unexported—callers should use Run, which encapsulates setup and validation.
type packager struct {
	// cfg holds the pipeline settings.
	cfg *config.Config
}

// Run executes the full packaging pipeline: read the manifest version, locate
// the real executable, stage it, relocate its linker metadata, and archive
// the staged directory.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "epm-packager")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.WorkRoot != "" {
		cfg.WorkRoot = opts.WorkRoot
	}

	if err = ensureSingleInvoker(ctx); err != nil {
		return err
	}

	pkg := &packager{cfg: cfg}

	out, err := pkg.run(ctx)
	if err != nil {
		return fmt.Errorf("packaging failed: %w", err)
	}

	logger.InfoKV(ctx, "Release archive ready", "path", out)

	return nil
}

// run walks the pipeline stages in order and returns the archive path.
func (p *packager) run(ctx context.Context) (string, error) {
	version, err := manifest.ReadVersion(p.cfg.ManifestPath)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Read project version", "version", version)

	located, err := artifact.Locate(p.cfg.BuildRoot, p.cfg.BinaryPath)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Located executable", "path", located)

	dir, binary, err := staging.Assemble(
		p.cfg.WorkRoot, p.cfg.Product, version, p.cfg.Architecture, located)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Staged distribution", "dir", dir)

	relocator := relocate.New(p.cfg.PatchTool, p.cfg.LoaderPaths, p.cfg.ToolTimeout)
	if err = relocator.Relocate(ctx, binary); err != nil {
		return "", err
	}

	p.reportMetadata(ctx, binary)

	return archive.Compress(dir, p.cfg.ArchiveFormat)
}

// reportMetadata logs the linker metadata actually embedded in the shipped
// binary. Informational only: the relocation cascade has already decided
// what is acceptable.
func (p *packager) reportMetadata(ctx context.Context, binary string) {
	meta, err := relocate.Inspect(binary)
	if err != nil {
		logger.DebugKV(ctx, "Could not inspect staged binary", "error", err.Error())

		return
	}

	logger.InfoKV(ctx, "Staged binary metadata",
		"interpreter", meta.Interpreter, "runpath", meta.RunPath)
}
