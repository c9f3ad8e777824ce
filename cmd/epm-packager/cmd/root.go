package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eve-preview-manager/packager/internal/config"
	"github.com/eve-preview-manager/packager/internal/logger"
	"github.com/eve-preview-manager/packager/internal/service/packager"
	"github.com/eve-preview-manager/packager/internal/version"
)

var (
	// configPath to the pipeline settings YAML file.
	configPath string

	// workRoot overrides the configured output directory.
	workRoot string

	// logLevel sets the minimum level for console output.
	logLevel string

	// rootCmd represents the base command packaging a compiled build into a release archive.
	rootCmd = &cobra.Command{
		Use:   "epm-packager",
		Short: "Package a compiled build into a portable release archive",
		Long: "Package the externally compiled application binary into a versioned, " +
			"relocated, compressed release archive ready for distribution outside " +
			"the build environment.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			options := &packager.Options{
				ConfigPath: configPath,
				WorkRoot:   workRoot,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the epm-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+")")
	rootCmd.Flags().StringVarP(&workRoot, "work-dir", "w", "", "output directory for staged and archived artifacts")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "minimum log level (debug, info, warn, error)")
}
