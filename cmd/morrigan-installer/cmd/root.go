package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/domain/build"
	"github.com/oshokin/morrigan-installer/internal/logger"
	"github.com/oshokin/morrigan-installer/internal/service/packager"
	"github.com/oshokin/morrigan-installer/internal/version"
)

var (
	// configPath to the installer configuration file.
	configPath string
	// logLevel is the minimum level of printed messages.
	logLevel string
	// logFile is an optional rotating log file.
	logFile string

	// buildOptions collects the flags of the MSI build.
	buildOptions = &packager.Options{}

	// rootCmd builds the MSI installer.
	rootCmd = &cobra.Command{
		Use:   "morrigan-installer",
		Short: "Build the Morrigan MSI installer with the WiX Toolset",
		Long: `Build the Morrigan MSI installer.

The WiX Toolset is located (v3 candle/light or v4+ wix, installed on demand through
the .NET SDK when possible), the WiX source template is filled with fresh component
identifiers and the product configuration, and the installer is written into the
configured output directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Configure(logLevel, logFile); err != nil {
				return err
			}

			logger.DebugKV(cmd.Context(), "Starting", version.Fields()...)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			buildOptions.ConfigPath = configPath

			return packager.Run(cmd.Context(), buildOptions).Err
		},
	}
)

// Execute runs the morrigan-installer CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		logger.Error(ctx, err)

		if hint := build.HintOf(err); hint != "" {
			logger.Info(ctx, hint)
		}

		logger.Sync()
		os.Exit(1)
	}

	logger.Sync()
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to installer configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this rotating file")

	rootCmd.Flags().StringVarP(&buildOptions.BuildDir, "build-dir", "b", packager.DefaultBuildDir, "folder holding the built application")
	rootCmd.Flags().StringVarP(&buildOptions.TemplatePath, "template", "t", "", "WiX source template (defaults to the embedded one)")
	rootCmd.Flags().StringVarP(&buildOptions.WorkDir, "work-dir", "w", ".", "folder for transient WiX files")
	rootCmd.Flags().StringVar(&buildOptions.ReportPath, "report", "", "write a JSON build report to this file")

	rootCmd.AddCommand(nsisCmd, innoCmd, validateCmd, prepareCmd, configCmd)
}
