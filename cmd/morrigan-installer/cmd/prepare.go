package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/morrigan-installer/internal/service/prepare"
)

var (
	// prepareOutput overrides the configured output directory.
	prepareOutput string

	// prepareCmd stages resources and installer scripts.
	prepareCmd = &cobra.Command{
		Use:   "prepare",
		Short: "Copy configured resources and installer scripts into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := prepare.Run(cmd.Context(), &prepare.Options{
				ConfigPath: configPath,
				OutputDir:  prepareOutput,
			})

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	prepareCmd.Flags().StringVarP(&prepareOutput, "output", "o", "", "output directory (defaults to output_directory from the config)")
}
