package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/morrigan-installer/internal/config"
	"github.com/oshokin/morrigan-installer/internal/logger"
)

// errConfigExists is returned by `config init` when the file is already there.
var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

var (
	// forceInit allows `config init` to overwrite an existing file.
	forceInit bool

	// configCmd groups configuration helpers.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the installer configuration",
	}

	// configInitCmd writes the default configuration.
	configInitCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default installer configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if len(args) > 0 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !forceInit {
				return fmt.Errorf("%s: %w", path, errConfigExists)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			logger.InfoKV(cmd.Context(), "Configuration written", "path", path)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}
