package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/service/probe"
)

var (
	// probeTimeout bounds the installer probe.
	probeTimeout = probe.DefaultTimeout

	// validateCmd checks that an installer starts.
	validateCmd = &cobra.Command{
		Use:   "validate [installer]",
		Short: "Check that an installer runs with " + probe.QueryFlag,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return probe.New(executor.NewExecRunner(), probeTimeout).Validate(cmd.Context(), args[0])
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	validateCmd.Flags().DurationVar(&probeTimeout, "timeout", probe.DefaultTimeout, "probe timeout")
}
