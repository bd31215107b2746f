package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/morrigan-installer/internal/executor"
	"github.com/oshokin/morrigan-installer/internal/service/compiler"
)

var (
	// compileTimeout bounds the NSIS and Inno Setup compilers.
	compileTimeout = compiler.DefaultTimeout

	// nsisCmd builds the NSIS installer.
	nsisCmd = &cobra.Command{
		Use:   "nsis [script]",
		Short: "Build the NSIS installer with makensis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compiler.New(executor.NewExecRunner(), compiler.WithTimeout(compileTimeout)).
				Compile(cmd.Context(), compiler.NSIS(), args[0])
		},
	}

	// innoCmd builds the Inno Setup installer.
	innoCmd = &cobra.Command{
		Use:   "inno [script]",
		Short: "Build the Inno Setup installer with ISCC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compiler.New(executor.NewExecRunner(), compiler.WithTimeout(compileTimeout)).
				Compile(cmd.Context(), compiler.Inno(), args[0])
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	for _, c := range []*cobra.Command{nsisCmd, innoCmd} {
		c.Flags().DurationVar(&compileTimeout, "timeout", compiler.DefaultTimeout, "compiler timeout")
	}
}
