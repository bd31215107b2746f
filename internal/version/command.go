package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersionCommand attaches a `version` subcommand to the provided root command.
// It prints detailed build info, or only the version with --short.
func AttachCobraVersionCommand(root *cobra.Command) {
	var short bool

	// Subcommand: `version`.
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print version information including the commit hash, build timestamp and the platform the binary was built for. Release builds inject these values from Git tags and repository state.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			text := Full()
			if short {
				text = Short()
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
		},
	}

	versionCmd.Flags().BoolVar(&short, "short", false, "print only the version number")

	root.AddCommand(versionCmd)
}
