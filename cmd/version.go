package cmd

import (
	"fmt"

	"github.com/OpenCHAMI/mpx/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of mpx",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if all {
			if cmd.Flags().Changed("format") {
				return printOutput(cmd, version.Get())
			}
			version.PrintVersionInfo(cmd.OutOrStdout())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.VersionInfo())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("all", false, "Show all build information")
	rootCmd.AddCommand(versionCmd)
}
