package cmd

import (
	"fmt"

	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/spf13/cobra"
)

// The list command shows what earlier collections stored in the cache.
var listCmd = &cobra.Command{
	Use:   "list [hosts...]",
	Short: "List snapshots stored in the cache",
	Long: "Print the snapshots stored by 'mpx collect' or the daemon's scheduled " +
		"collection, optionally only those of the given hosts.",
	Example: "  mpx list\n" +
		"  mpx list pdu-x3000m0 --latest --format yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		latest, _ := cmd.Flags().GetBool("latest")

		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		var snaps collect.Snapshots
		if latest {
			snaps, err = c.LatestSnapshots(args...)
		} else {
			snaps, err = c.GetSnapshots(args...)
		}
		if err != nil {
			return fmt.Errorf("failed to read snapshots: %w", err)
		}
		return printOutput(cmd, snaps)
	},
}

func init() {
	listCmd.Flags().Bool("latest", false, "Only show the most recent snapshot of each host")
	rootCmd.AddCommand(listCmd)
}
