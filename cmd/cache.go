package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage snapshots in the cache",
}

var cacheRemoveCmd = &cobra.Command{
	Use:   "remove [hosts...]",
	Short: "Remove snapshots from the cache",
	Long: "Remove the snapshots of the given hosts, the snapshots older than --before, " +
		"or with --all every snapshot.",
	Example: "  mpx cache remove pdu-x3000m0\n" +
		"  mpx cache remove --before 168h\n" +
		"  mpx cache remove --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		before, _ := cmd.Flags().GetDuration("before")
		if !all && len(args) == 0 && before <= 0 {
			return fmt.Errorf("no hosts given; use --all to remove every snapshot")
		}
		if len(args) > 0 && (all || before > 0) {
			return fmt.Errorf("hosts cannot be combined with --all or --before")
		}

		c, err := openCache()
		if err != nil {
			return err
		}
		defer c.Close()

		var n int64
		switch {
		case before > 0:
			n, err = c.DeleteSnapshotsBefore(time.Now().Add(-before))
		default:
			n, err = c.DeleteSnapshots(args...)
		}
		if err != nil {
			return fmt.Errorf("failed to remove snapshots: %w", err)
		}
		log.Info().Int64("count", n).Msg("removed snapshots from cache")
		return nil
	},
}

func init() {
	cacheRemoveCmd.Flags().Bool("all", false, "Remove every snapshot")
	cacheRemoveCmd.Flags().Duration("before", 0, "Remove snapshots older than this duration")
	cacheCmd.AddCommand(cacheRemoveCmd)
	rootCmd.AddCommand(cacheCmd)
}
