package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenCHAMI/mpx/internal/cache"
	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var collectCmd = &cobra.Command{
	Use:   "collect <hosts...>",
	Short: "Poll PDUs for receptacle state and active events",
	Long: "Poll every host concurrently for its receptacle list and active events and store " +
		"a snapshot per host in the cache. Hosts that cannot be read get a snapshot with " +
		"the error so 'mpx list' shows them too.",
	Example: "  mpx collect pdu-x3000m0 pdu-x3000m1 --details\n" +
		"  mpx collect pdu-x3000m0 --no-cache --format json",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noCache, _ := cmd.Flags().GetBool("no-cache")
		snaps, err := collectHosts(cmd.Context(), args, !noCache)
		if err != nil {
			return err
		}
		return printOutput(cmd, snaps)
	},
}

// collectParams reads the collection settings from the flags and config.
func collectParams() collect.Params {
	return collect.Params{
		Concurrency: viper.GetInt("concurrency"),
		Timeout:     time.Duration(viper.GetInt("timeout")) * time.Second,
		Details:     viper.GetBool("collect.details"),
	}
}

// collectHosts polls hosts and, when store is set, saves the snapshots in the
// cache. Failed polls are logged and kept.
func collectHosts(ctx context.Context, hosts []string, store bool) (collect.Snapshots, error) {
	snaps := collect.Collect(ctx, hosts, deviceFactory(), collectParams())
	for _, s := range snaps {
		if s.Failed() {
			log.Error().Str("host", s.Host).Str("error", s.Error).Msg("failed to collect from PDU")
		}
	}
	if !store {
		return snaps, nil
	}

	c, err := openCache()
	if err != nil {
		return snaps, err
	}
	defer c.Close()
	if err := c.InsertSnapshots(snaps...); err != nil {
		return snaps, fmt.Errorf("failed to store snapshots: %w", err)
	}
	log.Debug().Int("count", len(snaps)).Msg("stored snapshots in cache")
	return snaps, nil
}

// openCache opens the cache named by --cache-driver and --cache and makes
// sure its tables exist.
func openCache() (*cache.Cache, error) {
	c, err := cache.Open(viper.GetString("cache.driver"), viper.GetString("cache.dsn"))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if err := c.CreateTablesIfNotExists(); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create cache tables: %w", err)
	}
	return c, nil
}

func init() {
	collectCmd.Flags().Bool("no-cache", false, "Print the snapshots without storing them")
	addFlag("collect.details", collectCmd, "details", "", false, "Also read the info page of the first PDU on each host")
	rootCmd.AddCommand(collectCmd)
}
