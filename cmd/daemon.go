package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenCHAMI/mpx/internal/collect"
	"github.com/OpenCHAMI/mpx/pkg/client"
	"github.com/OpenCHAMI/mpx/pkg/daemon"
	"github.com/lestrrat-go/jwx/jwk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The daemon command launches a long-running server that exposes all other
// commands as HTTP endpoints.
var daemonCmd = &cobra.Command{
	Use: "daemon",
	Example: `  // basic launch
  mpx daemon
  // collect from two PDUs every five minutes and keep a day of snapshots
  mpx daemon --schedule "@every 5m" --hosts pdu-x3000m0,pdu-x3000m1 --retention 24h
  // require tokens signed by a key in the JWKS
  mpx daemon --jwks-url https://opaal.openchami.cluster/keys`,
	Short: "Launch a long-running web server, e.g. for container use",
	Long: "Exposes all other commands as HTTP endpoints, so that mpx functionality can be " +
		"controlled remotely by authorized users. GET on a command path shows its help and " +
		"POST runs it with one argument per body line. Metrics are served on /metrics.",
	Args: cobra.NoArgs,
}

// runDaemon is daemonCmd's RunE; it is attached in init to avoid an
// initialization cycle through daemonExcludes.
func runDaemon(cmd *cobra.Command, args []string) error {
	client.RegisterMetrics()
	collect.RegisterMetrics()

	config := daemon.Config{
		Endpoint: viper.GetString("daemon.endpoint"),
		Schedule: viper.GetString("daemon.schedule"),
		Job:      scheduledCollection,
	}
	if url := viper.GetString("daemon.jwks-url"); url != "" {
		set, err := fetchKeySet(cmd.Context(), url)
		if err != nil {
			return err
		}
		config.KeySet = set
	}
	config.Exclude = daemonExcludes(config.KeySet != nil)
	if config.KeySet == nil {
		log.Warn().Msg("no JWKS configured, secrets endpoints are not served")
	}
	server, err := daemon.New(rootCmd, config)
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}

// daemonExcludes lists the top-level commands the daemon does not serve.
// Serving the daemon command itself would recurse, and stored credentials
// are only reachable with token authentication.
func daemonExcludes(authenticated bool) []string {
	excludes := []string{daemonCmd.Name()}
	if !authenticated {
		excludes = append(excludes, secretsCmd.Name())
	}
	return excludes
}

func fetchKeySet(ctx context.Context, url string) (jwk.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(viper.GetInt("timeout"))*time.Second)
	defer cancel()
	set, err := daemon.FetchKeySet(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", url, err)
	}
	return set, nil
}

// scheduledCollection collects from daemon.hosts into the cache and prunes
// snapshots older than daemon.retention.
func scheduledCollection(ctx context.Context) error {
	hosts := viper.GetStringSlice("daemon.hosts")
	if len(hosts) == 0 {
		log.Warn().Msg("no daemon hosts configured, skipping collection")
		return nil
	}
	if _, err := collectHosts(ctx, hosts, true); err != nil {
		return err
	}

	retention := viper.GetDuration("daemon.retention")
	if retention <= 0 {
		return nil
	}
	c, err := openCache()
	if err != nil {
		return err
	}
	defer c.Close()
	n, err := c.DeleteSnapshotsBefore(time.Now().Add(-retention))
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	log.Debug().Int64("count", n).Msg("pruned snapshots")
	return nil
}

func init() {
	daemonCmd.RunE = runDaemon
	addFlag("daemon.endpoint", daemonCmd, "endpoint", "e", "localhost:8080", "Root endpoint for the daemon to listen on")
	addFlag("daemon.schedule", daemonCmd, "schedule", "", "", "Set a cron spec for collecting from --hosts, e.g. '@every 5m'")
	addFlag("daemon.hosts", daemonCmd, "hosts", "", []string{}, "Set the PDUs collected on schedule")
	addFlag("daemon.retention", daemonCmd, "retention", "", "0s", "Remove scheduled snapshots older than this duration (0 keeps all)")
	addFlag("daemon.jwks-url", daemonCmd, "jwks-url", "", "", "Require bearer tokens signed by a key from this JWKS URL")
	rootCmd.AddCommand(daemonCmd)
}
