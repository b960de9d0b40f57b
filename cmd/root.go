// Package cmd implements the mpx command line. Commands only handle flags and
// arguments and leave the work to pkg/mpx and the internal packages, which
// keeps them usable from the daemon as well as the shell.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	logger "github.com/OpenCHAMI/mpx/internal/log"
	"github.com/OpenCHAMI/mpx/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MPX"

var (
	logLevel     = logger.INFO
	loggingReady bool
)

var rootCmd = &cobra.Command{
	Use:   "mpx",
	Short: "Read and control Liebert MPX PDUs through their web interface",
	Long: "mpx scrapes the web interface of Liebert MPX rack PDUs for receptacle state, " +
		"alarms and measurements, sends control commands and settings, and keeps a cache " +
		"of collected snapshots that can be exported to SMD.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("format") && viper.IsSet("format") {
			if err := outputFormat.Set(viper.GetString("format")); err != nil {
				return fmt.Errorf("invalid output format: %w", err)
			}
		}
		// commands run by the daemon keep the daemon's logger
		if loggingReady {
			return nil
		}
		loggingReady = true
		if viper.IsSet("log-level") {
			if err := logLevel.Set(viper.GetString("log-level")); err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
		}
		return logger.InitWithLogLevel(logLevel, viper.GetString("log-file"))
	},
}

// Execute runs the CLI. It is called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitializeConfig)
	SetDefaults()

	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Set the log level (debug|info|warn|error|disabled|trace)")
	checkBindFlagError(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	checkBindFlagError(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))

	addPersistentFlag("log-file", rootCmd, "log-file", "", "", "Also write logs to this file")
	addPersistentFlag("timeout", rootCmd, "timeout", "t", 30, "Set the request timeout in seconds")
	addPersistentFlag("concurrency", rootCmd, "concurrency", "j", 0, "Set the number of PDUs polled at once (0 means one per host)")
	addPersistentFlag("username", rootCmd, "username", "u", "", "Set the PDU username, overriding stored credentials")
	addPersistentFlag("password", rootCmd, "password", "p", "", "Set the PDU password, overriding stored credentials")
	addPersistentFlag("secrets.file", rootCmd, "secrets-file", "", defaultSecretsFile(), "Set the encrypted credentials file")
	addPersistentFlag("scheme", rootCmd, "scheme", "", "https", "Set the scheme used for bare host arguments")
	addPersistentFlag("insecure", rootCmd, "insecure", "k", false, "Skip TLS certificate verification")
	addPersistentFlag("cacert", rootCmd, "cacert", "", "", "Set the path to a CA certificate for the PDUs and SMD")
	addPersistentFlag("rate-limit", rootCmd, "rate-limit", "", 5.0, "Set the requests per second sent to one PDU")
	addPersistentFlag("rate-burst", rootCmd, "rate-burst", "", 10, "Set the request burst allowed to one PDU")
	addPersistentFlag("cache.driver", rootCmd, "cache-driver", "", "sqlite3", "Set the cache database driver (sqlite3|postgres)")
	addPersistentFlag("cache.dsn", rootCmd, "cache", "", defaultCachePath(), "Set the cache database path or connection string")

	rootCmd.PersistentFlags().VarP(&outputFormat, "format", "F", "Set the output format (list|json|yaml)")
	checkBindFlagError(viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format")))
}

func defaultSecretsFile() string {
	return filepath.Join(util.ConfigDir("mpx"), "secrets.json")
}

func defaultCachePath() string {
	return filepath.Join(os.TempDir(), "mpx", "cache.db")
}

// InitializeConfig reads the config file named by --config, or config.* in
// $XDG_CONFIG_HOME/mpx. Environment variables prefixed with MPX_ override
// both, e.g. MPX_CACHE_DSN for cache.dsn.
func InitializeConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if path := viper.GetString("config"); path != "" {
		dir, name, ext := util.SplitPathForViper(path)
		viper.AddConfigPath(dir)
		viper.SetConfigName(name)
		viper.SetConfigType(ext)
	} else {
		viper.AddConfigPath(util.ConfigDir("mpx"))
		viper.SetConfigName("config")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && viper.GetString("config") == "" {
			return
		}
		log.Error().Err(err).Msg("failed to load config file")
	}
}

// SetDefaults sets the defaults of keys that have no flag.
func SetDefaults() {
	viper.SetDefault("smd.host", "")
	viper.SetDefault("smd.id-map", "")
	viper.SetDefault("daemon.endpoint", "localhost:8080")
	viper.SetDefault("daemon.hosts", []string{})
	viper.SetDefault("daemon.schedule", "")
	viper.SetDefault("daemon.jwks-url", "")
	viper.SetDefault("daemon.retention", "0s")
	viper.SetDefault("collect.details", false)
}
