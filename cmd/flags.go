package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type flagValue interface {
	~string | ~int | ~bool | ~float64 | ~[]string
}

// addFlag defines a local flag on cmd and binds it to the viper key, so the
// value can come from the flag, the environment or the config file.
func addFlag[T flagValue](key string, cmd *cobra.Command, name, shorthand string, value T, usage string) {
	defineFlag(cmd.Flags(), name, shorthand, value, usage)
	checkBindFlagError(viper.BindPFlag(key, cmd.Flags().Lookup(name)))
}

// addPersistentFlag is addFlag for flags inherited by subcommands.
func addPersistentFlag[T flagValue](key string, cmd *cobra.Command, name, shorthand string, value T, usage string) {
	defineFlag(cmd.PersistentFlags(), name, shorthand, value, usage)
	checkBindFlagError(viper.BindPFlag(key, cmd.PersistentFlags().Lookup(name)))
}

func defineFlag[T flagValue](flags *pflag.FlagSet, name, shorthand string, value T, usage string) {
	switch v := any(value).(type) {
	case string:
		flags.StringP(name, shorthand, v, usage)
	case int:
		flags.IntP(name, shorthand, v, usage)
	case bool:
		flags.BoolP(name, shorthand, v, usage)
	case float64:
		flags.Float64P(name, shorthand, v, usage)
	case []string:
		flags.StringSliceP(name, shorthand, v, usage)
	}
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}
