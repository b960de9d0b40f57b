package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"sort"

	"github.com/OpenCHAMI/mpx/pkg/secrets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var secretsCmd = &cobra.Command{
	Use: "secrets",
	Example: `  // generate new key and set environment variable
  export MASTER_KEY=$(mpx secrets generatekey)

  // store credentials used by every PDU without its own entry
  mpx secrets store default admin:secret

  // store credentials of one PDU in a specific secrets file
  mpx secrets store pdu-x3000m0 admin:other --secrets-file pdus.json

  // retrieve and list
  mpx secrets retrieve pdu-x3000m0
  mpx secrets list`,
	Short: "Manage credentials for PDU web interfaces",
	Long: "Manage the credentials used to log in to each PDU's web interface. Secrets are " +
		"keyed by host; the 'default' entry is used for hosts without one. This requires " +
		"generating a key and setting the 'MASTER_KEY' environment variable.",
}

var secretsGenerateKeyCmd = &cobra.Command{
	Use:   "generatekey",
	Args:  cobra.NoArgs,
	Short: "Generates a new 32-byte master key (in hex).",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := secrets.GenerateMasterKey()
		if err != nil {
			return fmt.Errorf("failed to generate master key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

// readCredentials decodes value in the given input format.
func readCredentials(value, inputFormat string) (secrets.Credentials, error) {
	switch inputFormat {
	case "basic":
		return secrets.ParseBasic(value)
	case "base64":
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return secrets.Credentials{}, fmt.Errorf("failed to decode base64 data: %w", err)
		}
		return secrets.DecodeCredentials(string(decoded))
	case "json":
		return secrets.DecodeCredentials(value)
	default:
		return secrets.Credentials{}, fmt.Errorf("unknown input format %q (basic|json|base64)", inputFormat)
	}
}

var secretsStoreCmd = &cobra.Command{
	Use:   "store <host|default> [username:password]",
	Args:  cobra.RangeArgs(1, 2),
	Short: "Stores the credentials of a host.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			secretID       = args[0]
			inputFormat, _ = cmd.Flags().GetString("input-format")
			inputFile, _   = cmd.Flags().GetString("input-file")
			value          string
		)
		switch {
		case len(args) > 1 && inputFile != "":
			return fmt.Errorf("cannot use -i/--input-file with positional argument")
		case len(args) > 1:
			value = args[1]
		case inputFile != "":
			b, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			value = string(b)
		default:
			return fmt.Errorf("no input data or file")
		}

		creds, err := readCredentials(value, inputFormat)
		if err != nil {
			return err
		}
		if creds.Username == "" {
			return fmt.Errorf("credentials have no username")
		}
		secret, err := creds.Encode()
		if err != nil {
			return err
		}
		store, err := secrets.OpenStore(viper.GetString("secrets.file"))
		if err != nil {
			return err
		}
		if err := store.StoreSecretByID(secretID, secret); err != nil {
			return fmt.Errorf("failed to store secret by ID: %w", err)
		}
		return nil
	},
}

var secretsRetrieveCmd = &cobra.Command{
	Use:   "retrieve <host|default>",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the credentials stored for a host.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.OpenStore(viper.GetString("secrets.file"))
		if err != nil {
			return err
		}
		secret, err := store.GetSecretByID(args[0])
		if err != nil {
			return fmt.Errorf("failed to retrieve secret: %w", err)
		}
		creds, err := secrets.DecodeCredentials(secret)
		if err != nil {
			return err
		}
		return printOutput(cmd, creds)
	},
}

var secretsListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "Lists all the secret IDs and their sealed values.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.OpenStore(viper.GetString("secrets.file"))
		if err != nil {
			return err
		}
		sealed, err := store.ListSecrets()
		if err != nil {
			return fmt.Errorf("failed to list secrets: %w", err)
		}
		ids := make([]string, 0, len(sealed))
		for id := range sealed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, sealed[id])
		}
		return nil
	},
}

var secretsRemoveCmd = &cobra.Command{
	Use:   "remove <hosts...>",
	Args:  cobra.MinimumNArgs(1),
	Short: "Remove secrets by host from the secret store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := secrets.OpenStore(viper.GetString("secrets.file"))
		if err != nil {
			return err
		}
		for _, secretID := range args {
			if err := store.RemoveSecretByID(secretID); err != nil {
				return fmt.Errorf("failed to remove secret: %w", err)
			}
		}
		return nil
	},
}

func init() {
	secretsStoreCmd.Flags().StringP("input-format", "I", "basic", "Set the input format of the credentials (basic|json|base64)")
	secretsStoreCmd.Flags().StringP("input-file", "i", "", "Set the file to read the credentials from")

	secretsCmd.AddCommand(secretsGenerateKeyCmd, secretsStoreCmd, secretsRetrieveCmd, secretsListCmd, secretsRemoveCmd)
	rootCmd.AddCommand(secretsCmd)
}
