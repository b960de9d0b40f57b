package cmd

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/OpenCHAMI/mpx/internal/format"
	urlx "github.com/OpenCHAMI/mpx/internal/url"
	"github.com/OpenCHAMI/mpx/pkg/client"
	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/OpenCHAMI/mpx/pkg/secrets"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

var outputFormat = format.FORMAT_LIST

// newHTTPClient applies the timeout and TLS flags.
func newHTTPClient() *http.Client {
	opts := []client.Option{
		client.WithTimeout(time.Duration(viper.GetInt("timeout")) * time.Second),
		client.WithInsecure(viper.GetBool("insecure")),
	}
	if cacert := viper.GetString("cacert"); cacert != "" {
		opts = append(opts, client.WithSecureTLS(cacert))
	}
	return client.NewHTTPClient(opts...)
}

// openSecretStore returns the encrypted store named by --secrets-file. Without
// a master key the store cannot be opened, and only the credential flags are
// used.
func openSecretStore() secrets.SecretStore {
	store, err := secrets.OpenStore(viper.GetString("secrets.file"))
	if err != nil {
		log.Debug().Err(err).Msg("secret store unavailable, using credential flags only")
		return secrets.NewStaticStore(viper.GetString("username"), viper.GetString("password"))
	}
	return store
}

// deviceFactory returns a function building a Device per host. Credentials
// from the flags take precedence over the host entry, which takes precedence
// over the default entry.
func deviceFactory() func(host string) (*mpx.Device, error) {
	var (
		store    = openSecretStore()
		override = secrets.Credentials{
			Username: viper.GetString("username"),
			Password: viper.GetString("password"),
		}
		httpClient = newHTTPClient()
		scheme     = viper.GetString("scheme")
		limit      = rate.Limit(viper.GetFloat64("rate-limit"))
		burst      = viper.GetInt("rate-burst")
	)
	return func(host string) (*mpx.Device, error) {
		baseURL, err := urlx.BaseURL(host, scheme)
		if err != nil {
			return nil, err
		}
		creds, err := secrets.Resolve(store, urlx.Hostname(host), override)
		if err != nil {
			return nil, fmt.Errorf("failed to get credentials for %s: %w", host, err)
		}
		if creds.Empty() {
			log.Warn().Str("host", host).Msg("no credentials found, requests will be anonymous")
		}
		limiter := rate.NewLimiter(limit, burst)
		return mpx.NewDevice(client.NewPDUClient(baseURL, creds, httpClient, limiter)), nil
	}
}

func newDevice(host string) (*mpx.Device, error) {
	return deviceFactory()(host)
}

// printOutput writes data in the --format format. Values without a table
// form are printed as YAML when the list format is selected.
func printOutput(cmd *cobra.Command, data any) error {
	f := outputFormat
	if f == format.FORMAT_LIST {
		if _, ok := data.(format.Lister); !ok {
			b, err := yaml.Marshal(data)
			if err != nil {
				return fmt.Errorf("failed to marshal output: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		}
	}
	b, err := format.Marshal(data, f)
	if err != nil {
		return err
	}
	if f == format.FORMAT_JSON {
		b = append(b, '\n')
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

// parseLocationArg parses a location given on the command line. The trailing
// components may be left out, so "1" names PDU 1 and "1-2" its second branch.
// The location must address an entity at level.
func parseLocationArg(s string, level mpx.Level) (mpx.Location, error) {
	padded := s
	for strings.Count(padded, "-") < 2 {
		padded += "-0"
	}
	loc, err := mpx.ParseLocation(padded)
	if err != nil {
		return mpx.Location{}, fmt.Errorf("invalid location %q: %w", s, err)
	}
	if loc.PDU == 0 || (loc.Branch == 0 && loc.Receptacle != 0) {
		return mpx.Location{}, fmt.Errorf("invalid location %q: components start at 1", s)
	}
	if loc.Level() != level {
		return mpx.Location{}, fmt.Errorf("location %q addresses a %s, expected a %s", s, loc.Level(), level)
	}
	return loc, nil
}
