package url

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const DefaultScheme = "https"

func Sanitize(uri string) (string, error) {
	parsedURI, err := url.ParseRequestURI(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse URI: %w", err)
	}
	parsedURI.Path = strings.TrimSuffix(parsedURI.Path, "/")
	parsedURI.Path = strings.ReplaceAll(parsedURI.Path, "//", "/")
	return parsedURI.String(), nil
}

// BaseURL turns a host argument into the root URL of its web interface. The
// argument may be a bare host, host:port or a full URL; bare hosts get scheme,
// or https when scheme is empty.
func BaseURL(host, scheme string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("host is empty")
	}
	if scheme == "" {
		scheme = DefaultScheme
	}
	if !strings.Contains(host, "://") {
		host = scheme + "://" + host
	}
	uri, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("failed to parse host: %w", err)
	}
	if uri.Host == "" {
		return "", fmt.Errorf("no host in %q", host)
	}
	uri.Path = ""
	uri.RawQuery = ""
	uri.Fragment = ""
	return uri.String(), nil
}

// Hostname reduces a host argument to host[:port], the key used for stored
// credentials and cached snapshots.
func Hostname(host string) string {
	base, err := BaseURL(host, "")
	if err != nil {
		return host
	}
	uri, err := url.Parse(base)
	if err != nil {
		return host
	}
	return uri.Host
}

// FormatHosts builds base URLs for every host argument, dropping (and logging)
// the ones that cannot be parsed.
func FormatHosts(hosts []string, scheme string) []string {
	formatted := make([]string, 0, len(hosts))
	for _, host := range hosts {
		base, err := BaseURL(host, scheme)
		if err != nil {
			log.Warn().Err(err).Str("host", host).Msg("skipping invalid host")
			continue
		}
		formatted = append(formatted, base)
	}
	return formatted
}
