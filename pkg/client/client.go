package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is an inventory service that collected records can be sent to.
type Client interface {
	Name() string
	RootEndpoint(endpoint string) string
	GetInternalClient() *http.Client

	// functions needed to make request
	Add(ctx context.Context, data HTTPBody, headers HTTPHeader) error
	Update(ctx context.Context, data HTTPBody, headers HTTPHeader) error
}

// Option configures the *http.Client built by NewHTTPClient.
type Option func(client *http.Client)

// NewHTTPClient builds an HTTP client with its own transport so options
// never touch http.DefaultTransport.
func NewHTTPClient(opts ...Option) *http.Client {
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   30 * time.Second,
			ResponseHeaderTimeout: 60 * time.Second,
			MaxIdleConnsPerHost:   2,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func tlsConfig(client *http.Client) *tls.Config {
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		log.Warn().Msgf("cannot set TLS options on transport %T", client.Transport)
		return &tls.Config{}
	}
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	}
	return transport.TLSClientConfig
}

func WithTimeout(timeout time.Duration) Option {
	return func(client *http.Client) {
		client.Timeout = timeout
	}
}

// WithInsecure skips certificate verification. PDU web interfaces commonly
// ship with self-signed certificates.
func WithInsecure(insecure bool) Option {
	return func(client *http.Client) {
		tlsConfig(client).InsecureSkipVerify = insecure
	}
}

func WithCertPool(certPool *x509.CertPool) Option {
	if certPool == nil {
		return func(*http.Client) {}
	}
	return func(client *http.Client) {
		tlsConfig(client).RootCAs = certPool
	}
}

// WithSecureTLS trusts the CA certificates in the PEM file at certPath.
func WithSecureTLS(certPath string) Option {
	if certPath == "" {
		return func(*http.Client) {}
	}
	pool, err := LoadCertPool(certPath)
	if err != nil {
		log.Warn().Err(err).Str("path", certPath).Msg("continuing with system CAs")
		return func(*http.Client) {}
	}
	return WithCertPool(pool)
}

// WithoutRedirects returns redirect responses to the caller instead of
// following them.
func WithoutRedirects() Option {
	return func(client *http.Client) {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
}

func LoadCertPool(certPath string) (*x509.CertPool, error) {
	cacert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(cacert) {
		return nil, fmt.Errorf("no certificates found in %s", certPath)
	}
	return pool, nil
}

// Send adds data to the service behind c, retrying as an update when
// forceUpdate is set and the add is refused.
func Send(ctx context.Context, c Client, data HTTPBody, headers HTTPHeader, forceUpdate bool) error {
	err := c.Add(ctx, data, headers)
	if err == nil || !forceUpdate {
		return err
	}
	log.Debug().Err(err).Str("client", c.Name()).Msg("add failed, updating instead")
	return c.Update(ctx, data, headers)
}
