package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/OpenCHAMI/mpx/pkg/secrets"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Default request pacing for a single PDU. The embedded web servers answer
// one request at a time and fall over when hammered.
const (
	DefaultRateLimit = 5
	DefaultRateBurst = 10
)

// PDUClient talks to the web interface of one PDU. It implements
// mpx.Transport.
type PDUClient struct {
	*http.Client
	BaseURL     string
	Credentials secrets.Credentials
	Limiter     *rate.Limiter
}

var _ mpx.Transport = (*PDUClient)(nil)

// NewPDUClient returns a client for the PDU at baseURL. A nil httpClient
// gets one from NewHTTPClient. Redirects are never followed so a redirect
// answer to a form post can be seen as success; httpClient itself is left
// untouched.
func NewPDUClient(baseURL string, creds secrets.Credentials, httpClient *http.Client, limiter *rate.Limiter) *PDUClient {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	// httpClient may be shared between PDUs; the copy keeps its transport
	own := *httpClient
	WithoutRedirects()(&own)
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultRateLimit, DefaultRateBurst)
	}
	return &PDUClient{
		Client:      &own,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Credentials: creds,
		Limiter:     limiter,
	}
}

func (c *PDUClient) host() string {
	if u, err := url.Parse(c.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return c.BaseURL
}

func (c *PDUClient) request(ctx context.Context, method, path string, body HTTPBody, header HTTPHeader) (*http.Response, HTTPBody, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}
	if !c.Credentials.Empty() {
		header["Authorization"] = "Basic " + basicAuth(c.Credentials)
	}
	target := c.BaseURL + path
	start := time.Now()
	res, b, err := MakeRequest(ctx, c.Client, target, method, body, header)
	status := 0
	if res != nil {
		status = res.StatusCode
	}
	recordRequest(c.host(), method, status, time.Since(start))
	log.Debug().Str("method", method).Str("url", target).Int("status", status).Msg("pdu request")
	return res, b, err
}

// Get fetches a page. Anything but a 2xx answer is a *StatusError.
func (c *PDUClient) Get(ctx context.Context, path string) ([]byte, error) {
	res, body, err := c.request(ctx, http.MethodGet, path, nil, HTTPHeader{})
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{Method: http.MethodGet, URL: c.BaseURL + path, Code: res.StatusCode}
	}
	return body, nil
}

// PostForm submits a form. 2xx and 3xx answers are success.
func (c *PDUClient) PostForm(ctx context.Context, path string, form mpx.Form) error {
	header := HTTPHeader{}.ContentType("application/x-www-form-urlencoded")
	res, _, err := c.request(ctx, http.MethodPost, path, HTTPBody(form.Encode()), header)
	if err != nil {
		return err
	}
	if !mpx.Accepted(res.StatusCode) {
		return &StatusError{Method: http.MethodPost, URL: c.BaseURL + path, Code: res.StatusCode}
	}
	return nil
}

func basicAuth(creds secrets.Credentials) string {
	return base64.StdEncoding.EncodeToString([]byte(creds.Username + ":" + creds.Password))
}
