package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/OpenCHAMI/mpx/pkg/mpx"
	"github.com/OpenCHAMI/mpx/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const alarmsPage = `<html><body><div id="DetailPanelArea"><table>
<tr><th>Severity</th><th>Location</th><th>Event</th></tr>
<tr><td><img src="../../../images/warn.png"></td><td>1-2-3</td><td>Receptacle Over Current</td></tr>
</table></div></body></html>`

func newPDUServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var posted []string
	mux := http.NewServeMux()
	mux.HandleFunc(mpx.ActiveAlarmsPath, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "liebert" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, UserAgent, r.UserAgent())
		_, _ = io.WriteString(w, alarmsPage)
	})
	mux.HandleFunc(mpx.ReceptacleCommandPath(mpx.Location{PDU: 1, Branch: 2, Receptacle: 3}), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		posted = append(posted, string(b))
		http.Redirect(w, r, "/rpc/rpcReceptacleListData.htm", http.StatusFound)
	})
	mux.HandleFunc(mpx.PDUCommandPath(1), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &posted
}

func TestPDUClientGetWithBasicAuth(t *testing.T) {
	srv, _ := newPDUServer(t)
	creds := secrets.Credentials{Username: "admin", Password: "liebert"}
	device := mpx.NewDevice(NewPDUClient(srv.URL+"/", creds, nil, nil))

	events, err := device.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mpx.EventList{
		{Severity: mpx.SeverityWarning, Location: mpx.Location{PDU: 1, Branch: 2, Receptacle: 3}, Type: mpx.ReceptacleOverCurrent},
	}, events)

	bad := mpx.NewDevice(NewPDUClient(srv.URL, secrets.Credentials{Username: "admin"}, nil, nil))
	_, err = bad.Events(context.Background())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestPDUClientPostAcceptsRedirect(t *testing.T) {
	srv, posted := newPDUServer(t)
	creds := secrets.Credentials{Username: "admin", Password: "liebert"}
	device := mpx.NewDevice(NewPDUClient(srv.URL, creds, nil, nil))
	loc := mpx.Location{PDU: 1, Branch: 2, Receptacle: 3}

	require.NoError(t, device.ReceptacleEnable(context.Background(), loc))
	require.Len(t, *posted, 1)
	assert.Equal(t, "receptacleStateGroup=1&Submit=Save", (*posted)[0])

	err := device.PDUTestEvent(context.Background(), 1)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestPDUClientsShareHTTPClient(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			http.Redirect(w, r, "/elsewhere", http.StatusSeeOther)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	shared := NewHTTPClient()
	loc := mpx.Location{PDU: 1, Branch: 1, Receptacle: 1}
	var (
		wg   sync.WaitGroup
		errs = make([]error, 8)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			device := mpx.NewDevice(NewPDUClient(srv.URL, secrets.Credentials{}, shared, nil))
			errs[i] = device.ReceptacleReboot(context.Background(), loc)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, len(errs), posts.Load())
	assert.Nil(t, shared.CheckRedirect)
}

func TestPDUClientRespectsContext(t *testing.T) {
	srv, _ := newPDUServer(t)
	// an empty bucket makes every request wait
	limiter := rate.NewLimiter(rate.Every(1e12), 0)
	c := NewPDUClient(srv.URL, secrets.Credentials{}, nil, limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, mpx.ActiveAlarmsPath)
	assert.Error(t, err)
}

func TestNewHTTPClientOptions(t *testing.T) {
	c := NewHTTPClient(WithInsecure(true), WithTimeout(3), WithSecureTLS("/does/not/exist.pem"))
	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Nil(t, transport.TLSClientConfig.RootCAs)
	assert.EqualValues(t, 3, c.Timeout)

	_, err := LoadCertPool("/does/not/exist.pem")
	assert.Error(t, err)
}
