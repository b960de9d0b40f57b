package client

// See ref for API docs:
//	https://github.com/OpenCHAMI/hms-smd/blob/master/docs/examples.adoc
//	https://github.com/OpenCHAMI/hms-smd
import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SmdClient registers PDU controllers with the State Management Database.
type SmdClient struct {
	*http.Client
	URI string
	// Xname is the endpoint ID Update replaces.
	Xname string
}

func (c SmdClient) Name() string {
	return "smd"
}

func (c SmdClient) RootEndpoint(endpoint string) string {
	return fmt.Sprintf("%s/hsm/v2%s", c.URI, endpoint)
}

func (c SmdClient) GetInternalClient() *http.Client {
	return c.Client
}

func (c SmdClient) do(ctx context.Context, method, url string, data HTTPBody, headers HTTPHeader) error {
	if data == nil {
		return fmt.Errorf("no data found")
	}
	res, body, err := MakeRequest(ctx, c.Client, url, method, data, headers)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &StatusError{Method: method, URL: url, Code: res.StatusCode, Body: string(body)}
	}
	log.Debug().Msgf("%v (%v)\n%s\n", url, res.Status, string(body))
	return nil
}

// Add POSTs a new endpoint to /Inventory/RedfishEndpoints.
func (c SmdClient) Add(ctx context.Context, data HTTPBody, headers HTTPHeader) error {
	return c.do(ctx, http.MethodPost, c.RootEndpoint("/Inventory/RedfishEndpoints"), data, headers)
}

// Update PUTs over the endpoint named by Xname.
func (c SmdClient) Update(ctx context.Context, data HTTPBody, headers HTTPHeader) error {
	if c.Xname == "" {
		return fmt.Errorf("no xname set for update")
	}
	return c.do(ctx, http.MethodPut, c.RootEndpoint("/Inventory/RedfishEndpoints/"+c.Xname), data, headers)
}
