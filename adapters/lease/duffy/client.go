// Package duffy is a client for the Duffy host-leasing service.
package duffy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yaegashi/octops/domain/model"
)

// apiVersion is the "ver" parameter of Node/get and selects the distro
// release of the leased host.
const apiVersion = "7"

// Inventory row columns.
const (
	colHostname = 1
	colIP       = 2
	colArch     = 10
	colFlavor   = 13
	rowLen      = 14
)

// Client is a minimal Duffy API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type nodeGetResponse struct {
	Hosts []string `json:"hosts"`
	SSID  string   `json:"ssid"`
}

// NewClient creates a new Duffy API client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Request leases one host of the given architecture and flavor.
func (c *Client) Request(ctx context.Context, arch model.Architecture, flavor model.Flavor) ([]string, string, error) {
	q := url.Values{}
	q.Set("ver", apiVersion)
	q.Set("arch", string(arch))
	q.Set("flavor", string(flavor))
	q.Set("count", "1")

	var resp nodeGetResponse
	if err := c.get(ctx, "/Node/get", q, &resp); err != nil {
		return nil, "", &model.ExternalError{Op: "duffy Node/get", Err: err}
	}
	if len(resp.Hosts) == 0 || resp.SSID == "" {
		return nil, "", &model.ExternalError{Op: "duffy Node/get", Err: errors.New("no hosts leased")}
	}
	return resp.Hosts, resp.SSID, nil
}

// Inventory returns per-host properties of the hosts in a lease.
func (c *Client) Inventory(ctx context.Context, leaseID string) (map[string]model.HostProperties, error) {
	q := url.Values{}
	q.Set("ssid", leaseID)

	var rows [][]any
	if err := c.get(ctx, "/Inventory", q, &rows); err != nil {
		return nil, &model.ExternalError{Op: "duffy Inventory", Err: err}
	}
	out := make(map[string]model.HostProperties, len(rows))
	for _, row := range rows {
		if len(row) < rowLen {
			continue
		}
		host := column(row, colHostname)
		if host == "" {
			continue
		}
		out[host] = model.HostProperties{
			Architecture: model.Architecture(column(row, colArch)),
			Flavor:       model.Flavor(column(row, colFlavor)),
			Address:      column(row, colIP),
		}
	}
	return out, nil
}

// Release returns the hosts of a lease to the pool.
func (c *Client) Release(ctx context.Context, leaseID string) error {
	q := url.Values{}
	q.Set("ssid", leaseID)
	if err := c.get(ctx, "/Node/done", q, nil); err != nil {
		return &model.ExternalError{Op: "duffy Node/done", Err: err}
	}
	return nil
}

func column(row []any, i int) string {
	switch v := row[i].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	q.Set("key", c.apiKey)
	return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
}

// get performs a GET and decodes the JSON body into out. Duffy reports
// failures as a plain text body, so a body that is not JSON is returned
// as the error message.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := c.newRequest(ctx, path, q)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return redact(err, c.apiKey)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.New(strings.TrimSpace(string(body)))
	}
	return nil
}

// redact strips the API key from transport errors, which embed the URL.
func redact(err error, key string) error {
	if key == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

var _ model.LeasePort = (*Client)(nil)
