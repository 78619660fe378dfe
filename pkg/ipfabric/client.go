// Package ipfabric is a read-only client for the IP Fabric table API. Every
// import starts here: tables are fetched page by page from the latest
// snapshot with explicit column selection.
package ipfabric

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// SnapshotLast selects the most recent discovery snapshot.
const SnapshotLast = "$last"

// Client talks to one IP Fabric instance.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	http     *retryablehttp.Client
}

// NewClient builds a client for the API base URL (e.g.
// "https://ipfabric.example.com/api/v7/"). pageSize bounds each table page.
func NewClient(baseURL, token string, pageSize int, insecure bool) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = 120 * time.Second
	if insecure {
		rc.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	if pageSize <= 0 {
		pageSize = 1000
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/") + "/",
		token:    token,
		pageSize: pageSize,
		http:     rc,
	}
}

type tableRequest struct {
	AttributeFilters map[string]any `json:"attributeFilters"`
	Filters          map[string]any `json:"filters"`
	Snapshot         string         `json:"snapshot"`
	Columns          []string       `json:"columns"`
	Pagination       pagination     `json:"pagination"`
}

type pagination struct {
	Start int `json:"start"`
	Limit int `json:"limit"`
}

type tableResponse struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Count int `json:"count"`
	} `json:"_meta"`
}

// Query selects rows from one table.
type Query struct {
	// Table is the path under the API base, e.g. "tables/inventory/devices".
	Table   string
	Columns []string
	// Filters uses the native filter expression format; nil means no filter.
	Filters map[string]any
}

// FetchTable retrieves every row the query selects, paging until the
// reported row count is exhausted.
func (c *Client) FetchTable(ctx context.Context, q Query) ([]json.RawMessage, error) {
	var rows []json.RawMessage
	start := 0
	for {
		page, count, err := c.fetchPage(ctx, q, start)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		start += c.pageSize
		if start >= count || len(page) == 0 {
			break
		}
	}
	util.Debugf("Fetched %d rows from %s", len(rows), q.Table)
	return rows, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query, start int) ([]json.RawMessage, int, error) {
	filters := q.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	body, err := json.Marshal(tableRequest{
		AttributeFilters: map[string]any{},
		Filters:          filters,
		Snapshot:         SnapshotLast,
		Columns:          q.Columns,
		Pagination:       pagination{Start: start, Limit: c.pageSize},
	})
	if err != nil {
		return nil, 0, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+q.Table, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", q.Table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, 0, fmt.Errorf("querying %s: status %d: %s", q.Table, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, 0, fmt.Errorf("decoding %s response: %w", q.Table, err)
	}
	return tr.Data, tr.Meta.Count, nil
}

// Probe verifies connectivity and authentication against the snapshot list.
func (c *Client) Probe(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"snapshots/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("probing discovery API: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probing discovery API: status %d", resp.StatusCode)
	}
	return nil
}

// fetchInto unmarshals every fetched row into T, skipping rows that fail to
// decode with a warning rather than aborting the run.
func fetchInto[T any](ctx context.Context, c *Client, q Query) ([]T, error) {
	rows, err := c.FetchTable(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, raw := range rows {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			util.Warnf("Skipping malformed %s row: %v", q.Table, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
