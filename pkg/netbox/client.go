// Package netbox is a client for the inventory registry REST API: cursor
// paginated reads, create/patch writes with duplicate detection, and
// multipart image attachment.
package netbox

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// Client talks to one registry instance. When Branch is set, every write
// carries a `_branch` query parameter so changes land in that workspace
// instead of main.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	branch   string
	http     *retryablehttp.Client
}

// NewClient builds a client for the API base URL (e.g.
// "https://netbox.example.com/api/").
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
		pageSize = 100
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/") + "/",
		token:    token,
		pageSize: pageSize,
		http:     rc,
	}
}

// SetBranch routes subsequent writes to the named branch workspace.
func (c *Client) SetBranch(branch string) { c.branch = branch }

// StatusError is a non-2xx API response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry API status %d: %s", e.Code, e.Body)
}

// IsDuplicate reports whether the error is the registry rejecting a create
// because the object already exists.
func IsDuplicate(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && strings.Contains(se.Body, "already exists")
}

type listPage struct {
	Results []json.RawMessage `json:"results"`
	Next    *string           `json:"next"`
}

// GetAll paginates a list endpoint, following the next cursor until
// exhausted. Extra query parameters narrow the listing server side.
func (c *Client) GetAll(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("limit") == "" {
		params.Set("limit", strconv.Itoa(c.pageSize))
	}
	next := c.baseURL + strings.TrimLeft(endpoint, "/") + "?" + params.Encode()

	var results []json.RawMessage
	for next != "" {
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", endpoint, err)
		}
		page, err := decodePage(resp)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", endpoint, err)
		}
		results = append(results, page.Results...)
		if page.Next == nil {
			break
		}
		next = *page.Next
	}
	util.Debugf("Fetched %d objects from %s", len(results), endpoint)
	return results, nil
}

func decodePage(resp *http.Response) (*listPage, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, readStatusError(resp)
	}
	var page listPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create posts a new object and returns the created representation.
func (c *Client) Create(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPost, endpoint, payload)
}

// Patch partially updates an existing object.
func (c *Client) Patch(ctx context.Context, endpoint string, payload any) (json.RawMessage, error) {
	return c.write(ctx, http.MethodPatch, endpoint, payload)
}

func (c *Client) write(ctx context.Context, method, endpoint string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.writeURL(endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readStatusError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PatchFile attaches a file to an existing object through a multipart PATCH,
// e.g. elevation images on device types.
func (c *Client) PatchFile(ctx context.Context, endpoint, field, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPatch, c.writeURL(endpoint), buf.Bytes())
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("attaching %s to %s: %w", filename, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readStatusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) writeURL(endpoint string) string {
	u := c.baseURL + strings.TrimLeft(endpoint, "/")
	if c.branch != "" {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "_branch=" + url.QueryEscape(c.branch)
	}
	return u
}

func (c *Client) setHeaders(req *retryablehttp.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
}

func readStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
}

// getAllInto unmarshals every listed object into T, skipping objects that
// fail to decode with a warning.
func getAllInto[T any](ctx context.Context, c *Client, endpoint string, params url.Values) ([]T, error) {
	raws, err := c.GetAll(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			util.Warnf("Skipping malformed %s object: %v", endpoint, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
