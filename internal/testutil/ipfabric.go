//go:build integration || e2e

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Token is the API token both fakes expect.
const Token = "test-token"

// FakeIPFabric serves table queries from fixed row sets. Tables are keyed by
// their path under the API base, e.g. "tables/inventory/sites". Unknown
// tables return an empty result, matching an instance with no data.
type FakeIPFabric struct {
	Server *httptest.Server

	mu     sync.Mutex
	tables map[string][]any
	hits   map[string]int
}

// NewFakeIPFabric starts the fake. The server is shut down via t.Cleanup.
func NewFakeIPFabric(t *testing.T) *FakeIPFabric {
	t.Helper()
	f := &FakeIPFabric{
		tables: make(map[string][]any),
		hits:   make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL returns the API base the ipfabric client should be pointed at.
func (f *FakeIPFabric) BaseURL() string { return f.Server.URL + "/" }

// SetTable replaces the rows of one table.
func (f *FakeIPFabric) SetTable(table string, rows ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = rows
}

// Hits returns how many page requests a table received.
func (f *FakeIPFabric) Hits(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[table]
}

func (f *FakeIPFabric) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-API-Token") != Token {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/")
	if r.Method == http.MethodGet && table == "snapshots/" {
		w.Write([]byte("[]"))
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Pagination struct {
			Start int `json:"start"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	rows := f.tables[table]
	f.hits[table]++
	f.mu.Unlock()

	start, limit := req.Pagination.Start, req.Pagination.Limit
	if start > len(rows) {
		start = len(rows)
	}
	end := start + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}

	resp := map[string]any{
		"data":  rows[start:end],
		"_meta": map[string]any{"count": len(rows)},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
