//go:build integration || e2e

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeNetBox serves list endpoints from fixed object sets and records every
// write. Creates enforce name uniqueness per endpoint the way the real API
// does, so duplicate handling is exercised end to end.
type FakeNetBox struct {
	Server *httptest.Server

	mu      sync.Mutex
	lists   map[string][]any
	created map[string][]map[string]any
	patched map[string][]map[string]any
	nextID  int
}

// NewFakeNetBox starts the fake. The server is shut down via t.Cleanup.
func NewFakeNetBox(t *testing.T) *FakeNetBox {
	t.Helper()
	f := &FakeNetBox{
		lists:   make(map[string][]any),
		created: make(map[string][]map[string]any),
		patched: make(map[string][]map[string]any),
		nextID:  100,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL returns the API base the netbox client should be pointed at.
func (f *FakeNetBox) BaseURL() string { return f.Server.URL + "/" }

// SetList replaces the objects a list endpoint returns, e.g.
// SetList("dcim/devices/", obj1, obj2).
func (f *FakeNetBox) SetList(endpoint string, objects ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[strings.Trim(endpoint, "/")] = objects
}

// Created returns the payloads posted to an endpoint, in order.
func (f *FakeNetBox) Created(endpoint string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.created[strings.Trim(endpoint, "/")]...)
}

// Patched returns the payloads patched onto one object path, e.g.
// Patched("dcim/devices/42/").
func (f *FakeNetBox) Patched(path string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.patched[strings.Trim(path, "/")]...)
}

func (f *FakeNetBox) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Token "+Token {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	path := strings.Trim(r.URL.Path, "/")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		f.mu.Lock()
		objects := f.lists[path]
		f.mu.Unlock()
		if objects == nil {
			objects = []any{}
		}
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(objects),
			"next":    nil,
			"results": objects,
		})

	case http.MethodPost:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		if name, ok := payload["name"].(string); ok {
			for _, prev := range f.created[path] {
				if prev["name"] == name {
					f.mu.Unlock()
					w.WriteHeader(http.StatusBadRequest)
					fmt.Fprintf(w, `{"name": ["An object with this name already exists."]}`)
					return
				}
			}
		}
		f.nextID++
		id := f.nextID
		f.created[path] = append(f.created[path], payload)
		f.mu.Unlock()

		resp := map[string]any{"id": id}
		for k, v := range payload {
			resp[k] = v
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(resp)

	case http.MethodPatch:
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.patched[path] = append(f.patched[path], payload)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(payload)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
