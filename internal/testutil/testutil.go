//go:build integration || e2e

// Package testutil provides fake discovery and registry API servers for
// integration and e2e tests. Both fakes speak just enough of the real wire
// protocols for the clients in pkg/ipfabric and pkg/netbox.
package testutil

import (
	"context"
	"testing"
	"time"
)

// Context returns a context with a reasonable timeout for tests.
// The cancel function is registered via t.Cleanup.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
