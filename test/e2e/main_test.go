//go:build e2e

// End-to-end import tests: each test stands up fake discovery and registry
// APIs, runs an import pipeline against them, and checks the writes the
// registry received.
package e2e_test

import (
	"testing"

	"github.com/netgrid-labs/invsync/internal/testutil"
	"github.com/netgrid-labs/invsync/pkg/config"
	"github.com/netgrid-labs/invsync/pkg/importer"
)

// newRunner builds an import runner wired to the two fakes, with scratch
// data and log directories.
func newRunner(t *testing.T, ipf *testutil.FakeIPFabric, nb *testutil.FakeNetBox) *importer.Runner {
	t.Helper()
	cfg := &config.Config{
		IPFBaseURL:        ipf.BaseURL(),
		IPFToken:          testutil.Token,
		IPFLimit:          500,
		NetBoxBaseURL:     nb.BaseURL(),
		NetBoxToken:       testutil.Token,
		NetBoxLimit:       100,
		VendorSensitivity: 0.8,
		ModelSensitivity:  0.8,
		ImageSensitivity:  0.8,
		ModuleSensitivity: 0.8,
		DataDir:           t.TempDir(),
		LogDir:            t.TempDir(),
	}
	return importer.New(cfg)
}
