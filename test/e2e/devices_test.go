//go:build e2e

package e2e_test

import (
	"testing"

	"github.com/netgrid-labs/invsync/internal/testutil"
)

func TestDeviceImport(t *testing.T) {
	ipf := testutil.NewFakeIPFabric(t)
	nb := testutil.NewFakeNetBox(t)
	ipf.SetTable("tables/inventory/devices",
		map[string]any{
			"hostname": "sw-access-07", "sn": "SN7", "snHw": "SN7", "siteName": "HQ",
			"vendor": "cisco", "family": "ios-xe", "model": "C9300-48P", "devType": "switch",
		},
		map[string]any{
			"hostname": "r-edge-01", "sn": "SNR1", "snHw": "SNR1", "siteName": "HQ",
			"vendor": "cisco", "family": "ios", "model": "ISR4331", "devType": "router",
		},
		map[string]any{
			"hostname": "orphan-01", "sn": "SNX", "snHw": "SNX", "siteName": "Unknown",
			"model": "NOSUCHMODEL", "devType": "switch",
		},
	)
	nb.SetList("dcim/device-types/",
		map[string]any{"id": 11, "model": "C9300-48P", "part_number": "C9300-48P"},
		map[string]any{"id": 12, "model": "ISR4331", "part_number": "ISR4331"},
	)
	nb.SetList("dcim/device-roles/",
		map[string]any{"id": 21, "name": "switch"},
		map[string]any{"id": 22, "name": "router"},
	)
	nb.SetList("dcim/sites/", map[string]any{"id": 31, "name": "HQ"})
	nb.SetList("dcim/platforms/", map[string]any{"id": 41, "name": "ios-xe"})
	// r-edge-01 is already registered and gets updated in place.
	nb.SetList("dcim/devices/", map[string]any{"id": 55, "name": "r-edge-01"})
	r := newRunner(t, ipf, nb)

	if err := r.ImportDevices(testutil.Context(t)); err != nil {
		t.Fatal(err)
	}

	created := nb.Created("dcim/devices/")
	if len(created) != 1 {
		t.Fatalf("created %d devices, want 1 (orphan skipped, existing patched)", len(created))
	}
	d := created[0]
	if d["name"] != "sw-access-07" || d["serial"] != "SN7" || d["status"] != "active" {
		t.Errorf("device payload = %v", d)
	}
	if d["device_type"] != float64(11) || d["role"] != float64(21) || d["site"] != float64(31) {
		t.Errorf("device references = %v", d)
	}
	if d["platform"] != float64(41) {
		t.Errorf("platform = %v", d["platform"])
	}
	if _, ok := d["vc_position"]; ok {
		t.Errorf("standalone device carries vc_position: %v", d)
	}

	patched := nb.Patched("dcim/devices/55/")
	if len(patched) != 1 || patched[0]["name"] != "r-edge-01" {
		t.Errorf("existing device patches = %v", patched)
	}
}

func TestVDCImport(t *testing.T) {
	ipf := testutil.NewFakeIPFabric(t)
	nb := testutil.NewFakeNetBox(t)
	ipf.SetTable("tables/platforms/devices",
		map[string]any{"hostname": "fw-01", "contextName": "ctx-admin", "contextId": 1},
		map[string]any{"hostname": "ghost", "contextName": "ctx-b", "contextId": 2},
	)
	nb.SetList("dcim/devices/", map[string]any{"id": 42, "name": "fw-01"})
	r := newRunner(t, ipf, nb)

	if err := r.ImportVDCs(testutil.Context(t)); err != nil {
		t.Fatal(err)
	}

	created := nb.Created("dcim/virtual-device-contexts/")
	if len(created) != 1 {
		t.Fatalf("created %d contexts, want 1 (ghost host skipped)", len(created))
	}
	c := created[0]
	if c["device"] != float64(42) || c["name"] != "ctx-admin" || c["identifier"] != float64(1) {
		t.Errorf("context payload = %v", c)
	}
	if c["status"] != "active" {
		t.Errorf("context status = %v", c["status"])
	}
}
