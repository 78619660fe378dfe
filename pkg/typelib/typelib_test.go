package typelib

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/netgrid-labs/invsync/pkg/util"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func libraryFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device-types", "Cisco", "C9300-48P.yaml"),
		"manufacturer: Cisco\nmodel: C9300-48P\nslug: cisco-c9300-48p\n")
	writeFile(t, filepath.Join(root, "device-types", "Cisco", "ISR4331.yml"),
		"manufacturer: Cisco\nmodel: ISR4331\n")
	writeFile(t, filepath.Join(root, "device-types", "Cisco", "README.md"), "notes\n")
	writeFile(t, filepath.Join(root, "device-types", "Arista", "DCS-7050SX3.yaml"),
		"manufacturer: Arista\nmodel: DCS-7050SX3\n")
	writeFile(t, filepath.Join(root, "module-types", "Cisco", "GLC-TE.yaml"),
		"manufacturer: Cisco\nmodel: GLC-TE\n")
	writeFile(t, filepath.Join(root, "elevation-images", "Cisco", "c9300-48p.front.png"), "png")
	// Empty manufacturer directory must be tolerated
	if err := os.MkdirAll(filepath.Join(root, "device-types", "Juniper"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestLoadIndex(t *testing.T) {
	idx, err := Load(libraryFixture(t))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"Arista", "Cisco"}
	if !reflect.DeepEqual(idx.Manufacturers, want) {
		t.Errorf("Manufacturers = %v, want %v", idx.Manufacturers, want)
	}

	dt := idx.DeviceTypes("Cisco")
	if !reflect.DeepEqual(dt.Stems, []string{"c9300-48p", "isr4331"}) {
		t.Errorf("Cisco device type stems = %v", dt.Stems)
	}
	if dt.Paths["c9300-48p"] == "" {
		t.Error("stem path missing")
	}

	// Lookup falls back to case-insensitive directory matching
	if idx.DeviceTypes("cisco").Empty() {
		t.Error("case-insensitive manufacturer lookup failed")
	}

	if !idx.DeviceTypes("Juniper").Empty() {
		t.Error("empty manufacturer dir should yield empty set")
	}
	if !idx.ModuleTypes("Arista").Empty() {
		t.Error("manufacturer without module types should yield empty set")
	}
	if idx.Images("Cisco").Empty() {
		t.Error("Cisco images missing")
	}
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nowhere"))
	if !errors.Is(err, util.ErrMissingDataSource) {
		t.Errorf("err = %v, want ErrMissingDataSource", err)
	}
}

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplate([]byte(`manufacturer: Cisco
model: C9300-48P
slug: cisco-c9300-48p
part_number: C9300-48P-E
front_image: true
interfaces:
  - name: GigabitEthernet1/0/1
    type: 1000base-t
  - name: GigabitEthernet1/0/2
    type: 1000base-t
module-bays:
  - name: Switch 1 - Slot 1
  - name: Switch 1 - Slot 2
`))
	if err != nil {
		t.Fatal(err)
	}

	if tpl.Model() != "C9300-48P" || tpl.PartNumber() != "C9300-48P-E" {
		t.Errorf("Model/PartNumber = %q/%q", tpl.Model(), tpl.PartNumber())
	}

	ifaces := tpl.Components(KindInterface)
	if len(ifaces) != 2 || ifaces[0]["name"] != "GigabitEthernet1/0/1" {
		t.Errorf("interfaces = %v", ifaces)
	}

	bays := tpl.ModuleBayNames()
	if !reflect.DeepEqual(bays, []string{"Switch 1 - Slot 1", "Switch 1 - Slot 2"}) {
		t.Errorf("ModuleBayNames = %v", bays)
	}

	tpl.SetManufacturerID(42)
	tpl.StripImages()
	payload := tpl.Payload()
	if payload["manufacturer"] != 42 {
		t.Errorf("manufacturer = %v, want 42", payload["manufacturer"])
	}
	if payload["front_image"] != nil {
		t.Errorf("front_image = %v, want nil", payload["front_image"])
	}
	if _, ok := payload["interfaces"]; ok {
		t.Error("payload must not carry component lists")
	}
	if payload["slug"] != "cisco-c9300-48p" {
		t.Errorf("slug = %v", payload["slug"])
	}
}

func TestComponentKindNaming(t *testing.T) {
	if KindFrontPort.YAMLKey() != "front-ports" {
		t.Errorf("YAMLKey = %q", KindFrontPort.YAMLKey())
	}
	if KindConsoleServerPort.Endpoint() != "dcim/console-server-port-templates/" {
		t.Errorf("Endpoint = %q", KindConsoleServerPort.Endpoint())
	}
}
