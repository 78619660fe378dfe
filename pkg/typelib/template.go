package typelib

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComponentKind identifies one class of component templates carried inside a
// type definition file.
type ComponentKind string

const (
	KindInterface         ComponentKind = "interface"
	KindFrontPort         ComponentKind = "front-port"
	KindRearPort          ComponentKind = "rear-port"
	KindConsolePort       ComponentKind = "console-port"
	KindConsoleServerPort ComponentKind = "console-server-port"
	KindPowerPort         ComponentKind = "power-port"
	KindPowerOutlet       ComponentKind = "power-outlet"
	KindModuleBay         ComponentKind = "module-bay"
	KindDeviceBay         ComponentKind = "device-bay"
)

// ComponentKinds lists every component class in creation order. Rear ports
// come before front ports since front port templates reference them.
var ComponentKinds = []ComponentKind{
	KindConsolePort,
	KindConsoleServerPort,
	KindPowerPort,
	KindPowerOutlet,
	KindInterface,
	KindRearPort,
	KindFrontPort,
	KindModuleBay,
	KindDeviceBay,
}

// YAMLKey returns the list key used inside definition files.
func (k ComponentKind) YAMLKey() string { return string(k) + "s" }

// Endpoint returns the registry API path for this template class.
func (k ComponentKind) Endpoint() string { return "dcim/" + string(k) + "-templates/" }

// Template is one parsed type definition. The document is kept as a generic
// map so unknown fields pass through to the registry untouched; the typed
// accessors below cover the fields the resolvers need.
type Template struct {
	doc map[string]any
}

// LoadTemplate parses the YAML definition file at path.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate parses a YAML definition document.
func ParseTemplate(data []byte) (*Template, error) {
	doc := make(map[string]any)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &Template{doc: doc}, nil
}

// Model returns the template's model field.
func (t *Template) Model() string { return t.stringField("model") }

// PartNumber returns the template's part_number field.
func (t *Template) PartNumber() string { return t.stringField("part_number") }

// Slug returns the template's slug field.
func (t *Template) Slug() string { return t.stringField("slug") }

func (t *Template) stringField(key string) string {
	if v, ok := t.doc[key].(string); ok {
		return v
	}
	return ""
}

// SetManufacturerID replaces the manufacturer field with a registry ID
// reference so the payload can be posted directly.
func (t *Template) SetManufacturerID(id int) {
	t.doc["manufacturer"] = id
}

// StripImages nulls the elevation image fields. Image files live outside the
// definition tree and are attached in a separate pass after creation.
func (t *Template) StripImages() {
	for _, key := range []string{"front_image", "rear_image"} {
		if _, ok := t.doc[key]; ok {
			t.doc[key] = nil
		}
	}
}

// Components returns the template list for one component class. Entries that
// are not mappings are skipped.
func (t *Template) Components(kind ComponentKind) []map[string]any {
	raw, ok := t.doc[kind.YAMLKey()].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// ModuleBayNames returns the module bay template names in file order.
func (t *Template) ModuleBayNames() []string {
	bays := t.Components(KindModuleBay)
	names := make([]string, 0, len(bays))
	for _, b := range bays {
		if n, ok := b["name"].(string); ok {
			names = append(names, n)
		}
	}
	return names
}

// Payload returns the definition document without its component lists, ready
// to post as the type record itself. Components are created separately per
// class endpoint.
func (t *Template) Payload() map[string]any {
	out := make(map[string]any, len(t.doc))
	for k, v := range t.doc {
		if strings.HasSuffix(k, "s") && isComponentKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func isComponentKey(key string) bool {
	for _, kind := range ComponentKinds {
		if key == kind.YAMLKey() {
			return true
		}
	}
	return false
}
