package resolve

import (
	"strings"

	"github.com/netgrid-labs/invsync/pkg/match"
)

// RawDevice is one device row from the discovery inventory.
type RawDevice struct {
	Hostname string
	SN       string
	SNHw     string
	SiteName string
	IPv4     string
	IPv6     string
	Vendor   string
	Family   string
	Platform string
	Model    string
	Version  string
	DevType  string
}

// DeviceLookups holds the registry lookup tables for device resolution.
// Built once per run, read-only afterwards.
type DeviceLookups struct {
	typesByPart    map[string]int
	typeParts      []string
	roles          map[string]int
	sites          map[string]int
	platforms      map[string]int
	virtualChassis map[string]int

	// ModelSensitivity is the cutoff for the fuzzy device-type fallback.
	ModelSensitivity float64
}

// NewDeviceLookups builds an empty lookup set.
func NewDeviceLookups(modelSensitivity float64) *DeviceLookups {
	return &DeviceLookups{
		typesByPart:      make(map[string]int),
		roles:            make(map[string]int),
		sites:            make(map[string]int),
		platforms:        make(map[string]int),
		virtualChassis:   make(map[string]int),
		ModelSensitivity: modelSensitivity,
	}
}

// AddDeviceType registers a device type under its part number. Insertion
// order is kept so the fuzzy fallback scans candidates deterministically.
func (dl *DeviceLookups) AddDeviceType(partNumber string, id int) {
	if partNumber == "" {
		return
	}
	if _, dup := dl.typesByPart[partNumber]; !dup {
		dl.typeParts = append(dl.typeParts, partNumber)
	}
	dl.typesByPart[partNumber] = id
}

// AddRole registers a device role by name.
func (dl *DeviceLookups) AddRole(name string, id int) { dl.roles[name] = id }

// AddSite registers a site by name.
func (dl *DeviceLookups) AddSite(name string, id int) { dl.sites[name] = id }

// AddPlatform registers a platform by name.
func (dl *DeviceLookups) AddPlatform(name string, id int) { dl.platforms[name] = id }

// AddVirtualChassis registers a virtual chassis by name.
func (dl *DeviceLookups) AddVirtualChassis(name string, id int) { dl.virtualChassis[name] = id }

// DeviceTypeID resolves a model string to a device type: exact part number
// first, then a fuzzy fallback over all part numbers at the configured
// model sensitivity.
func (dl *DeviceLookups) DeviceTypeID(model string) (int, bool) {
	if id, ok := dl.typesByPart[model]; ok {
		return id, true
	}
	if res := match.BestMatch(model, dl.typeParts, dl.ModelSensitivity); res.Matched {
		return dl.typesByPart[res.Candidate], true
	}
	return 0, false
}

// Required fields that exclude a device from load when unresolved.
const (
	MissingDeviceType = "device_type"
	MissingRole       = "role"
	MissingSite       = "site"
)

// ResolvedDevice is one device with its registry references resolved. Zero
// IDs are unresolved; Missing lists the unresolved required fields.
type ResolvedDevice struct {
	Device     ExpandedDevice
	TypeID     int
	RoleID     int
	SiteID     int
	PlatformID int
	VCID       int
	Missing    []string
}

// Loadable reports whether every required reference resolved. Platform and
// virtual chassis are optional.
func (rd *ResolvedDevice) Loadable() bool { return len(rd.Missing) == 0 }

// ResolveDevice maps one expanded device to registry references. Role is
// keyed by the discovery device type, platform by the device family, and
// the virtual chassis by the master hostname.
func (dl *DeviceLookups) ResolveDevice(d ExpandedDevice) ResolvedDevice {
	out := ResolvedDevice{Device: d}

	if id, ok := dl.DeviceTypeID(d.Model); ok {
		out.TypeID = id
	} else {
		out.Missing = append(out.Missing, MissingDeviceType)
	}
	if id, ok := dl.roles[d.DevType]; ok {
		out.RoleID = id
	} else {
		out.Missing = append(out.Missing, MissingRole)
	}
	if id, ok := dl.sites[d.SiteName]; ok {
		out.SiteID = id
	} else {
		out.Missing = append(out.Missing, MissingSite)
	}
	out.PlatformID = dl.platforms[d.Family]

	vcName := d.Master
	if vcName == "" {
		vcName = d.Hostname
	}
	out.VCID = dl.virtualChassis[strings.TrimSpace(vcName)]
	return out
}
