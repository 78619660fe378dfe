package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/netgrid-labs/invsync/pkg/ifname"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// InterfaceEntry is one registry interface with its physical type.
type InterfaceEntry struct {
	ID   int
	Type string
}

// InterfaceIndex maps normalized (device, interface) pairs to registry
// interfaces. Device names are trimmed and lowercased, interface names
// canonicalized, so both sides of an edge look up consistently.
type InterfaceIndex struct {
	entries map[string]InterfaceEntry
}

// NewInterfaceIndex builds an empty index.
func NewInterfaceIndex() *InterfaceIndex {
	return &InterfaceIndex{entries: make(map[string]InterfaceEntry)}
}

// Add registers one interface under its device.
func (ii *InterfaceIndex) Add(device, iface string, e InterfaceEntry) {
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	ii.entries[interfaceKey(device, iface)] = e
}

// Lookup resolves a device/interface pair.
func (ii *InterfaceIndex) Lookup(device, iface string) (InterfaceEntry, bool) {
	e, ok := ii.entries[interfaceKey(device, iface)]
	return e, ok
}

func interfaceKey(device, iface string) string {
	return strings.ToLower(strings.TrimSpace(device)) + "\x00" + ifname.Normalize(iface)
}

// CableMapping is one interface-type to cable-medium entry.
type CableMapping struct {
	Interface string `json:"Interface"`
	Cable     string `json:"Cable"`
	Color     string `json:"Color"`
}

// CableMap resolves interface types to cable media, case-insensitively.
type CableMap struct {
	byType map[string]CableMapping
}

// LoadCableMap reads the mapping file. The file is required for the cables
// import: a missing or empty map is fatal at startup.
func LoadCableMap(path string) (*CableMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: cable type mapping file %s", util.ErrMissingDataSource, path)
		}
		return nil, fmt.Errorf("reading cable type mappings: %w", err)
	}

	var mappings []CableMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parsing cable type mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil, fmt.Errorf("%w: cable type mapping file %s is empty", util.ErrInvalidConfig, path)
	}

	cm := &CableMap{byType: make(map[string]CableMapping, len(mappings))}
	for _, m := range mappings {
		cm.byType[strings.ToLower(strings.TrimSpace(m.Interface))] = m
	}
	return cm, nil
}

// Lookup resolves an interface type to its cable medium.
func (cm *CableMap) Lookup(ifaceType string) (CableMapping, bool) {
	m, ok := cm.byType[strings.ToLower(strings.TrimSpace(ifaceType))]
	return m, ok
}

// Edge is one connectivity-matrix edge from discovery.
type Edge struct {
	Site       string
	LocalHost  string
	LocalInt   string
	RemoteHost string
	RemoteInt  string
}

// Skip reasons for edges excluded from cable creation.
const (
	SkipNoLocalInterface  = "no_local_interface"
	SkipNoRemoteInterface = "no_remote_interface"
	SkipNoCableMapping    = "no_cable_mapping"
)

// ResolvedCable is one fully resolved edge, ready to become a cable.
type ResolvedCable struct {
	Edge         Edge
	LocalID      int
	RemoteID     int
	LocalType    string
	RemoteType   string
	TypeMismatch bool
	Cable        string
	Color        string
}

// CableResolver resolves edges against the interface index and cable map.
type CableResolver struct {
	Interfaces *InterfaceIndex
	Map        *CableMap
}

// Resolve maps one edge to a cable payload. A missing endpoint or mapping
// entry skips the edge with a reason; an endpoint type mismatch is flagged
// but does not block creation.
func (cr *CableResolver) Resolve(e Edge) (ResolvedCable, string) {
	local, ok := cr.Interfaces.Lookup(e.LocalHost, e.LocalInt)
	if !ok {
		return ResolvedCable{Edge: e}, SkipNoLocalInterface
	}
	remote, ok := cr.Interfaces.Lookup(e.RemoteHost, e.RemoteInt)
	if !ok {
		return ResolvedCable{Edge: e}, SkipNoRemoteInterface
	}

	out := ResolvedCable{
		Edge:       e,
		LocalID:    local.ID,
		RemoteID:   remote.ID,
		LocalType:  local.Type,
		RemoteType: remote.Type,
	}
	if local.Type != "" && remote.Type != "" && local.Type != remote.Type {
		out.TypeMismatch = true
		util.Warnf("Interface type mismatch: %s %s (%s) != %s %s (%s)",
			e.LocalHost, e.LocalInt, local.Type, e.RemoteHost, e.RemoteInt, remote.Type)
	}

	mapping, ok := cr.Map.Lookup(local.Type)
	if !ok {
		return ResolvedCable{Edge: e}, SkipNoCableMapping
	}
	out.Cable = mapping.Cable
	out.Color = mapping.Color
	return out, ""
}
