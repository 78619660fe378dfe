package resolve

import (
	"strings"

	"github.com/netgrid-labs/invsync/pkg/match"
)

// Bay is one module bay on a registry device.
type Bay struct {
	ID       int
	Name     string
	Position string
}

// DeviceBays holds the bays of one device. Names keeps insertion order so
// positional and fuzzy stages scan bays deterministically. A position held
// by more than one bay is ambiguous and excluded from positional matching.
type DeviceBays struct {
	names  []string
	byName map[string]Bay
	byPos  map[string]Bay
	posDup map[string]bool
}

// Add registers one bay.
func (db *DeviceBays) Add(b Bay) {
	if db.byName == nil {
		db.byName = make(map[string]Bay)
		db.byPos = make(map[string]Bay)
		db.posDup = make(map[string]bool)
	}
	name := strings.TrimSpace(b.Name)
	if name != "" {
		key := strings.ToLower(name)
		if _, dup := db.byName[key]; !dup {
			db.names = append(db.names, key)
		}
		db.byName[key] = b
	}
	if b.Position != "" {
		if prev, ok := db.byPos[b.Position]; ok && prev.ID != b.ID {
			db.posDup[b.Position] = true
		}
		db.byPos[b.Position] = b
	}
}

// BayIndex maps device IDs to their bays.
type BayIndex struct {
	byDevice map[int]*DeviceBays
}

// NewBayIndex builds an empty index.
func NewBayIndex() *BayIndex {
	return &BayIndex{byDevice: make(map[int]*DeviceBays)}
}

// Add registers one bay under its device.
func (bi *BayIndex) Add(deviceID int, b Bay) {
	db, ok := bi.byDevice[deviceID]
	if !ok {
		db = &DeviceBays{}
		bi.byDevice[deviceID] = db
	}
	db.Add(b)
}

// Device returns the bays of one device, or nil when it has none.
func (bi *BayIndex) Device(deviceID int) *DeviceBays {
	return bi.byDevice[deviceID]
}

// MatchBay resolves a module name to a bay on one device using three stages
// in strict order: exact candidate name, trailing numeric segment, then
// fuzzy over the first 10 candidates with the category's cutoff. The first
// stage to produce a bay wins.
func (r *Rules) MatchBay(bays *DeviceBays, cat Category, rawName string, defaultSensitivity float64) (Bay, bool) {
	if bays == nil || len(bays.names) == 0 {
		return Bay{}, false
	}
	cands := r.BayCandidates(cat, rawName)

	// Stage 1: exact name.
	for _, c := range cands {
		if b, ok := bays.byName[strings.ToLower(c)]; ok {
			return b, true
		}
	}

	// Stage 2: the last digit run of the first numeric candidate. The bay
	// is accepted only when exactly one bay ends with "/{n}" or exactly one
	// bay sits at position n; an ambiguous count falls through to fuzzy.
	if seg := lastNumericSegment(cands); seg != "" {
		var hits []Bay
		for _, name := range bays.names {
			if strings.HasSuffix(name, "/"+seg) {
				hits = append(hits, bays.byName[name])
			}
		}
		if len(hits) == 1 {
			return hits[0], true
		}
		if b, ok := bays.byPos[seg]; ok && !bays.posDup[seg] {
			return b, true
		}
	}

	// Stage 3: fuzzy.
	cutoff := BayCutoff(cat, defaultSensitivity)
	limit := len(cands)
	if limit > 10 {
		limit = 10
	}
	for _, c := range cands[:limit] {
		if res := match.BestMatch(c, bays.names, cutoff); res.Matched {
			return bays.byName[res.Candidate], true
		}
	}
	return Bay{}, false
}

// lastNumericSegment returns the last digit run of the first candidate that
// contains any digit.
func lastNumericSegment(cands []string) string {
	for _, c := range cands {
		if !anyDigitRe.MatchString(c) {
			continue
		}
		runs := digitRunRe.FindAllString(c, -1)
		return runs[len(runs)-1]
	}
	return ""
}

// ModuleTypeIndex maps part numbers and models to registry module type IDs.
type ModuleTypeIndex struct {
	byPart  map[string]int
	byModel map[string]int
}

// NewModuleTypeIndex builds an empty index.
func NewModuleTypeIndex() *ModuleTypeIndex {
	return &ModuleTypeIndex{
		byPart:  make(map[string]int),
		byModel: make(map[string]int),
	}
}

// Add registers one module type.
func (mti *ModuleTypeIndex) Add(partNumber, model string, id int) {
	if pn := strings.ToLower(strings.TrimSpace(partNumber)); pn != "" {
		mti.byPart[pn] = id
	}
	if mdl := strings.ToLower(strings.TrimSpace(model)); mdl != "" {
		mti.byModel[mdl] = id
	}
}

// MatchModuleType resolves a module to a registry type: normalized PID
// against part numbers first, then a PID derived from the description when
// the module reports none, then the module name against type models.
func (r *Rules) MatchModuleType(idx *ModuleTypeIndex, m Module) (int, bool) {
	npid := r.NormalizePID(m.PID)
	if npid != "" {
		if id, ok := idx.byPart[npid]; ok {
			return id, true
		}
	} else if derived := r.DerivePIDFromDscr(m.Dscr); derived != "" {
		if id, ok := idx.byPart[strings.ToLower(derived)]; ok {
			return id, true
		}
	}
	if mdl := strings.ToLower(m.Name); mdl != "" {
		if id, ok := idx.byModel[mdl]; ok {
			return id, true
		}
	}
	return 0, false
}

// DeviceIndex maps lowercased device names to registry IDs.
type DeviceIndex struct {
	byName map[string]int
}

// NewDeviceIndex builds an empty index.
func NewDeviceIndex() *DeviceIndex {
	return &DeviceIndex{byName: make(map[string]int)}
}

// Add registers one device.
func (di *DeviceIndex) Add(name string, id int) {
	if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
		di.byName[name] = id
	}
}

// Lookup returns the device ID for a name.
func (di *DeviceIndex) Lookup(name string) (int, bool) {
	id, ok := di.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Reason codes for modules excluded from creation.
const (
	ReasonNoModuleType = "no_module_type"
	ReasonNoDevice     = "no_device"
	ReasonNoModuleBay  = "no_module_bay"
)

// ResolvedModule is the outcome of resolving one module against the run's
// lookup tables. A module with any reason recorded is excluded from load.
type ResolvedModule struct {
	Module       Module
	ModuleTypeID int
	DeviceID     int
	Bay          Bay
	Reasons      []string
}

// OK reports whether every required reference resolved.
func (rm *ResolvedModule) OK() bool { return len(rm.Reasons) == 0 }

// ModuleResolver ties the lookup tables together for per-module resolution.
// All tables are built before resolution starts and never mutated.
type ModuleResolver struct {
	Rules       *Rules
	Types       *ModuleTypeIndex
	Devices     *DeviceIndex
	Bays        *BayIndex
	Sensitivity float64
}

// Resolve maps one module to its registry references. A module tagged with a
// VC member hostname is looked up by that name first, falling back to the
// raw hostname.
func (mr *ModuleResolver) Resolve(m Module) ResolvedModule {
	out := ResolvedModule{Module: m}

	if id, ok := mr.Rules.MatchModuleType(mr.Types, m); ok {
		out.ModuleTypeID = id
	} else {
		out.Reasons = append(out.Reasons, ReasonNoModuleType)
	}

	var deviceID int
	if m.VCMemberName != "" {
		if id, ok := mr.Devices.Lookup(m.VCMemberName); ok {
			deviceID = id
			out.Module.Hostname = m.VCMemberName
		}
	}
	if deviceID == 0 {
		if id, ok := mr.Devices.Lookup(m.Hostname); ok {
			deviceID = id
		}
	}
	if deviceID == 0 {
		out.Reasons = append(out.Reasons, ReasonNoDevice)
	}
	out.DeviceID = deviceID

	if deviceID != 0 {
		if bay, ok := mr.Rules.MatchBay(mr.Bays.Device(deviceID), m.Category, m.Name, mr.Sensitivity); ok {
			out.Bay = bay
		} else {
			out.Reasons = append(out.Reasons, ReasonNoModuleBay)
		}
	} else {
		out.Reasons = append(out.Reasons, ReasonNoModuleBay)
	}
	return out
}
