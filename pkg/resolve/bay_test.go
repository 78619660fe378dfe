package resolve

import (
	"reflect"
	"testing"
)

func deviceBays(names ...string) *DeviceBays {
	db := &DeviceBays{}
	for i, n := range names {
		db.Add(Bay{ID: i + 1, Name: n})
	}
	return db
}

func TestMatchBayExactBeatsFuzzy(t *testing.T) {
	rules := DefaultRules()
	bays := deviceBays("GigabitEthernet1/0/1", "GigabitEthernet1/0/2")

	bay, ok := rules.MatchBay(bays, CategorySFP, "GigabitEthernet1/0/2", 0.8)
	if !ok {
		t.Fatal("expected match")
	}
	if bay.Name != "GigabitEthernet1/0/2" {
		t.Errorf("matched %q, want exact bay GigabitEthernet1/0/2", bay.Name)
	}
}

func TestMatchBayTrailingNumericSegment(t *testing.T) {
	rules := DefaultRules()

	// Exactly one bay ends with /3
	bays := deviceBays("PSU Bay/1", "PSU Bay/3")
	bay, ok := rules.MatchBay(bays, CategoryPower, "Power Supply 3", 0.8)
	if !ok || bay.Name != "PSU Bay/3" {
		t.Errorf("got %+v ok=%v, want PSU Bay/3", bay, ok)
	}

	// Two bays end with /2: ambiguous, no position table, and fuzzy cannot
	// reach the power cutoff against these names
	bays = deviceBays("Left/2", "Right/2")
	if bay, ok := rules.MatchBay(bays, CategoryPower, "Power Supply 2", 0.8); ok {
		t.Errorf("ambiguous suffix must not match, got %+v", bay)
	}
}

func TestMatchBayPositionFallback(t *testing.T) {
	rules := DefaultRules()
	db := &DeviceBays{}
	db.Add(Bay{ID: 1, Name: "Power Bay Alpha", Position: "1"})
	db.Add(Bay{ID: 2, Name: "Power Bay Beta", Position: "2"})

	bay, ok := rules.MatchBay(db, CategoryPower, "Power Supply 2", 0.8)
	if !ok || bay.ID != 2 {
		t.Errorf("got %+v ok=%v, want position bay 2", bay, ok)
	}
}

func TestMatchBaySharedPositionIsAmbiguous(t *testing.T) {
	rules := DefaultRules()
	db := &DeviceBays{}
	db.Add(Bay{ID: 1, Name: "Alpha Bay", Position: "2"})
	db.Add(Bay{ID: 2, Name: "Beta Bay", Position: "2"})

	// Two bays at position 2: neither may win positionally, and the fuzzy
	// stage cannot reach the power cutoff against these names.
	if bay, ok := rules.MatchBay(db, CategoryPower, "Power Supply 2", 0.8); ok {
		t.Errorf("shared position must not match, got %+v", bay)
	}

	// Re-registering the same bay at its position is not a conflict.
	db2 := &DeviceBays{}
	db2.Add(Bay{ID: 3, Name: "Power Bay Gamma", Position: "1"})
	db2.Add(Bay{ID: 3, Name: "Power Bay Gamma", Position: "1"})
	if bay, ok := rules.MatchBay(db2, CategoryPower, "Power Supply 1", 0.8); !ok || bay.ID != 3 {
		t.Errorf("got %+v ok=%v, want position bay 3", bay, ok)
	}
}

func TestMatchBayFuzzyUsesCategoryCutoff(t *testing.T) {
	rules := DefaultRules()
	bays := deviceBays("Fan Tray Slot 1")

	// Fan cutoff is 0.80; "Fan 1" renders candidates close enough to the
	// bay through the fuzzy stage
	bay, ok := rules.MatchBay(bays, CategoryFan, "Fan Tray - 1", 0.8)
	if !ok || bay.Name != "Fan Tray Slot 1" {
		t.Errorf("got %+v ok=%v", bay, ok)
	}

	// Empty bay set never matches
	if _, ok := rules.MatchBay(&DeviceBays{}, CategoryFan, "Fan 1", 0.8); ok {
		t.Error("empty bay set must not match")
	}
	if _, ok := rules.MatchBay(nil, CategoryFan, "Fan 1", 0.8); ok {
		t.Error("nil bays must not match")
	}
}

func TestMatchModuleTypeOrder(t *testing.T) {
	rules := DefaultRules()
	idx := NewModuleTypeIndex()
	idx.Add("SFP-10G-SR", "10G SR Transceiver", 11)
	idx.Add("GLC-SX-MMD", "1000BASE-SX SFP", 12)
	idx.Add("", "C9300-NM-8X", 13)

	// PID exact
	if id, ok := rules.MatchModuleType(idx, Module{PID: "sfp-10g-sr"}); !ok || id != 11 {
		t.Errorf("pid match = %d ok=%v", id, ok)
	}
	// No PID: derive from description
	if id, ok := rules.MatchModuleType(idx, Module{PID: "Unspecified", Dscr: "1000BaseSX SFP module"}); !ok || id != 12 {
		t.Errorf("dscr match = %d ok=%v", id, ok)
	}
	// Fall back to the module name against type models
	if id, ok := rules.MatchModuleType(idx, Module{PID: "NOPE-123", Name: "C9300-NM-8X"}); !ok || id != 13 {
		t.Errorf("model match = %d ok=%v", id, ok)
	}
	if _, ok := rules.MatchModuleType(idx, Module{PID: "NOPE-123", Name: "unknown"}); ok {
		t.Error("expected no module type")
	}
}

func TestModuleResolver(t *testing.T) {
	rules := DefaultRules()

	types := NewModuleTypeIndex()
	types.Add("PWR-C1-715WAC", "715W AC Power Supply", 21)

	devices := NewDeviceIndex()
	devices.Add("sw-access-01", 100)
	devices.Add("sw-access-01/2", 102)

	bays := NewBayIndex()
	bays.Add(100, Bay{ID: 1, Name: "Power Supply 1"})
	bays.Add(102, Bay{ID: 2, Name: "Power Supply 1"})

	mr := &ModuleResolver{Rules: rules, Types: types, Devices: devices, Bays: bays, Sensitivity: 0.8}

	// Member-tagged module resolves against the member device
	res := mr.Resolve(Module{
		Hostname:     "sw-access-01",
		Name:         "Switch 2 - Power Supply 1",
		PID:          "PWR-C1-715WAC",
		Category:     CategoryPower,
		VCMemberName: "sw-access-01/2",
	})
	if !res.OK() {
		t.Fatalf("reasons = %v", res.Reasons)
	}
	if res.DeviceID != 102 || res.Bay.ID != 2 || res.ModuleTypeID != 21 {
		t.Errorf("resolved = %+v", res)
	}
	if res.Module.Hostname != "sw-access-01/2" {
		t.Errorf("hostname = %q, want member hostname", res.Module.Hostname)
	}

	// Unknown host accumulates composable reasons
	res = mr.Resolve(Module{Hostname: "missing-host", Name: "Power Supply 1", PID: "nope", Category: CategoryPower})
	want := []string{ReasonNoModuleType, ReasonNoDevice, ReasonNoModuleBay}
	if !reflect.DeepEqual(res.Reasons, want) {
		t.Errorf("reasons = %v, want %v", res.Reasons, want)
	}
}
