package resolve

import (
	"reflect"
	"testing"
)

func TestFilterModules(t *testing.T) {
	mods := []Module{
		{Name: "chassis", SN: "ABC", DeviceSN: "ABC"},
		{Name: "noise", PID: "same", Dscr: "same"},
		{Name: "self", PID: "WS-C3850", Model: "WS-C3850"},
		{Name: "fex", PID: "N2K-C2248", Dscr: "Fabric Extender Module x"},
		{Name: "cable", Dscr: "Cisco StackWise Stack Cable"},
		{Name: "Switch 1 - Power Supply A", PID: "PWR-C1-715WAC", SN: "ART1", DeviceSN: "FDO1"},
		{Name: "Te1/1/3", PID: "SFP-10G-SR", SN: "AVD1", DeviceSN: "FDO1"},
	}

	got := FilterModules(mods)
	if len(got) != 2 {
		t.Fatalf("kept %d modules, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Switch 1 - Power Supply A" || got[1].Name != "Te1/1/3" {
		t.Errorf("kept wrong modules: %+v", got)
	}
}

func TestClassifyPrecedence(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		mod  Module
		want Category
	}{
		// Interface-shaped names classify by the sfp regex even when the
		// description carries a keyword from a later category.
		{Module{Name: "Gi1/1", Dscr: "fan assembly"}, CategorySFP},
		{Module{Name: "Te1/1/4", PID: "SFP-10G-SR"}, CategorySFP},
		{Module{Name: "Power Supply 1", PID: "PWR-C1-715WAC"}, CategoryPower},
		{Module{Name: "Fan Tray 2"}, CategoryFan},
		{Module{Name: "Supervisor 1", PID: "WS-SUP720"}, CategorySupervisor},
		{Module{Name: "mystery part", PID: "X-1", Dscr: "uplink module"}, CategoryNetwork},
		{Module{Name: "mystery", PID: "X-2", Dscr: "no hints here"}, CategoryOther},
	}

	for _, tt := range tests {
		if got := rules.Classify(tt.mod); got != tt.want {
			t.Errorf("Classify(%q/%q) = %s, want %s", tt.mod.Name, tt.mod.Dscr, got, tt.want)
		}
	}
}

func TestClassifyAllBuckets(t *testing.T) {
	rules := DefaultRules()
	mods := []Module{
		{Name: "Te1/1/4"},
		{Name: "Power Supply 1", PID: "PWR-1"},
		{Name: "Te2/1/1"},
	}

	buckets := rules.ClassifyAll(mods)
	if len(buckets[CategorySFP]) != 2 {
		t.Errorf("sfp bucket = %+v", buckets[CategorySFP])
	}
	if buckets[CategorySFP][0].Category != CategorySFP {
		t.Error("bucketed module must carry its category")
	}
	if len(buckets[CategoryPower]) != 1 {
		t.Errorf("power bucket = %+v", buckets[CategoryPower])
	}
}

func TestVCMemberName(t *testing.T) {
	tests := []struct {
		name, hostname, want string
	}{
		{"Switch 2 - Power Supply A", "sw-access-01", "sw-access-01/2"},
		{"Switch-3", "sw-access-01", "sw-access-01/3"},
		{"Switch 1 - Power Supply A", "sw-access-01", ""},
		{"Te2/1/1", "sw-access-01", "sw-access-01/2"},
		{"Te1/1/1", "sw-access-01", ""},
		{"GigabitEthernet4/0/1", "sw-access-01", "sw-access-01/4"},
		{"Power Supply 1", "sw-access-01", ""},
		{"", "sw-access-01", ""},
	}

	for _, tt := range tests {
		if got := VCMemberName(tt.name, tt.hostname); got != tt.want {
			t.Errorf("VCMemberName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBayCandidates(t *testing.T) {
	rules := DefaultRules()

	// SFP interface path expands its prefix
	cands := rules.BayCandidates(CategorySFP, "Te1/1/3")
	if !contains(cands, "TenGigabitEthernet1/1/3") {
		t.Errorf("sfp candidates = %v, missing canonical form", cands)
	}

	// Power position renders through the synonym templates, alpha positions
	// uppercased
	cands = rules.BayCandidates(CategoryPower, "Power Supply a")
	if !contains(cands, "PSUA") || !contains(cands, "Power Supply A") {
		t.Errorf("power candidates = %v", cands)
	}

	// No template output falls back to the normalized name
	cands = rules.BayCandidates(CategoryOther, "Some  Odd   Part")
	if !reflect.DeepEqual(cands, []string{"Some Odd Part"}) {
		t.Errorf("other candidates = %v", cands)
	}

	// Duplicates collapse, order preserved
	cands = rules.BayCandidates(CategorySFP, "Gi1/0/1")
	seen := map[string]bool{}
	for _, c := range cands {
		if seen[c] {
			t.Errorf("duplicate candidate %q in %v", c, cands)
		}
		seen[c] = true
	}
}

func TestNormalizePID(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		in, want string
	}{
		{" SFP-10G-SR ", "sfp-10g-sr"},
		{"Unspecified", ""},
		{"not", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := rules.NormalizePID(tt.in); got != tt.want {
			t.Errorf("NormalizePID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDerivePIDFromDscr(t *testing.T) {
	rules := DefaultRules()
	if got := rules.DerivePIDFromDscr("Cisco 1000BaseSX SFP transceiver"); got != "GLC-SX-MMD" {
		t.Errorf("DerivePIDFromDscr = %q", got)
	}
	if got := rules.DerivePIDFromDscr("no match at all"); got != "" {
		t.Errorf("DerivePIDFromDscr = %q, want empty", got)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
