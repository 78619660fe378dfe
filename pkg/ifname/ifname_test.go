package ifname

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Gi1/0/1", "GigabitEthernet1/0/1"},
		{"GigabitEthernet 1/0/1", "GigabitEthernet1/0/1"},
		{"Te0/0/0", "TenGigabitEthernet0/0/0"},
		{"Hu1/0/1", "HundredGigE1/0/1"},
		{"Po10", "Port-channel10"},
		{"Vl100", "Vlan100"},
		{"Lo0", "Loopback0"},
		{"Tunnel1", "Tunnel1"},
		{"Eth1/1", "Ethernet1/1"},
		{"Et1/0/1", "Ethernet1/0/1"},
		{"Twe1/1/1", "TwentyFiveGigE1/1/1"},
		{"Gi 1/0/1", "GigabitEthernet1/0/1"},
		{"te1/1.100", "TenGigabitEthernet1/1.100"},
		{"mgmt0", "MgmtEth0"},
		{"Se0/0/0:1", "Serial0/0/0:1"},
		// Unknown prefixes pass through with case preserved
		{"Xy5", "Xy5"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Gi1/0/1", "GigabitEthernet1/0/1", "Po10", "Xy5", "",
		"Eth 1/1", "Twe1/1/1", "mgmt0", "Serial0/0/0:1",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Gi1/0/1", "GigabitEthernet1/0/1", true},
		{"gi1/0/1", "Gi 1/0/1", true},
		{"Te1/1", "GigabitEthernet1/1", false},
		{"Po10", "port-channel10", true},
		{"Xy5", "Xy5", true},
	}

	for _, tt := range tests {
		if got := Equivalent(tt.a, tt.b); got != tt.want {
			t.Errorf("Equivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Gi", "GigabitEthernet"},
		{"PORT-CHANNEL", "Port-channel"},
		{"mgmt_eth", "MgmtEth"},
		{"Unknown", "Unknown"},
	}

	for _, tt := range tests {
		if got := NormalizePrefix(tt.input); got != tt.want {
			t.Errorf("NormalizePrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
