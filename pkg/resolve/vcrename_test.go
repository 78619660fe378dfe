package resolve

import "testing"

func TestRewriteMemberString(t *testing.T) {
	tests := []struct {
		in     string
		member int
		want   string
	}{
		{"TenGigabitEthernet1/1/3", 2, "TenGigabitEthernet2/1/3"},
		{"Te1/1/3", 3, "Te3/1/3"},
		{"StackPort1/1", 2, "StackPort2/1"},
		{"TwentyFiveGigE1/{module}/1", 4, "TwentyFiveGigE4/{module}/1"},
		{"GigabitEthernet1/0/48", 2, "GigabitEthernet2/0/48"},
		// Non-interface bays pass through
		{"Power Supply 1", 2, "Power Supply 1"},
		{"FAN1", 3, "FAN1"},
		{"Supervisor 1", 2, "Supervisor 1"},
		{"", 2, ""},
	}

	for _, tt := range tests {
		if got := RewriteMemberString(tt.in, tt.member); got != tt.want {
			t.Errorf("RewriteMemberString(%q, %d) = %q, want %q", tt.in, tt.member, got, tt.want)
		}
	}
}

func TestRewriteMemberStringIdempotent(t *testing.T) {
	inputs := []string{"Te1/1/3", "StackPort1/1", "GigabitEthernet1/0/48"}
	for _, in := range inputs {
		once := RewriteMemberString(in, 3)
		if twice := RewriteMemberString(once, 3); once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsMemberRenamable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Te1/1/3", true},
		{"StackPort1/1", true},
		{"Power Supply 1", false},
		{"Uplink", false},
	}
	for _, tt := range tests {
		if got := IsMemberRenamable(tt.in); got != tt.want {
			t.Errorf("IsMemberRenamable(%q) = %v", tt.in, got)
		}
	}
}

func TestMemberIndexFromHostname(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"sw-access-01/2", 2},
		{"sw-access-01/13", 13},
		{"sw-access-01", 0},
		{"10.1.2.3", 0},
	}
	for _, tt := range tests {
		if got := MemberIndexFromHostname(tt.in); got != tt.want {
			t.Errorf("MemberIndexFromHostname(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
