package resolve

import (
	"regexp"
	"strconv"
)

// Renaming of bay and interface names on virtual-chassis member devices.
// Member devices are created from the master's type template, so their
// interface-like names all start with member index 1; after import they are
// renumbered to the member's own index.

var (
	memberIfRe = regexp.MustCompile(`(?i)^(Te|Gi|Hu|Twe|Eth|Ethernet|TenGigabitEthernet|GigabitEthernet|HundredGigE|TwentyFiveGigE)(\d+)(/.*)$`)
	memberSpRe = regexp.MustCompile(`(?i)^StackPort(\d+)(/.*)$`)
)

// RewriteMemberString renumbers the leading member index of an
// interface-like or StackPort string, including position templates such as
// "TwentyFiveGigE1/{module}/1". Strings that carry no member index (PSU,
// FAN, supervisor bays) pass through unchanged.
func RewriteMemberString(s string, member int) string {
	if s == "" {
		return s
	}
	if m := memberIfRe.FindStringSubmatch(s); m != nil {
		return m[1] + strconv.Itoa(member) + m[3]
	}
	if m := memberSpRe.FindStringSubmatch(s); m != nil {
		return "StackPort" + strconv.Itoa(member) + m[2]
	}
	return s
}

// IsMemberRenamable reports whether a bay name is subject to member
// renumbering: interface-shaped or StackPort names only.
func IsMemberRenamable(name string) bool {
	return memberIfRe.MatchString(name) || memberSpRe.MatchString(name)
}

// MemberIndexFromHostname extracts the member index from a synthesized
// member hostname ("SW1/3" yields 3). Returns 0 when the hostname carries
// no member suffix.
func MemberIndexFromHostname(hostname string) int {
	m := hostnameMemberRe.FindStringSubmatch(hostname)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

var hostnameMemberRe = regexp.MustCompile(`/(\d+)$`)
