// Package ifname canonicalizes vendor-abbreviated interface names so that
// port names reported by different platforms can be compared for equality.
// "Gi1/0/1", "gi 1/0/1" and "GigabitEthernet1/0/1" all normalize to the
// same long form.
package ifname

import (
	"regexp"
	"strings"
)

// prefixMap maps lowercased, underscore-stripped prefix variants to the
// canonical long form used for comparison.
var prefixMap = map[string]string{
	// Ethernet speeds
	"fa":                  "FastEthernet",
	"fastethernet":        "FastEthernet",
	"gi":                  "GigabitEthernet",
	"gigabitethernet":     "GigabitEthernet",
	"te":                  "TenGigabitEthernet",
	"tengigabitethernet":  "TenGigabitEthernet",
	"twe":                 "TwentyFiveGigE",
	"twentyfivegige":      "TwentyFiveGigE",
	"fo":                  "FortyGigabitEthernet",
	"fortygigabitethernet": "FortyGigabitEthernet",
	"fortygige":           "FortyGigabitEthernet",
	"hu":                  "HundredGigE",
	"hundredgige":         "HundredGigE",
	"hundredgigabitethernet": "HundredGigE",

	// Generic Ethernet (NX-OS / Arista)
	"et":       "Ethernet",
	"eth":      "Ethernet",
	"ethernet": "Ethernet",

	// Port-channels
	"po":           "Port-channel",
	"port-channel": "Port-channel",
	"portchannel":  "Port-channel",

	// VLAN SVI
	"vl":   "Vlan",
	"vlan": "Vlan",

	// Loopback
	"lo":       "Loopback",
	"loopback": "Loopback",

	// Tunnel
	"tu":     "Tunnel",
	"tunnel": "Tunnel",

	// Serial
	"se":     "Serial",
	"serial": "Serial",

	// AppGigabitEthernet (ISR/ASR)
	"ap":                 "AppGigabitEthernet",
	"appgigabitethernet": "AppGigabitEthernet",

	// BDI (IOS-XE)
	"bd":  "BDI",
	"bdi": "BDI",

	// Null
	"nu":   "Null",
	"null": "Null",

	// Management Ethernet (platform dependent)
	"mgmteth": "MgmtEth",
	"mgmt":    "MgmtEth",
	"mg":      "MgmtEth",

	// Wireless / cellular
	"cellular":   "Cellular",
	"dot11radio": "Dot11Radio",
}

var (
	// Breakout units and subinterfaces show flexible number formats,
	// e.g. Ethernet1/1/1 and GigabitEthernet1/0/1.123.
	suffixPattern = regexp.MustCompile(`\s*(\d[\d/.\-:]*)\s*$`)
	prefixPattern = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z\-]*)(.*)$`)
	spaceDigit    = regexp.MustCompile(`\s+(\d)`)
)

// split separates a raw name into its alphabetic prefix and numeric suffix.
// Spaces between the prefix and numbers are dropped ('Gi 1/0/1' -> 'Gi1/0/1').
func split(name string) (prefix, suffix string) {
	if name == "" {
		return "", ""
	}
	s := strings.TrimSpace(name)
	s = spaceDigit.ReplaceAllString(s, "$1")

	m := prefixPattern.FindStringSubmatch(s)
	if m == nil {
		return "", s
	}
	prefix, rest := m[1], m[2]

	if m2 := suffixPattern.FindStringSubmatch(rest); m2 != nil {
		suffix = m2[1]
	} else {
		suffix = strings.TrimSpace(rest)
	}
	return prefix, suffix
}

// NormalizePrefix maps a bare interface prefix to its canonical long form.
// Unknown prefixes are returned unchanged, case preserved.
func NormalizePrefix(prefix string) string {
	key := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(prefix), "_", ""))
	if long, ok := prefixMap[key]; ok {
		return long
	}
	return prefix
}

// Normalize converts any Cisco-like interface name to a canonical long form
// for comparison. It is pure and total: any input, including the empty
// string, yields a deterministic result.
//
//	Normalize("Gi1/0/1")  == "GigabitEthernet1/0/1"
//	Normalize("Te0/0/0")  == "TenGigabitEthernet0/0/0"
//	Normalize("Po10")     == "Port-channel10"
//	Normalize("Xy5")      == "Xy5"
func Normalize(name string) string {
	prefix, suffix := split(name)
	if prefix == "" && suffix == "" {
		return strings.TrimSpace(name)
	}
	suffix = strings.ReplaceAll(suffix, " ", "")
	return NormalizePrefix(prefix) + suffix
}

// Equivalent reports whether two interface names refer to the same port
// after normalization.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
