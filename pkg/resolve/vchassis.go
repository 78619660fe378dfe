package resolve

import "strconv"

// VCMember is one member of a stack or VSS pair as reported by discovery.
type VCMember struct {
	Index  int
	Model  string
	Serial string
	Role   string
}

// ExpandedDevice is one per-member device record produced by expansion.
type ExpandedDevice struct {
	RawDevice
	Member      int
	VCRole      string
	VCType      string
	Master      string
	Synthesized bool
}

// ExpandMembers turns one master device plus its member list into per-member
// device records. Member index 1 is always the master record itself, tagged
// with its index and role; higher members are synthesized copies carrying
// the master's site and vendor context but their own model, serial, and
// role, with "/{index}" appended to the hostname.
func ExpandMembers(master RawDevice, vcType string, members []VCMember) []ExpandedDevice {
	out := make([]ExpandedDevice, 0, len(members))
	for _, m := range members {
		d := ExpandedDevice{
			RawDevice: master,
			Member:    m.Index,
			VCRole:    m.Role,
			VCType:    vcType,
			Master:    master.Hostname,
		}
		if m.Index != 1 {
			d.Model = m.Model
			d.SN = m.Serial
			d.Hostname = master.Hostname + "/" + strconv.Itoa(m.Index)
			d.Synthesized = true
		}
		out = append(out, d)
	}
	return out
}
