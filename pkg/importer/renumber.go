package importer

import (
	"context"
	"fmt"
	"sort"

	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// Member devices are created from the master's type template, so their
// interface-like bay and interface names all carry member index 1. These
// passes renumber them to the member's own index after import.

// renumberMemberBays renumbers the interface-like module bay names and
// positions of one member device. PSU, fan, and supervisor bays pass through.
func (r *Runner) renumberMemberBays(ctx context.Context, deviceID, member int) {
	bays, err := r.NB.ModuleBays(ctx, deviceID)
	if err != nil {
		util.Warnf("Listing module bays for device %d: %v", deviceID, err)
		return
	}
	for _, bay := range bays {
		if !resolve.IsMemberRenamable(bay.Name) {
			continue
		}
		payload := map[string]any{}
		if newName := resolve.RewriteMemberString(bay.Name, member); newName != bay.Name {
			payload["name"] = newName
			payload["display"] = newName
		}
		if newPos := resolve.RewriteMemberString(bay.Position, member); newPos != bay.Position {
			payload["position"] = newPos
		}
		if len(payload) == 0 {
			continue
		}
		endpoint := fmt.Sprintf("dcim/module-bays/%d/", bay.ID)
		if _, err := r.NB.Patch(ctx, endpoint, payload); err != nil {
			util.Warnf("Renumbering bay %s on device %d: %v", bay.Name, deviceID, err)
		}
	}
}

// renumberMemberInterfaces renumbers the interface names of one member device.
func (r *Runner) renumberMemberInterfaces(ctx context.Context, deviceID, member int) {
	ifaces, err := r.NB.Interfaces(ctx, deviceID)
	if err != nil {
		util.Warnf("Listing interfaces for device %d: %v", deviceID, err)
		return
	}
	for _, iface := range ifaces {
		if !resolve.IsMemberRenamable(iface.Name) {
			continue
		}
		newName := resolve.RewriteMemberString(iface.Name, member)
		if newName == iface.Name {
			continue
		}
		endpoint := fmt.Sprintf("dcim/interfaces/%d/", iface.ID)
		if _, err := r.NB.Patch(ctx, endpoint, map[string]any{"name": newName}); err != nil {
			util.Warnf("Renumbering interface %s on device %d: %v", iface.Name, deviceID, err)
		}
	}
}

// memberDevices extracts (device ID, member index) pairs for registry devices
// whose names carry a member suffix of 2 or higher, sorted by device ID so
// the renumbering pass runs in the same order every time.
func memberDevices(names map[string]int) [][2]int {
	var out [][2]int
	for name, id := range names {
		if m := resolve.MemberIndexFromHostname(name); m >= 2 {
			out = append(out, [2]int{id, m})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
