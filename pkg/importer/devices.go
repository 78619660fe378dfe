package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/netgrid-labs/invsync/pkg/ipfabric"
	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// vcGroups collects the stack and VSS member rows per master device. Stack
// rows locate their master by the stack serial against device hardware
// serials; VSS rows by hostname. Rows whose master is not in the device
// inventory are dropped.
func vcGroups(devices []resolve.RawDevice, stacks []ipfabric.StackMember, vss []ipfabric.VSSChassis,
	pidBySN map[string]string) (vcTypes map[string]string, members map[string][]resolve.VCMember) {

	vcTypes = make(map[string]string)
	members = make(map[string][]resolve.VCMember)

	byHostname := make(map[string]resolve.RawDevice, len(devices))
	bySNHw := make(map[string]string, len(devices))
	for _, d := range devices {
		byHostname[d.Hostname] = d
		bySNHw[d.SNHw] = d.Hostname
	}

	for _, row := range stacks {
		host, ok := bySNHw[row.SN]
		if !ok {
			continue
		}
		vcTypes[host] = "stack"
		members[host] = append(members[host], resolve.VCMember{
			Index:  row.Member,
			Model:  row.PN,
			Serial: row.MemberSN,
			Role:   row.Role,
		})
	}

	for _, row := range vss {
		d, ok := byHostname[row.Hostname]
		if !ok {
			continue
		}
		model := util.CoalesceString(pidBySN[row.SN], d.Model)
		vcTypes[row.Hostname] = "vss"
		members[row.Hostname] = append(members[row.Hostname], resolve.VCMember{
			Index:  row.ChassisID,
			Model:  model,
			Serial: row.SN,
			Role:   row.State,
		})
	}
	return vcTypes, members
}

// expandAll turns the raw device list into per-member device records,
// expanding virtual chassis masters and passing standalone devices through.
func expandAll(devices []resolve.RawDevice, vcTypes map[string]string, members map[string][]resolve.VCMember) []resolve.ExpandedDevice {
	var out []resolve.ExpandedDevice
	for _, d := range devices {
		if ms := members[d.Hostname]; len(ms) > 0 {
			out = append(out, resolve.ExpandMembers(d, vcTypes[d.Hostname], ms)...)
		} else {
			out = append(out, resolve.ExpandedDevice{RawDevice: d})
		}
	}
	return out
}

// ImportDevices creates or updates a registry device for every discovered
// device, expanding stacks and VSS pairs into per-member devices, then links
// virtual chassis masters and renumbers member interfaces and bays.
func (r *Runner) ImportDevices(ctx context.Context) error {
	log := util.WithImport("devices")

	ipfDevices, err := r.IPF.FetchDevices(ctx)
	if err != nil {
		return err
	}
	stacks, err := r.IPF.FetchStackMembers(ctx)
	if err != nil {
		return err
	}
	vss, err := r.IPF.FetchVSSChassis(ctx)
	if err != nil {
		return err
	}
	parts, err := r.IPF.FetchPartNumbers(ctx)
	if err != nil {
		return err
	}
	pidBySN := make(map[string]string, len(parts))
	for _, p := range parts {
		if p.PID != "" && p.SN != "" {
			if _, ok := pidBySN[p.SN]; !ok {
				pidBySN[p.SN] = p.PID
			}
		}
	}

	raw := make([]resolve.RawDevice, 0, len(ipfDevices))
	for _, d := range ipfDevices {
		raw = append(raw, resolve.RawDevice{
			Hostname: d.Hostname,
			SN:       d.SN,
			SNHw:     d.SNHw,
			SiteName: d.SiteName,
			IPv4:     d.LoginIP4,
			IPv6:     d.LoginIP6,
			Vendor:   d.Vendor,
			Family:   d.Family,
			Platform: d.Platform,
			Model:    d.Model,
			Version:  d.Version,
			DevType:  d.DevType,
		})
	}
	vcTypes, members := vcGroups(raw, stacks, vss, pidBySN)
	expanded := expandAll(raw, vcTypes, members)
	log.Infof("Expanded %d discovered devices into %d device records", len(raw), len(expanded))

	lookups, err := r.deviceLookups(ctx)
	if err != nil {
		return err
	}
	existing, err := r.NB.Devices(ctx)
	if err != nil {
		return err
	}
	existingByName := make(map[string]int, len(existing))
	for _, d := range existing {
		existingByName[d.Name] = d.ID
	}

	run, err := r.newRun("devices")
	if err != nil {
		return err
	}

	stamp := time.Now().Format("2006-01-02 15:04:05")
	var sum report.Summary
	var failures []report.Failure
	var vcMasters [][2]int // VC ID, device ID
	var vcMembers [][2]int // device ID, member index

	bar := progress("Importing devices", len(expanded))
	for _, d := range expanded {
		res := lookups.ResolveDevice(d)
		if !res.Loadable() {
			sum.Skipped++
			failures = append(failures, report.Failure{
				Fields:  []string{d.Hostname, d.Model, d.DevType, d.SiteName},
				Reasons: res.Missing,
			})
			bump(bar)
			continue
		}

		payload := map[string]any{
			"name":        d.Hostname,
			"device_type": res.TypeID,
			"role":        res.RoleID,
			"serial":      d.SN,
			"site":        res.SiteID,
			"status":      "active",
			"description": "Imported from IP Fabric",
			"comments":    "Updated on " + stamp,
		}
		if res.PlatformID != 0 {
			payload["platform"] = res.PlatformID
		}
		if res.VCID != 0 {
			payload["virtual_chassis"] = res.VCID
		}
		if d.Member > 0 {
			payload["vc_position"] = d.Member
		}

		var deviceID int
		if id, ok := existingByName[d.Hostname]; ok {
			if _, err := r.NB.Patch(ctx, fmt.Sprintf("dcim/devices/%d/", id), payload); err != nil {
				sum.Failed++
				util.WithDevice(d.Hostname).Errorf("Updating device: %v", err)
				bump(bar)
				continue
			}
			sum.Updated++
			deviceID = id
		} else {
			c, ok := r.create(ctx, "dcim/devices/", payload, &sum)
			if !ok {
				bump(bar)
				continue
			}
			deviceID = c.ID
		}

		if res.VCID != 0 && d.VCRole == "active" {
			vcMasters = append(vcMasters, [2]int{res.VCID, deviceID})
		}
		if d.Member >= 2 {
			vcMembers = append(vcMembers, [2]int{deviceID, d.Member})
		}
		bump(bar)
	}
	finish(bar)

	if err := run.WriteFailures("device", []string{"hostname", "model", "devType", "site"}, failures); err != nil {
		return err
	}

	for _, m := range vcMasters {
		if _, err := r.NB.Patch(ctx, fmt.Sprintf("dcim/virtual-chassis/%d/", m[0]), map[string]any{"master": m[1]}); err != nil {
			log.Warnf("Linking master device %d to virtual chassis %d: %v", m[1], m[0], err)
		}
	}
	log.Infof("Linked %d virtual chassis masters", len(vcMasters))

	bar = progress("Renumbering member components", len(vcMembers))
	for _, m := range vcMembers {
		r.renumberMemberBays(ctx, m[0], m[1])
		r.renumberMemberInterfaces(ctx, m[0], m[1])
		bump(bar)
	}
	finish(bar)

	log.Infof("Device import complete: %s", sum.String())
	return nil
}

// deviceLookups builds the registry lookup tables for device resolution.
func (r *Runner) deviceLookups(ctx context.Context) (*resolve.DeviceLookups, error) {
	lookups := resolve.NewDeviceLookups(r.Cfg.ModelSensitivity)

	types, err := r.NB.DeviceTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		lookups.AddDeviceType(t.PartNumber, t.ID)
	}
	roles, err := r.NB.DeviceRoles(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		lookups.AddRole(role.Name, role.ID)
	}
	sites, err := r.NB.Sites(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sites {
		lookups.AddSite(s.Name, s.ID)
	}
	platforms, err := r.NB.Platforms(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range platforms {
		lookups.AddPlatform(p.Name, p.ID)
	}
	chassis, err := r.NB.VirtualChassisList(ctx)
	if err != nil {
		return nil, err
	}
	for _, vc := range chassis {
		lookups.AddVirtualChassis(vc.Name, vc.ID)
	}
	return lookups, nil
}
