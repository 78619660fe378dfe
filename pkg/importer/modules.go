package importer

import (
	"context"
	"fmt"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// moduleFailureHeader names the identifying columns in module error reports.
var moduleFailureHeader = []string{"hostname", "name", "pid", "sn", "dscr"}

// ImportModules creates an installed module for every usable component row:
// filter the inventory, tag stack member components, classify into
// categories, and resolve each against the registry's types, devices, and
// bays. SFPs load last since earlier module creates can replicate new bays,
// and member devices get their bay and interface names renumbered in between.
func (r *Runner) ImportModules(ctx context.Context) error {
	log := util.WithImport("modules")

	rules, err := r.rules()
	if err != nil {
		return err
	}
	run, err := r.newRun("modules")
	if err != nil {
		return err
	}

	parts, err := r.IPF.FetchPartNumbers(ctx)
	if err != nil {
		return err
	}
	modules := make([]resolve.Module, 0, len(parts))
	for _, p := range parts {
		modules = append(modules, resolve.Module{
			Hostname: p.Hostname,
			Name:     p.Name,
			Dscr:     p.Dscr,
			PID:      p.PID,
			SN:       p.SN,
			DeviceSN: p.DeviceSN,
			Model:    p.Model,
		})
	}
	filtered := resolve.TagVCMembers(resolve.FilterModules(modules))
	buckets := rules.ClassifyAll(filtered)
	log.Infof("Classified %d of %d component rows into %d categories",
		len(filtered), len(modules), len(buckets))

	nbDevices, err := r.NB.Devices(ctx)
	if err != nil {
		return err
	}
	devices := resolve.NewDeviceIndex()
	deviceNames := make(map[string]int, len(nbDevices))
	for _, d := range nbDevices {
		devices.Add(d.Name, d.ID)
		deviceNames[d.Name] = d.ID
	}

	nbTypes, err := r.NB.ModuleTypes(ctx)
	if err != nil {
		return err
	}
	types := resolve.NewModuleTypeIndex()
	for _, t := range nbTypes {
		types.Add(t.PartNumber, t.Model, t.ID)
	}

	bays, err := r.bayIndex(ctx)
	if err != nil {
		return err
	}
	resolver := &resolve.ModuleResolver{
		Rules:       rules,
		Types:       types,
		Devices:     devices,
		Bays:        bays,
		Sensitivity: r.Cfg.ModuleSensitivity,
	}

	var sum report.Summary
	for _, cat := range rules.Categories() {
		if cat == resolve.CategorySFP {
			continue
		}
		bucket := buckets[cat]
		if len(bucket) == 0 {
			continue
		}
		catSum := r.loadModuleBucket(ctx, run, resolver, string(cat), bucket)
		sum.Add(catSum)
	}

	members := memberDevices(deviceNames)
	bar := progress("Renumbering member bays", len(members))
	for _, m := range members {
		r.renumberMemberBays(ctx, m[0], m[1])
		bump(bar)
	}
	finish(bar)

	// Module creation can have replicated fresh bays onto devices, and the
	// renumber pass just renamed member bays, so SFPs resolve against a
	// re-read of the bay table.
	if sfps := buckets[resolve.CategorySFP]; len(sfps) > 0 {
		resolver.Bays, err = r.bayIndex(ctx)
		if err != nil {
			return err
		}
		catSum := r.loadModuleBucket(ctx, run, resolver, string(resolve.CategorySFP), sfps)
		sum.Add(catSum)
	}

	bar = progress("Renumbering member interfaces", len(members))
	for _, m := range members {
		r.renumberMemberInterfaces(ctx, m[0], m[1])
		bump(bar)
	}
	finish(bar)

	log.Infof("Module import complete: %s", sum.String())
	return nil
}

// loadModuleBucket resolves and creates one category of modules, writing the
// per-category error report.
func (r *Runner) loadModuleBucket(ctx context.Context, run *report.Run, resolver *resolve.ModuleResolver,
	category string, bucket []resolve.Module) report.Summary {

	endpoint := fmt.Sprintf("dcim/modules/?replicate_components=%t&adopt_components=%t",
		r.Cfg.ReplicateComponents, r.Cfg.AdoptComponents)

	var sum report.Summary
	var failures []report.Failure
	bar := progress("Importing "+category+" modules", len(bucket))
	for _, m := range bucket {
		res := resolver.Resolve(m)
		if !res.OK() {
			sum.Skipped++
			failures = append(failures, report.Failure{
				Fields:  []string{m.Hostname, m.Name, m.PID, m.SN, m.Dscr},
				Reasons: res.Reasons,
			})
			bump(bar)
			continue
		}
		payload := map[string]any{
			"device":      res.DeviceID,
			"module_bay":  res.Bay.ID,
			"module_type": res.ModuleTypeID,
			"status":      "active",
			"serial":      m.SN,
			"description": m.Dscr,
			"comments":    "Imported from IP Fabric.",
		}
		r.create(ctx, endpoint, payload, &sum)
		bump(bar)
	}
	finish(bar)

	if err := run.WriteFailures(category, moduleFailureHeader, failures); err != nil {
		util.Errorf("Writing %s module error report: %v", category, err)
	}
	util.WithImport("modules").Infof("Category %s: %s", category, sum.String())
	return sum
}

// bayIndex reads the full registry module bay table into a per-device index.
func (r *Runner) bayIndex(ctx context.Context) (*resolve.BayIndex, error) {
	nbBays, err := r.NB.ModuleBays(ctx, 0)
	if err != nil {
		return nil, err
	}
	idx := resolve.NewBayIndex()
	for _, b := range nbBays {
		idx.Add(b.Device.ID, resolve.Bay{ID: b.ID, Name: b.Name, Position: b.Position})
	}
	return idx, nil
}
