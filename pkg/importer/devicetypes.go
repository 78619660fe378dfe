package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netgrid-labs/invsync/pkg/ipfabric"
	"github.com/netgrid-labs/invsync/pkg/netbox"
	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/typelib"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// uniqueVendors extracts the distinct vendor names from the component
// inventory in first-seen order. The component table carries vendors that
// only appear in modules, never as whole devices.
func uniqueVendors(parts []string) []string {
	return util.DedupeStrings(parts)
}

// vendorModules groups the distinct module part IDs per vendor, both in
// first-seen order.
func vendorModules(parts []struct{ Vendor, PID string }) (vendors []string, byVendor map[string][]string) {
	byVendor = make(map[string][]string)
	seen := make(map[string]bool)
	for _, p := range parts {
		if p.Vendor == "" || p.PID == "" {
			continue
		}
		key := p.Vendor + "\x00" + p.PID
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := byVendor[p.Vendor]; !ok {
			vendors = append(vendors, p.Vendor)
		}
		byVendor[p.Vendor] = append(byVendor[p.Vendor], p.PID)
	}
	return vendors, byVendor
}

// ImportDeviceTypes syncs the device type library and creates manufacturers,
// device types with their component templates and elevation images, and
// module types, all resolved by fuzzy match against the library.
func (r *Runner) ImportDeviceTypes(ctx context.Context) error {
	log := util.WithImport("device-types")

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	resolver := &resolve.DeviceTypeResolver{
		Lib:               lib,
		VendorSensitivity: r.Cfg.VendorSensitivity,
		ModelSensitivity:  r.Cfg.ModelSensitivity,
		ImageSensitivity:  r.Cfg.ImageSensitivity,
	}

	run, err := r.newRun("device-types")
	if err != nil {
		return err
	}

	parts, err := r.IPF.FetchPartNumbers(ctx)
	if err != nil {
		return err
	}

	manufacturers, err := r.importManufacturers(ctx, run, resolver, parts, log)
	if err != nil {
		return err
	}
	if err := r.importModelTypes(ctx, run, resolver, manufacturers, log); err != nil {
		return err
	}
	if err := r.importModuleTypes(ctx, run, resolver, manufacturers, parts, log); err != nil {
		return err
	}
	return nil
}

// importManufacturers creates a manufacturer for every distinct vendor in
// the component inventory and returns the full registry manufacturer table,
// keyed by lowercased name.
func (r *Runner) importManufacturers(ctx context.Context, run *report.Run, resolver *resolve.DeviceTypeResolver,
	parts []ipfabric.PartNumber, log *logrus.Entry) (map[string]int, error) {

	vendorNames := make([]string, 0, len(parts))
	for _, p := range parts {
		vendorNames = append(vendorNames, p.Vendor)
	}
	vendors := uniqueVendors(vendorNames)
	log.Infof("Found %d distinct vendors in component inventory", len(vendors))

	existing, err := r.NB.Manufacturers(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(existing))
	for _, m := range existing {
		byName[util.NormalizeKey(m.Name)] = m.ID
	}

	var sum report.Summary
	var mappings []report.Mapping
	var failures []report.Failure
	bar := progress("Importing manufacturers", len(vendors))
	for _, vendor := range vendors {
		res := resolver.ResolveManufacturer(vendor)
		mappings = append(mappings, report.MappingFromResult(vendor, res))

		name := res.Candidate
		if !res.Matched {
			// No library directory close enough; the vendor is still created
			// under its discovery name so device rows can reference it.
			name = vendor
			failures = append(failures, report.Failure{Fields: []string{vendor}, Reasons: []string{"no_library_manufacturer"}})
		}
		payload := map[string]any{
			"name": name,
			"slug": util.Slugify(vendor),
		}
		if c, ok := r.create(ctx, "dcim/manufacturers/", payload, &sum); ok {
			byName[util.NormalizeKey(name)] = c.ID
		}
		bump(bar)
	}
	finish(bar)

	if err := run.WriteMappings("vendor", mappings); err != nil {
		return nil, err
	}
	if err := run.WriteFailures("vendor", []string{"vendor"}, failures); err != nil {
		return nil, err
	}
	log.Infof("Manufacturer import complete: %s", sum.String())
	return byName, nil
}

// importModelTypes creates a device type for every distinct model, including
// models synthesized from stack member part numbers, with its component
// templates and elevation images.
func (r *Runner) importModelTypes(ctx context.Context, run *report.Run, resolver *resolve.DeviceTypeResolver,
	manufacturers map[string]int, log *logrus.Entry) error {

	summary, err := r.IPF.FetchModelSummary(ctx)
	if err != nil {
		return err
	}
	members, err := r.IPF.FetchStackMembers(ctx)
	if err != nil {
		return err
	}
	devices, err := r.IPF.FetchDevices(ctx)
	if err != nil {
		return err
	}

	models := make([]resolve.ModelRecord, 0, len(summary))
	for _, m := range summary {
		models = append(models, resolve.ModelRecord{Vendor: m.Vendor, Family: m.Family, Platform: m.Platform, Model: m.Model})
	}
	memberParts := make([]resolve.MemberPart, 0, len(members))
	for _, m := range members {
		memberParts = append(memberParts, resolve.MemberPart{Master: m.Master, PN: m.PN})
	}
	contexts := make(map[string]resolve.DeviceContext, len(devices))
	for _, d := range devices {
		contexts[d.Hostname] = resolve.DeviceContext{Vendor: d.Vendor, Family: d.Family, Platform: d.Platform}
	}
	models = resolve.SynthesizeMemberModels(models, memberParts, contexts)
	log.Infof("Resolving %d device models against the type library", len(models))

	var sum report.Summary
	var mappings, imageMappings []report.Mapping
	var failures []report.Failure
	bar := progress("Importing device types", len(models))
	for _, rec := range models {
		res := resolver.Resolve(rec)
		if res.ModelMatch.Candidate != "" || res.VendorMatch.Matched {
			mappings = append(mappings, report.MappingFromResult(rec.Model, res.ModelMatch))
		}
		if res.TemplatePath == "" {
			sum.Skipped++
			failures = append(failures, report.Failure{
				Fields:  []string{rec.Vendor, rec.Model},
				Reasons: []string{"no_library_match"},
			})
			bump(bar)
			continue
		}

		mfrID, ok := manufacturers[util.NormalizeKey(res.Manufacturer)]
		if !ok {
			mfrID, ok = manufacturers[util.NormalizeKey(rec.Vendor)]
		}
		if !ok {
			sum.Skipped++
			log.Warnf("No registry manufacturer for vendor %s, skipping model %s", rec.Vendor, rec.Model)
			bump(bar)
			continue
		}

		tpl, err := resolver.LoadTemplate(res, mfrID)
		if err != nil {
			sum.Failed++
			log.Errorf("Loading template for %s: %v", rec.Model, err)
			bump(bar)
			continue
		}

		c, ok := r.create(ctx, "dcim/device-types/", tpl.Payload(), &sum)
		if !ok {
			bump(bar)
			continue
		}
		r.createComponents(ctx, tpl, "device_type", c.ID, &sum)
		imageMappings = append(imageMappings, r.attachImages(ctx, resolver, c, res.Manufacturer, log)...)
		bump(bar)
	}
	finish(bar)

	if err := run.WriteMappings("model", mappings); err != nil {
		return err
	}
	if err := run.WriteMappings("image", imageMappings); err != nil {
		return err
	}
	if err := run.WriteFailures("model", []string{"vendor", "model"}, failures); err != nil {
		return err
	}
	log.Infof("Device type import complete: %s", sum.String())
	return nil
}

// attachImages finds and uploads front and rear elevation images for a
// created device type. Image problems are reported but never fail the import.
func (r *Runner) attachImages(ctx context.Context, resolver *resolve.DeviceTypeResolver,
	c created, manufacturer string, log *logrus.Entry) []report.Mapping {

	var mappings []report.Mapping
	for _, img := range resolver.MatchImages(c.Slug, manufacturer) {
		mappings = append(mappings, report.MappingFromResult(c.Slug, img.Result))

		f, err := os.Open(img.Path)
		if err != nil {
			log.Warnf("Opening elevation image %s: %v", img.Path, err)
			continue
		}
		endpoint := fmt.Sprintf("dcim/device-types/%d/", c.ID)
		if err := r.NB.PatchFile(ctx, endpoint, img.Side+"_image", filepath.Base(img.Path), f); err != nil {
			log.Warnf("Attaching %s image to device type %d: %v", img.Side, c.ID, err)
		}
		f.Close()
	}
	return mappings
}

// importModuleTypes creates a module type for every distinct vendor/part ID
// pair in the component inventory.
func (r *Runner) importModuleTypes(ctx context.Context, run *report.Run, resolver *resolve.DeviceTypeResolver,
	manufacturers map[string]int, parts []ipfabric.PartNumber, log *logrus.Entry) error {

	pairs := make([]struct{ Vendor, PID string }, 0, len(parts))
	for _, p := range parts {
		pairs = append(pairs, struct{ Vendor, PID string }{p.Vendor, p.PID})
	}
	vendors, byVendor := vendorModules(pairs)

	profiles, err := r.moduleProfiles(ctx)
	if err != nil {
		return err
	}

	var sum report.Summary
	var mappings []report.Mapping
	var failures []report.Failure
	for _, vendor := range vendors {
		vres := resolver.ResolveManufacturer(vendor)
		if !vres.Matched {
			for range byVendor[vendor] {
				sum.Skipped++
			}
			continue
		}
		manufacturer := vres.Candidate
		mfrID, ok := manufacturers[util.NormalizeKey(manufacturer)]
		if !ok {
			log.Warnf("No registry manufacturer for vendor %s, skipping its module types", vendor)
			continue
		}

		modules := byVendor[vendor]
		bar := progress("Importing "+vendor+" module types", len(modules))
		for _, pid := range modules {
			path, res := resolver.ResolveModuleType(manufacturer, pid, r.Cfg.ModuleSensitivity)
			mappings = append(mappings, report.MappingFromResult(pid, res))
			if path == "" {
				sum.Skipped++
				failures = append(failures, report.Failure{
					Fields:  []string{vendor, pid},
					Reasons: []string{"no_library_match"},
				})
				bump(bar)
				continue
			}

			tpl, err := typelib.LoadTemplate(path)
			if err != nil {
				sum.Failed++
				log.Errorf("Loading module template %s: %v", path, err)
				bump(bar)
				continue
			}
			tpl.SetManufacturerID(mfrID)

			payload := tpl.Payload()
			if id := moduleProfileID(tpl, profiles); id != 0 {
				payload["profile"] = id
			}
			c, ok := r.create(ctx, "dcim/module-types/", payload, &sum)
			if ok {
				r.createComponents(ctx, tpl, "module_type", c.ID, &sum)
			}
			bump(bar)
		}
		finish(bar)
	}

	if err := run.WriteMappings("module_type", mappings); err != nil {
		return err
	}
	if err := run.WriteFailures("module_type", []string{"vendor", "module"}, failures); err != nil {
		return err
	}
	log.Infof("Module type import complete: %s", sum.String())
	return nil
}

// createComponents posts every component template carried in a definition
// file to its per-class endpoint, tagged with the owning type ID. Component
// failures are logged per item; the type itself already exists.
func (r *Runner) createComponents(ctx context.Context, tpl *typelib.Template, ownerField string, ownerID int, sum *report.Summary) {
	for _, kind := range typelib.ComponentKinds {
		for _, comp := range tpl.Components(kind) {
			payload := make(map[string]any, len(comp)+1)
			for k, v := range comp {
				payload[k] = v
			}
			payload[ownerField] = ownerID
			if _, err := r.NB.Create(ctx, kind.Endpoint(), payload); err != nil && !netbox.IsDuplicate(err) {
				sum.Failed++
				util.Errorf("Creating %s template for %s %d: %v", kind, ownerField, ownerID, err)
			}
		}
	}
}

// moduleProfiles maps registry module type profile names to IDs. A registry
// without profiles (older releases) yields an empty map.
func (r *Runner) moduleProfiles(ctx context.Context) (map[string]int, error) {
	profiles, err := r.NB.ModuleTypeProfiles(ctx)
	if err != nil {
		util.Warnf("Module type profiles unavailable: %v", err)
		return map[string]int{}, nil
	}
	out := make(map[string]int, len(profiles))
	for _, p := range profiles {
		out[util.NormalizeKey(p.Name)] = p.ID
	}
	return out, nil
}

// moduleProfileID picks the profile for a module type from its template
// contents: power supplies carry power ports, expansion cards carry
// interfaces, fans are named as such.
func moduleProfileID(tpl *typelib.Template, profiles map[string]int) int {
	switch {
	case len(tpl.Components(typelib.KindPowerPort)) > 0:
		return profiles["power supply"]
	case len(tpl.Components(typelib.KindInterface)) > 0:
		return profiles["expansion card"]
	case strings.Contains(strings.ToLower(tpl.Model()), "fan"):
		return profiles["fan"]
	}
	return 0
}
