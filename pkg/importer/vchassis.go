package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// splitVCNames partitions the discovery and registry virtual chassis name
// sets: names to create (in discovery, not in the registry) and registry IDs
// to flag as stale (in the registry, not in discovery). Comparison is case
// insensitive.
func splitVCNames(discovered []string, existing map[string]int) (toAdd []string, stale []int) {
	seen := make(map[string]bool, len(discovered))
	for _, name := range discovered {
		key := util.NormalizeKey(name)
		if key == "" {
			continue
		}
		seen[key] = true
		if _, ok := existing[key]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	for key, id := range existing {
		if !seen[key] {
			stale = append(stale, id)
		}
	}
	return toAdd, stale
}

// ImportVirtualChassis creates a virtual chassis for every stack master and
// VSS system in discovery, and flags registry chassis that discovery no
// longer reports by stamping their description.
func (r *Runner) ImportVirtualChassis(ctx context.Context) error {
	log := util.WithImport("virtual-chassis")

	stacks, err := r.IPF.FetchStacks(ctx)
	if err != nil {
		return err
	}
	vss, err := r.IPF.FetchVSSOverview(ctx)
	if err != nil {
		return err
	}
	var names []string
	for _, s := range stacks {
		names = append(names, s.Master)
	}
	for _, v := range vss {
		names = append(names, v.Hostname)
	}
	log.Infof("Fetched %d virtual chassis from discovery (%d stacks, %d VSS)",
		len(names), len(stacks), len(vss))

	existingList, err := r.NB.VirtualChassisList(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]int, len(existingList))
	for _, vc := range existingList {
		existing[util.NormalizeKey(vc.Name)] = vc.ID
	}

	toAdd, stale := splitVCNames(names, existing)
	log.Infof("%d virtual chassis to create, %d stale in registry", len(toAdd), len(stale))

	var sum report.Summary
	bar := progress("Importing virtual chassis", len(toAdd))
	for _, name := range toAdd {
		payload := map[string]any{
			"name":        name,
			"slug":        util.Slugify(name),
			"description": "Imported from IP Fabric",
		}
		r.create(ctx, "dcim/virtual-chassis/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	stamp := time.Now().Format("2006-01-02 15:04:05")
	for _, id := range stale {
		payload := map[string]any{
			"description": "Not present in IP Fabric - " + stamp,
		}
		if _, err := r.NB.Patch(ctx, fmt.Sprintf("dcim/virtual-chassis/%d/", id), payload); err != nil {
			log.Warnf("Failed to flag stale virtual chassis %d: %v", id, err)
		} else {
			sum.Updated++
		}
	}

	log.Infof("Virtual chassis import complete: %s", sum.String())
	return nil
}
