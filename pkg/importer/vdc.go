package importer

import (
	"context"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportVDCs creates a virtual device context for every context discovery
// reports, attached to its hosting device. Contexts whose device is not in
// the registry yet are skipped; run the devices import first.
func (r *Runner) ImportVDCs(ctx context.Context) error {
	log := util.WithImport("vdcs")

	contexts, err := r.IPF.FetchDeviceContexts(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d device contexts from discovery", len(contexts))

	nbDevices, err := r.NB.Devices(ctx)
	if err != nil {
		return err
	}
	devices := resolve.NewDeviceIndex()
	for _, d := range nbDevices {
		devices.Add(d.Name, d.ID)
	}

	var sum report.Summary
	bar := progress("Importing device contexts", len(contexts))
	for _, c := range contexts {
		deviceID, ok := devices.Lookup(c.Hostname)
		if !ok {
			sum.Skipped++
			log.Warnf("Device %s not found in registry, skipping context %s", c.Hostname, c.ContextName)
			bump(bar)
			continue
		}
		payload := map[string]any{
			"device":     deviceID,
			"name":       c.ContextName,
			"identifier": c.ContextID,
			"status":     "active",
			"comments":   "Imported from IP Fabric.",
		}
		r.create(ctx, "dcim/virtual-device-contexts/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	log.Infof("Device context import complete: %s", sum.String())
	return nil
}
