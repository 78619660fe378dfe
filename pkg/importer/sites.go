package importer

import (
	"context"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportSites creates a registry site for every site the discovery inventory
// reports.
func (r *Runner) ImportSites(ctx context.Context) error {
	log := util.WithImport("sites")

	sites, err := r.IPF.FetchSites(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d sites from discovery", len(sites))

	var sum report.Summary
	bar := progress("Importing sites", len(sites))
	for _, s := range sites {
		payload := map[string]any{
			"name":        s.SiteName,
			"slug":        util.Slugify(s.SiteName),
			"description": "Imported from IP Fabric",
		}
		r.create(ctx, "dcim/sites/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	log.Infof("Site import complete: %s", sum.String())
	return nil
}
