package importer

import (
	"context"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportPlatforms creates a registry platform for every vendor/family
// combination, linked to its manufacturer when one exists.
func (r *Runner) ImportPlatforms(ctx context.Context) error {
	log := util.WithImport("platforms")

	families, err := r.IPF.FetchFamilySummary(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d device families from discovery", len(families))

	manufacturers, err := r.NB.Manufacturers(ctx)
	if err != nil {
		return err
	}
	mfrByName := make(map[string]int, len(manufacturers))
	for _, m := range manufacturers {
		mfrByName[util.NormalizeKey(m.Name)] = m.ID
	}

	var sum report.Summary
	bar := progress("Importing platforms", len(families))
	for _, f := range families {
		payload := map[string]any{
			"name":        f.Family,
			"slug":        util.Slugify(f.Family),
			"description": "Imported from IP Fabric",
		}
		if id, ok := mfrByName[util.NormalizeKey(f.Vendor)]; ok {
			payload["manufacturer"] = id
		}
		r.create(ctx, "dcim/platforms/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	log.Infof("Platform import complete: %s", sum.String())
	return nil
}
