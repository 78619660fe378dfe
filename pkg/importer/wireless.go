package importer

import (
	"context"
	"fmt"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportWireless creates a wireless LAN for every SSID in the discovery
// summary. The radio, AP, client, and controller counts are recorded in the
// description for operator reference.
func (r *Runner) ImportWireless(ctx context.Context) error {
	log := util.WithImport("wireless")

	ssids, err := r.IPF.FetchSSIDs(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d SSIDs from discovery", len(ssids))

	var sum report.Summary
	bar := progress("Importing wireless LANs", len(ssids))
	for _, s := range ssids {
		payload := map[string]any{
			"name": s.SSID,
			"ssid": s.SSID,
			"description": fmt.Sprintf(
				"Imported from IP Fabric - Radio Count: %d, AP Count: %d, Client Count: %d, WLC Count: %d",
				s.RadioCount, s.APCount, s.ClientCount, s.WLCCount),
		}
		r.create(ctx, "wireless/wireless-lans/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	log.Infof("Wireless import complete: %s", sum.String())
	return nil
}
