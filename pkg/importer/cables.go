package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportCables creates a cable for every edge of the discovery connectivity
// matrix whose endpoints exist in the registry. The cable medium and color
// come from the operator's interface-type mapping file, which is required.
func (r *Runner) ImportCables(ctx context.Context) error {
	log := util.WithImport("cables")

	cableMap, err := resolve.LoadCableMap(r.DataFile(CableMapFile))
	if err != nil {
		return err
	}
	run, err := r.newRun("cables")
	if err != nil {
		return err
	}

	edges, err := r.IPF.FetchConnections(ctx)
	if err != nil {
		return err
	}
	log.Infof("Fetched %d connectivity edges from discovery", len(edges))

	ifaces, err := r.NB.Interfaces(ctx, 0)
	if err != nil {
		return err
	}
	index := resolve.NewInterfaceIndex()
	for _, i := range ifaces {
		index.Add(i.Device.Name, i.Name, resolve.InterfaceEntry{ID: i.ID, Type: i.Type.Value})
	}

	resolver := &resolve.CableResolver{Interfaces: index, Map: cableMap}

	var sum report.Summary
	var failures []report.Failure
	bar := progress("Importing cables", len(edges))
	for _, e := range edges {
		edge := resolve.Edge{
			Site:       e.SiteName,
			LocalHost:  e.LocalHost,
			LocalInt:   e.LocalInt,
			RemoteHost: e.RemoteHost,
			RemoteInt:  e.RemoteInt,
		}
		res, skip := resolver.Resolve(edge)
		if skip != "" {
			sum.Skipped++
			failures = append(failures, report.Failure{
				Fields:  []string{e.SiteName, e.LocalHost, e.LocalInt, e.RemoteHost, e.RemoteInt},
				Reasons: []string{skip},
			})
			bump(bar)
			continue
		}

		payload := map[string]any{
			"type": res.Cable,
			"a_terminations": []map[string]any{
				{"object_type": "dcim.interface", "object_id": res.LocalID},
			},
			"b_terminations": []map[string]any{
				{"object_type": "dcim.interface", "object_id": res.RemoteID},
			},
			"status":      "connected",
			"label":       fmt.Sprintf("%s to %s", e.LocalHost, e.RemoteHost),
			"description": "Cable from IP Fabric import - Site: " + e.SiteName,
			"comments":    "Imported from IP Fabric",
		}
		if res.Color != "" {
			payload["color"] = strings.ToLower(res.Color)
		}
		r.create(ctx, "dcim/cables/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	if err := run.WriteFailures("cable", []string{"site", "localHost", "localInt", "remoteHost", "remoteInt"}, failures); err != nil {
		return err
	}
	log.Infof("Cable import complete: %s", sum.String())
	return nil
}
