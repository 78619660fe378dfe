package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/netgrid-labs/invsync/pkg/cli"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// ImportAll runs every import in dependency order: reference data first,
// then device types, devices, and finally the objects that hang off devices.
// The pipeline stops at the first failing step; a status table for the steps
// that ran is printed either way.
func (r *Runner) ImportAll(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"sites", r.ImportSites},
		{"roles", r.ImportRoles},
		{"platforms", r.ImportPlatforms},
		{"wireless", r.ImportWireless},
		{"virtual-chassis", r.ImportVirtualChassis},
		{"device-types", r.ImportDeviceTypes},
		{"devices", r.ImportDevices},
		{"vdcs", r.ImportVDCs},
		{"modules", r.ImportModules},
		{"cables", r.ImportCables},
	}

	table := cli.NewTable("STEP", "STATUS", "DURATION")
	var failed error
	for _, step := range steps {
		util.Infof("Starting %s import", step.name)
		start := time.Now()
		err := step.run(ctx)
		elapsed := time.Since(start).Round(time.Second)

		if err != nil {
			table.Row(step.name, cli.Red("failed"), elapsed.String())
			failed = fmt.Errorf("%s import: %w", step.name, err)
			break
		}
		table.Row(step.name, cli.Green("ok"), elapsed.String())
	}
	table.Flush()
	return failed
}
