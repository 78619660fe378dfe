package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// defaultRoleColor is the grey applied to roles without a mapping entry.
const defaultRoleColor = "696969"

// roleColorEntry is one row of the role color mapping file.
type roleColorEntry struct {
	Role  string `json:"role"`
	Color string `json:"Color"`
}

// loadRoleColors reads the optional color mapping file. A missing file means
// every role gets the default color.
func loadRoleColors(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			util.Warnf("Role color mapping file %s not found, using default color", path)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading role color mappings: %w", err)
	}

	var entries []roleColorEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing role color mappings: %w", err)
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[strings.ToLower(strings.TrimSpace(e.Role))] = e.Color
	}
	return out, nil
}

// roleColor resolves a role name to its mapped color.
func roleColor(colors map[string]string, role string) string {
	if c, ok := colors[strings.ToLower(strings.TrimSpace(role))]; ok && c != "" {
		return c
	}
	return defaultRoleColor
}

// uniqueRoles extracts the distinct non-empty device type values in
// first-seen order.
func uniqueRoles(devTypes []string) []string {
	return util.DedupeStrings(devTypes)
}

// ImportRoles creates a device role for every device type the discovery
// inventory reports, colored per the operator mapping file.
func (r *Runner) ImportRoles(ctx context.Context) error {
	log := util.WithImport("roles")

	devices, err := r.IPF.FetchDevices(ctx)
	if err != nil {
		return err
	}
	devTypes := make([]string, 0, len(devices))
	for _, d := range devices {
		devTypes = append(devTypes, d.DevType)
	}
	roles := uniqueRoles(devTypes)
	log.Infof("Found %d distinct device roles across %d devices", len(roles), len(devices))

	colors, err := loadRoleColors(r.DataFile(RoleColorFile))
	if err != nil {
		return err
	}

	var sum report.Summary
	bar := progress("Importing roles", len(roles))
	for _, role := range roles {
		payload := map[string]any{
			"name":        role,
			"slug":        util.Slugify(role),
			"color":       roleColor(colors, role),
			"description": "Imported from IP Fabric",
		}
		r.create(ctx, "dcim/device-roles/", payload, &sum)
		bump(bar)
	}
	finish(bar)

	log.Infof("Role import complete: %s", sum.String())
	return nil
}
