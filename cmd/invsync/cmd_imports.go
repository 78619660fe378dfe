package main

import (
	"context"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Import sites",
	Long:  "Import every site from the IP Fabric inventory into NetBox.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportSites(context.Background())
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Import device roles",
	Long: `Import a device role for every device type IP Fabric reports.

Role colors come from NetBoxDeviceRoleColorMappings.json in the data
directory; unmapped roles default to grey.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportRoles(context.Background())
	},
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Import platforms",
	Long:  "Import a platform for every vendor/family combination, linked to its manufacturer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportPlatforms(context.Background())
	},
}

var wirelessCmd = &cobra.Command{
	Use:   "wireless",
	Short: "Import wireless LANs",
	Long:  "Import a wireless LAN for every SSID in the IP Fabric wireless summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportWireless(context.Background())
	},
}

var virtualChassisCmd = &cobra.Command{
	Use:   "virtual-chassis",
	Short: "Import virtual chassis",
	Long: `Import a virtual chassis for every switch stack and VSS pair.

Chassis already in NetBox are kept; chassis NetBox has that IP Fabric no
longer reports get flagged in their description.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportVirtualChassis(context.Background())
	},
}

var deviceTypesCmd = &cobra.Command{
	Use:   "device-types",
	Short: "Import device types and module types",
	Long: `Import manufacturers, device types, and module types.

The community device type library is cloned (or pulled) into the data
directory, and every discovered model is resolved against it by fuzzy
match. Matched definitions are created with their component templates and
elevation images. Mapping and error reports are written per run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportDeviceTypes(context.Background())
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Import devices",
	Long: `Import every discovered device, creating or updating by name.

Stack and VSS masters are expanded into per-member devices named
"<master>/<member>". Masters are linked to their virtual chassis and
member interface and bay names are renumbered to the member's index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportDevices(context.Background())
	},
}

var vdcsCmd = &cobra.Command{
	Use:   "vdcs",
	Short: "Import virtual device contexts",
	Long:  "Import a virtual device context for every context IP Fabric reports. Run the devices import first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportVDCs(context.Background())
	},
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Import installed modules",
	Long: `Import installed modules from the IP Fabric component inventory.

Components are classified per ModuleClassificationRules.yaml and matched
to module types and bays. SFPs load after all other categories so they can
land in bays replicated by earlier module creates.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportModules(context.Background())
	},
}

var cablesCmd = &cobra.Command{
	Use:   "cables",
	Short: "Import cables",
	Long: `Import a cable for every edge of the IP Fabric connectivity matrix.

Cable media and colors come from NetBoxCableTypeMappings.json in the data
directory; the file is required. Edges whose endpoints are missing from
NetBox are skipped and reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportCables(context.Background())
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run every import in order",
	Long: `Run the full import pipeline in dependency order:
sites, roles, platforms, wireless, virtual-chassis, device-types,
devices, vdcs, modules, cables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runner.ImportAll(context.Background())
	},
}
