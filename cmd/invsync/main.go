// Invsync - IP Fabric to NetBox inventory synchronization
//
// A CLI tool that migrates discovered network inventory into NetBox:
//   - Sites, device roles, platforms, and wireless LANs
//   - Device types and module types resolved against the community
//     device type library by fuzzy match
//   - Devices, with stack and VSS members expanded into per-member records
//   - Installed modules matched to their bays
//   - Cables from the discovered connectivity matrix
//
// Each import is a subcommand and can run on its own; `invsync all` runs
// the full pipeline in dependency order:
//
//	invsync config init
//	invsync sites
//	invsync all --branch migration-2026
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netgrid-labs/invsync/pkg/config"
	"github.com/netgrid-labs/invsync/pkg/importer"
	"github.com/netgrid-labs/invsync/pkg/util"
)

var (
	// Global option flags
	envFile string // -e, --env
	branch  string // -b, --branch
	verbose bool   // -v, --verbose

	// Global state
	cfg    *config.Config
	runner *importer.Runner
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "invsync",
	Short:             "IP Fabric to NetBox inventory synchronization",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Invsync migrates discovered network inventory from IP Fabric into NetBox.

Connection settings come from a .env file (create one with 'invsync config init').
Each import is a subcommand; 'invsync all' runs the full pipeline in order.

  invsync sites
  invsync device-types
  invsync all --branch migration-2026`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if isConfigOrHelp(cmd) {
			return nil
		}

		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("info")
		}

		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w\nRun 'invsync config init' to create a .env file", err)
		}

		runner = importer.New(cfg)
		if branch != "" {
			runner.NB.SetBranch(branch)
			util.Infof("Writes routed to branch %q", branch)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Path to .env file (default ./.env)")
	rootCmd.PersistentFlags().StringVarP(&branch, "branch", "b", "", "NetBox branch to write into instead of main")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "reference", Title: "Reference Data Imports:"},
		&cobra.Group{ID: "inventory", Title: "Inventory Imports:"},
	)
	for _, cmd := range []*cobra.Command{
		sitesCmd, rolesCmd, platformsCmd, wirelessCmd, virtualChassisCmd,
	} {
		cmd.GroupID = "reference"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		deviceTypesCmd, devicesCmd, vdcsCmd, modulesCmd, cablesCmd, allCmd,
	} {
		cmd.GroupID = "inventory"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// isConfigOrHelp checks whether cmd (or any ancestor) is a config, help, or
// version command; these run without loaded connection settings.
func isConfigOrHelp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "config", "completion":
			return true
		}
	}
	return false
}
