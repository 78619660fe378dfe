// Package importer orchestrates the import pipelines: each import fetches
// source tables from the discovery API, resolves them against registry
// lookups, and loads the results through the registry client, writing mapping
// and error reports along the way.
package importer

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/netgrid-labs/invsync/pkg/config"
	"github.com/netgrid-labs/invsync/pkg/ipfabric"
	"github.com/netgrid-labs/invsync/pkg/netbox"
	"github.com/netgrid-labs/invsync/pkg/report"
	"github.com/netgrid-labs/invsync/pkg/resolve"
	"github.com/netgrid-labs/invsync/pkg/typelib"
	"github.com/netgrid-labs/invsync/pkg/util"
)

// Operator-facing data source files under the configured data directory.
const (
	RoleColorFile   = "NetBoxDeviceRoleColorMappings.json"
	CableMapFile    = "NetBoxCableTypeMappings.json"
	ModuleRulesFile = "ModuleClassificationRules.yaml"
)

// Runner ties the clients and configuration together for one invocation.
// Rules and Lib are loaded lazily by the imports that need them.
type Runner struct {
	IPF   *ipfabric.Client
	NB    *netbox.Client
	Cfg   *config.Config
	Rules *resolve.Rules
	Lib   *typelib.Index
}

// New builds a runner from the loaded configuration.
func New(cfg *config.Config) *Runner {
	return &Runner{
		IPF: ipfabric.NewClient(cfg.IPFBaseURL, cfg.IPFToken, cfg.IPFLimit, cfg.InsecureSkipVerify),
		NB:  netbox.NewClient(cfg.NetBoxBaseURL, cfg.NetBoxToken, cfg.NetBoxLimit, cfg.InsecureSkipVerify),
		Cfg: cfg,
	}
}

// DataFile returns the path of an operator-facing data source file.
func (r *Runner) DataFile(name string) string {
	return filepath.Join(r.Cfg.DataDir, name)
}

func (r *Runner) newRun(importName string) (*report.Run, error) {
	return report.NewRun(r.Cfg.LogDir, importName)
}

// rules returns the module classification rules, loading them on first use.
func (r *Runner) rules() (*resolve.Rules, error) {
	if r.Rules != nil {
		return r.Rules, nil
	}
	rules, err := resolve.LoadRules(r.DataFile(ModuleRulesFile))
	if err != nil {
		return nil, err
	}
	r.Rules = rules
	return rules, nil
}

// library syncs and indexes the device type library checkout on first use.
func (r *Runner) library(ctx context.Context) (*typelib.Index, error) {
	if r.Lib != nil {
		return r.Lib, nil
	}
	sync := &typelib.GitSyncer{Source: r.Cfg.RepoSource, Dir: r.Cfg.RepoDir}
	if err := sync.Sync(ctx); err != nil {
		return nil, err
	}
	lib, err := typelib.Load(r.Cfg.RepoDir)
	if err != nil {
		return nil, err
	}
	r.Lib = lib
	return lib, nil
}

// created is the subset of a create response the pipelines read back.
type created struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
}

// create posts one object and counts the outcome. Duplicates are counted
// separately and never logged as errors; the registry already has the object.
func (r *Runner) create(ctx context.Context, endpoint string, payload any, sum *report.Summary) (created, bool) {
	raw, err := r.NB.Create(ctx, endpoint, payload)
	if err != nil {
		if netbox.IsDuplicate(err) {
			sum.Duplicates++
			util.Debugf("Duplicate on %s: %v", endpoint, err)
		} else {
			sum.Failed++
			util.Errorf("Create on %s failed: %v", endpoint, err)
		}
		return created{}, false
	}
	sum.Created++

	var c created
	if err := json.Unmarshal(raw, &c); err != nil {
		util.Warnf("Unreadable create response on %s: %v", endpoint, err)
	}
	return c, true
}

func progress(title string, total int) *pterm.ProgressbarPrinter {
	if total <= 0 {
		return nil
	}
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(title).Start()
	if err != nil {
		return nil
	}
	return bar
}

func bump(bar *pterm.ProgressbarPrinter) {
	if bar != nil {
		bar.Increment()
	}
}

func finish(bar *pterm.ProgressbarPrinter) {
	if bar != nil {
		bar.Stop()
	}
}
