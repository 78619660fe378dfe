package typelib

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/netgrid-labs/invsync/pkg/util"
)

// Syncer refreshes the local library checkout before indexing.
type Syncer interface {
	Sync(ctx context.Context) error
}

// GitSyncer keeps a shallow clone of the library repository up to date:
// clone on first use, pull afterwards.
type GitSyncer struct {
	Source string
	Dir    string
}

// Sync clones or updates the checkout. A failed pull is downgraded to a
// warning when a usable checkout already exists, so imports still run from
// the stale copy on airgapped or flaky networks.
func (g *GitSyncer) Sync(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(g.Dir, ".git")); os.IsNotExist(err) {
		util.Infof("Cloning device type library from %s", g.Source)
		if err := os.MkdirAll(filepath.Dir(g.Dir), 0o755); err != nil {
			return fmt.Errorf("creating library parent dir: %w", err)
		}
		cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", g.Source, g.Dir)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git clone %s: %w: %s", g.Source, err, out)
		}
		return nil
	}

	util.Debugf("Updating device type library in %s", g.Dir)
	cmd := exec.CommandContext(ctx, "git", "-C", g.Dir, "pull", "--ff-only")
	if out, err := cmd.CombinedOutput(); err != nil {
		util.Warnf("Library update failed, using existing checkout: %v: %s", err, out)
	}
	return nil
}
