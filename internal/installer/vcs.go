package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
)

// VCS installs a plugin from a version-controlled repository: clone into
// a temporary directory, optionally check out a ref and descend into a
// subdirectory, then install from the checkout. The clone directory is
// removed on every path out of Install, success or failure.
type VCS struct {
	Py *pyenv.Interpreter

	// TempParent overrides where clone directories are created.
	// Empty means the system temp dir.
	TempParent string
}

// Install clones, checks out, and installs the repository source.
func (v *VCS) Install(ctx context.Context, spec config.PluginSpec) Outcome {
	cloneDir, err := os.MkdirTemp(v.TempParent, "plugsync-clone-")
	if err != nil {
		return fail(ReasonInstallCommandFailed, "creating clone directory: %v", err)
	}
	defer os.RemoveAll(cloneDir)

	repo, err := git.PlainCloneContext(ctx, cloneDir, false, &git.CloneOptions{
		URL: spec.URL,
	})
	if err != nil {
		return fail(ReasonSourceUnreachable, "cloning %s: %v", spec.URL, err)
	}

	if spec.Ref != "" {
		if out := checkoutRef(repo, spec.Ref); !out.OK() {
			return out
		}
	}

	srcDir := cloneDir
	if spec.Subdirectory != "" {
		srcDir = filepath.Join(cloneDir, spec.Subdirectory)
		info, err := os.Stat(srcDir)
		if err != nil {
			return fail(ReasonPathNotFound, "subdirectory %s not present in repository", spec.Subdirectory)
		}
		if !info.IsDir() {
			return fail(ReasonNotADirectory, "subdirectory %s is not a directory", spec.Subdirectory)
		}
	}

	distName := distributionName(srcDir, spec.Name)

	out, err := v.Py.PipInstall(ctx, srcDir)
	if err != nil {
		return fail(ReasonInstallCommandFailed, "running pip: %v", err)
	}
	if out.ExitCode != 0 {
		return fail(ReasonInstallCommandFailed, "pip exited %d: %s", out.ExitCode, out.Detail())
	}

	return verifyInstalled(ctx, v.Py, distName)
}

// checkoutRef resolves a branch, tag, or commit and checks the worktree
// out at it. A ref that does not exist is a distinct failure reason.
func checkoutRef(repo *git.Repository, ref string) Outcome {
	hash, err := resolveRef(repo, ref)
	if err != nil {
		return fail(ReasonRefNotFound, "ref %q does not exist", ref)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fail(ReasonInstallCommandFailed, "opening worktree: %v", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: *hash}); err != nil {
		return fail(ReasonInstallCommandFailed, "checking out %q: %v", ref, err)
	}
	return Outcome{}
}

// resolveRef tries the ref as given, then as a remote-tracking branch.
// A fresh clone only has a local head for the default branch; other
// branches resolve through origin.
func resolveRef(repo *git.Repository, ref string) (*plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return hash, nil
	}
	hash, remoteErr := repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + ref))
	if remoteErr == nil {
		return hash, nil
	}
	return nil, fmt.Errorf("resolving %q: %w", ref, err)
}
