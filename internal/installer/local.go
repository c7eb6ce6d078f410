package installer

import (
	"context"
	"os"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
	"github.com/plugsync-labs/plugsync/internal/pyproject"
)

// Local installs a plugin from a directory on disk, in link (editable)
// or copy mode.
type Local struct {
	Py *pyenv.Interpreter
}

// Install validates the source directory, runs pip against it, and
// verifies the declared distribution is importable afterwards. The path
// checks run before pip is invoked so a missing source fails fast with a
// distinct reason.
func (l *Local) Install(ctx context.Context, spec config.PluginSpec) Outcome {
	info, err := os.Stat(spec.Path)
	if err != nil {
		return fail(ReasonPathNotFound, "local source %s does not exist", spec.Path)
	}
	if !info.IsDir() {
		return fail(ReasonNotADirectory, "local source %s is not a directory", spec.Path)
	}

	distName := distributionName(spec.Path, spec.Name)

	args := []string{spec.Path}
	if spec.Editable {
		args = []string{"-e", spec.Path}
	}

	out, err := l.Py.PipInstall(ctx, args...)
	if err != nil {
		return fail(ReasonInstallCommandFailed, "running pip: %v", err)
	}
	if out.ExitCode != 0 {
		return fail(ReasonInstallCommandFailed, "pip exited %d: %s", out.ExitCode, out.Detail())
	}

	return verifyInstalled(ctx, l.Py, distName)
}

// distributionName reads the declared distribution name from the source
// tree, falling back to the plugin name when the tree declares none.
func distributionName(dir, fallback string) string {
	if name, found, err := pyproject.DistributionName(dir); err == nil && found {
		return name
	}
	return fallback
}
