package installer

import (
	"context"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
)

// PyPI installs a plugin from the package index by name and optional
// version range, as a single atomic pip install command.
type PyPI struct {
	Py *pyenv.Interpreter
}

// Install runs pip with the spec's requirement string and verifies the
// package is importable afterwards.
func (p *PyPI) Install(ctx context.Context, spec config.PluginSpec) Outcome {
	out, err := p.Py.PipInstall(ctx, spec.Requirement())
	if err != nil {
		return fail(ReasonInstallCommandFailed, "running pip: %v", err)
	}
	if out.ExitCode != 0 {
		return fail(ReasonInstallCommandFailed, "pip exited %d: %s", out.ExitCode, out.Detail())
	}

	return verifyInstalled(ctx, p.Py, spec.Package)
}
