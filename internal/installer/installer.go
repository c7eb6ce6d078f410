// Package installer performs source-specific plugin installation. One
// Installer variant exists per source tag (PyPI, Git, local path); all of
// them convert every failure mode (network errors, missing refs, missing
// paths, nonzero tool exits, broken post-install state) into a reasoned
// Outcome rather than propagating errors past the install boundary.
package installer

import (
	"context"
	"fmt"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
)

// Reason classifies why an install attempt failed.
type Reason string

const (
	ReasonSourceUnreachable    Reason = "SourceUnreachable"
	ReasonRefNotFound          Reason = "RefNotFound"
	ReasonPathNotFound         Reason = "PathNotFound"
	ReasonNotADirectory        Reason = "NotADirectory"
	ReasonInstallCommandFailed Reason = "InstallCommandFailed"
	ReasonVerificationFailed   Reason = "PostInstallVerificationFailed"
)

// Failure describes a failed install attempt.
type Failure struct {
	Reason Reason
	Detail string
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return string(f.Reason)
	}
	return string(f.Reason) + ": " + f.Detail
}

// Outcome is the terminal result of one install attempt. Failure is nil
// on success; the remaining fields are only meaningful then.
type Outcome struct {
	// Distribution name the installed package declares, read back from
	// environment metadata, not assumed from the spec.
	Distribution string
	Version      string
	EntryPoints  []string // "group:name" form

	Failure *Failure
}

// OK reports whether the install succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }

// Installer installs one plugin from its declared source.
type Installer interface {
	Install(ctx context.Context, spec config.PluginSpec) Outcome
}

// For selects the installer variant for a source tag. ok is false for an
// unknown tag; the source set is closed and new tags are deliberate.
func For(source config.SourceType, py *pyenv.Interpreter) (Installer, bool) {
	switch source {
	case config.SourcePyPI:
		return &PyPI{Py: py}, true
	case config.SourceGit:
		return &VCS{Py: py}, true
	case config.SourceLocal:
		return &Local{Py: py}, true
	}
	return nil, false
}

func fail(reason Reason, format string, args ...interface{}) Outcome {
	return Outcome{Failure: &Failure{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}}
}

// verifyInstalled confirms the distribution is actually importable after
// the install tool reported success, and reads back its version and entry
// points. Exit codes alone are not trusted: a success exit with a missing
// distribution indicates a broken environment and is a failure.
func verifyInstalled(ctx context.Context, py *pyenv.Interpreter, distName string) Outcome {
	dist, found, err := py.Probe(ctx, distName)
	if err != nil {
		return fail(ReasonVerificationFailed, "probing %q after install: %v", distName, err)
	}
	if !found {
		return fail(ReasonVerificationFailed, "install reported success but %q is not importable", distName)
	}
	return Outcome{
		Distribution: dist.Name,
		Version:      dist.Version,
		EntryPoints:  dist.EntryPoints,
	}
}
