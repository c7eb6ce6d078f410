// Package reconcile computes and applies the per-plugin action that makes
// the live environment agree with the declared configuration. For each
// enabled spec it compares desired state, the persisted registry record,
// and live-environment inspection, then skips, installs, or repairs the
// registry — recording every outcome durably and isolating failures so
// one plugin never aborts the rest of the run.
package reconcile

import (
	"context"
	"fmt"
	"io"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/installer"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
	"github.com/plugsync-labs/plugsync/internal/registry"
	"github.com/plugsync-labs/plugsync/internal/verspec"
)

// Status is the terminal per-plugin result of a run.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusInstalled Status = "installed"
	StatusRepaired  Status = "repaired"
	StatusFailed    Status = "failed"
)

// Result is one plugin's outcome within a run.
type Result struct {
	Name   string
	Status Status
	Detail string // failure reason, or a short note for skip/repair
}

// RunResult is the ordered per-plugin outcome sequence of one run.
type RunResult []Result

// FailedCount returns how many plugins ended the run failed.
func (r RunResult) FailedCount() int {
	n := 0
	for _, res := range r {
		if res.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Store persists registry state across runs.
type Store interface {
	Load() (*registry.Registry, error)
	Save(*registry.Registry) error
}

// Inspector queries the live environment for a spec's installed identity.
type Inspector interface {
	Inspect(ctx context.Context, spec config.PluginSpec, prior *registry.Record) (*pyenv.Distribution, bool, error)
}

// Invalidator forces the host's package-discovery cache to be recomputed.
type Invalidator interface {
	Invalidate()
}

// Reconciler drives one reconciliation run. Installer invocations are
// strictly sequential: the underlying install tool owns caches and locks
// that do not tolerate concurrent use.
type Reconciler struct {
	Store     Store
	Inspector Inspector

	// Select picks the installer for a source tag. Defaults to the
	// real source installers via SelectFrom.
	Select func(config.SourceType) (installer.Installer, bool)

	// Invalidator is triggered at most once per run, after processing
	// all specs, when at least one install succeeded.
	Invalidator Invalidator

	// Warn receives non-fatal diagnostics. Defaults to io.Discard.
	Warn io.Writer
}

// SelectFrom returns a Select function dispatching to the real source
// installers over the given interpreter.
func SelectFrom(py *pyenv.Interpreter) func(config.SourceType) (installer.Installer, bool) {
	return func(source config.SourceType) (installer.Installer, bool) {
		return installer.For(source, py)
	}
}

// Run processes the declared specs in order and returns their outcomes.
// Individual plugin failures are recorded and do not stop the run; the
// returned error is reserved for run-fatal conditions — the registry
// cannot be loaded or durably written. On a save failure the results so
// far are returned alongside the error.
func (r *Reconciler) Run(ctx context.Context, specs []config.PluginSpec) (RunResult, error) {
	reg, err := r.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	results := make(RunResult, 0, len(specs))
	installedAny := false

	for _, spec := range specs {
		res, mutated := r.reconcileOne(ctx, reg, spec, &installedAny)
		results = append(results, res)

		// Persist after each plugin's outcome is determined, so an
		// externally terminated run still has a complete record of
		// every finished plugin.
		if mutated {
			if err := r.Store.Save(reg); err != nil {
				return results, fmt.Errorf("persisting registry: %w", err)
			}
		}
	}

	// A single batched invalidation covers whatever succeeded, even
	// when later plugins failed.
	if installedAny && r.Invalidator != nil {
		r.Invalidator.Invalidate()
	}

	return results, nil
}

// reconcileOne decides and applies the action for a single spec. mutated
// reports whether the registry changed and needs persisting.
func (r *Reconciler) reconcileOne(ctx context.Context, reg *registry.Registry, spec config.PluginSpec, installedAny *bool) (res Result, mutated bool) {
	if !spec.Enabled {
		// Disabled specs are skipped entirely: no registry mutation,
		// no installer invocation.
		return Result{Name: spec.Name, Status: StatusSkipped, Detail: "disabled"}, false
	}

	prior, hasPrior := reg.Get(spec.Name)
	var priorRec *registry.Record
	if hasPrior {
		priorRec = &prior
	}

	dist, present, err := r.Inspector.Inspect(ctx, spec, priorRec)
	if err != nil {
		// Inspection is best-effort: fall through to install, where a
		// broken environment surfaces as a proper per-plugin failure.
		fmt.Fprintf(r.warn(), "warning: inspecting %s: %v\n", spec.Name, err)
		present = false
	}

	if present {
		if hasPrior && prior.Status == registry.StatusInstalled && r.satisfies(spec, dist) {
			return Result{Name: spec.Name, Status: StatusSkipped, Detail: "already installed"}, false
		}
		if !hasPrior {
			// The environment has the plugin but the registry does
			// not know it (deleted registry, pre-provisioned host):
			// synthesize a record from live inspection without
			// invoking an installer.
			reg.Put(recordFromInspection(spec, dist))
			return Result{Name: spec.Name, Status: StatusRepaired, Detail: "registry record restored from environment"}, true
		}
	}

	// Remaining cases require an install: never installed, recorded as
	// failed, an unrecognized hand-edited status, or an installed
	// version that no longer satisfies the declared range.
	inst, ok := r.selectInstaller(spec.Source)
	if !ok {
		rec := baseRecord(spec)
		rec.Status = registry.StatusFailed
		rec.LastAttemptError = fmt.Sprintf("no installer for source %q", spec.Source)
		reg.Put(rec)
		return Result{Name: spec.Name, Status: StatusFailed, Detail: rec.LastAttemptError}, true
	}

	outcome := inst.Install(ctx, spec)
	if !outcome.OK() {
		rec := baseRecord(spec)
		rec.Status = registry.StatusFailed
		rec.LastAttemptError = outcome.Failure.Error()
		reg.Put(rec)
		return Result{Name: spec.Name, Status: StatusFailed, Detail: outcome.Failure.Error()}, true
	}

	rec := baseRecord(spec)
	rec.Status = registry.StatusInstalled
	rec.Distribution = outcome.Distribution
	rec.ResolvedVersion = outcome.Version
	rec.EntryPoints = outcome.EntryPoints
	reg.Put(rec)

	*installedAny = true
	return Result{Name: spec.Name, Status: StatusInstalled, Detail: outcome.Version}, true
}

// satisfies reports whether the inspected installed state satisfies the
// spec's desired state. Only PyPI specs carry a version range; absence of
// a range is always satisfied. An installed version that cannot be
// evaluated against a declared range counts as unsatisfied.
func (r *Reconciler) satisfies(spec config.PluginSpec, dist *pyenv.Distribution) bool {
	if spec.Source != config.SourcePyPI || spec.Version == "" {
		return true
	}
	ok, err := verspec.Satisfied(dist.Version, spec.Version)
	if err != nil {
		fmt.Fprintf(r.warn(), "warning: evaluating version range for %s: %v\n", spec.Name, err)
		return false
	}
	return ok
}

func (r *Reconciler) selectInstaller(source config.SourceType) (installer.Installer, bool) {
	if r.Select == nil {
		return nil, false
	}
	return r.Select(source)
}

func (r *Reconciler) warn() io.Writer {
	if r.Warn != nil {
		return r.Warn
	}
	return io.Discard
}

// baseRecord fills the identity fields shared by every record for a spec.
func baseRecord(spec config.PluginSpec) registry.Record {
	rec := registry.Record{
		Name:   spec.Name,
		Source: string(spec.Source),
	}
	switch spec.Source {
	case config.SourcePyPI:
		rec.Package = spec.Package
	case config.SourceGit:
		rec.URL = spec.URL
	case config.SourceLocal:
		rec.Path = spec.Path
	}
	return rec
}

// recordFromInspection synthesizes an installed record from live
// environment state, for repair-registry-only outcomes.
func recordFromInspection(spec config.PluginSpec, dist *pyenv.Distribution) registry.Record {
	rec := baseRecord(spec)
	rec.Status = registry.StatusInstalled
	rec.Distribution = dist.Name
	rec.ResolvedVersion = dist.Version
	rec.EntryPoints = dist.EntryPoints
	return rec
}
