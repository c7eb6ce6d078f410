package pyenv

import (
	"context"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyproject"
	"github.com/plugsync-labs/plugsync/internal/registry"
)

// Inspector answers whether a declared plugin is already present in the
// live environment, independent of the registry (which can be stale or
// deleted). It is strictly read-only.
type Inspector struct {
	Py *Interpreter
}

// Inspect resolves the spec's installed identity and probes the live
// environment for it. prior may be nil when the registry has no record.
//
// Identity per source:
//   - pypi: the declared package name.
//   - local: the distribution name the source tree declares in
//     pyproject.toml, falling back to the prior record's distribution,
//     then the plugin name.
//   - git: the prior record's distribution (the tree is not available
//     before cloning), falling back to the plugin name.
func (i *Inspector) Inspect(ctx context.Context, spec config.PluginSpec, prior *registry.Record) (*Distribution, bool, error) {
	distName := i.identity(spec, prior)
	if distName == "" {
		return nil, false, nil
	}
	return i.Py.Probe(ctx, distName)
}

func (i *Inspector) identity(spec config.PluginSpec, prior *registry.Record) string {
	switch spec.Source {
	case config.SourcePyPI:
		return spec.Package
	case config.SourceLocal:
		if name, found, err := pyproject.DistributionName(spec.Path); err == nil && found {
			return name
		}
		if prior != nil && prior.Distribution != "" {
			return prior.Distribution
		}
		return spec.Name
	case config.SourceGit:
		if prior != nil && prior.Distribution != "" {
			return prior.Distribution
		}
		return spec.Name
	}
	return spec.Name
}
