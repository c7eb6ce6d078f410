package config

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid marks configuration validation failures. Callers can
// detect it with errors.Is.
var ErrConfigInvalid = errors.New("invalid plugin configuration")

// SourceType discriminates where a plugin is installed from.
type SourceType string

const (
	SourcePyPI  SourceType = "pypi"
	SourceGit   SourceType = "git"
	SourceLocal SourceType = "local"
)

// PluginSpec is the declared desired state for one plugin. Specs are
// immutable for the duration of a reconciliation run and are recreated
// from configuration on every run.
type PluginSpec struct {
	Name    string
	Source  SourceType
	Enabled bool

	// PyPI source fields.
	Package string
	Version string // optional version-range expression, e.g. ">=1.0.0"

	// Git source fields.
	URL          string
	Ref          string // branch, tag, or commit; empty = remote default branch
	Subdirectory string

	// Local source fields.
	Path     string
	Editable bool
}

// Validate enforces the per-source required fields. The schema validator
// catches most of these earlier; this is the last line of defense for specs
// constructed programmatically.
func (s PluginSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: plugin 'name' is required", ErrConfigInvalid)
	}

	switch s.Source {
	case SourcePyPI:
		if s.Package == "" {
			return fmt.Errorf("%w: pypi plugin %q missing 'package'", ErrConfigInvalid, s.Name)
		}
	case SourceGit:
		if s.URL == "" {
			return fmt.Errorf("%w: git plugin %q missing 'url'", ErrConfigInvalid, s.Name)
		}
	case SourceLocal:
		if s.Path == "" {
			return fmt.Errorf("%w: local plugin %q missing 'path'", ErrConfigInvalid, s.Name)
		}
	case "":
		return fmt.Errorf("%w: plugin %q missing 'source'", ErrConfigInvalid, s.Name)
	default:
		return fmt.Errorf("%w: plugin %q has unknown source %q", ErrConfigInvalid, s.Name, s.Source)
	}

	return nil
}

// Identity returns the source-identifying field echoed into registry
// records: the package name for PyPI, the URL for Git, the path for Local.
func (s PluginSpec) Identity() string {
	switch s.Source {
	case SourcePyPI:
		return s.Package
	case SourceGit:
		return s.URL
	case SourceLocal:
		return s.Path
	}
	return s.Name
}

// Requirement returns the pip requirement string for a PyPI spec,
// e.g. "pkg-a>=0.1.0". The version range is appended verbatim; pip owns
// its interpretation.
func (s PluginSpec) Requirement() string {
	if s.Version != "" {
		return s.Package + s.Version
	}
	return s.Package
}
