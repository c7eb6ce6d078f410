package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// File is the parsed plugin configuration.
type File struct {
	Plugins []PluginSpec
}

// rawSpec mirrors the YAML shape of a plugin entry. Pointer booleans
// distinguish "absent" from "false" so defaults can be applied.
type rawSpec struct {
	Name         string     `yaml:"name"`
	Source       SourceType `yaml:"source"`
	Enabled      *bool      `yaml:"enabled"`
	Package      string     `yaml:"package"`
	Version      string     `yaml:"version"`
	URL          string     `yaml:"url"`
	Ref          string     `yaml:"ref"`
	Subdirectory string     `yaml:"subdirectory"`
	Path         string     `yaml:"path"`
	Editable     *bool      `yaml:"editable"`
}

type rawFile struct {
	Plugins []rawSpec `yaml:"plugins"`
}

// Load reads, schema-validates, and parses a plugin configuration file.
// Every returned spec has passed per-source field validation; defaults
// (enabled=true, editable=false) are applied and "~" in local paths is
// expanded.
func Load(path string) (*File, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates and parses raw plugin configuration YAML.
func Parse(data []byte) (*File, error) {
	result, err := ValidateBytes(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrConfigInvalid, formatIssues(result.Issues))
	}

	var raw rawFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %v", ErrConfigInvalid, err)
	}

	file := &File{Plugins: make([]PluginSpec, 0, len(raw.Plugins))}
	seen := make(map[string]bool, len(raw.Plugins))

	for _, r := range raw.Plugins {
		spec := PluginSpec{
			Name:         r.Name,
			Source:       r.Source,
			Enabled:      r.Enabled == nil || *r.Enabled,
			Package:      r.Package,
			Version:      r.Version,
			URL:          r.URL,
			Ref:          r.Ref,
			Subdirectory: r.Subdirectory,
			Path:         r.Path,
			Editable:     r.Editable != nil && *r.Editable,
		}

		if spec.Source == SourceLocal {
			expanded, err := ExpandHome(spec.Path)
			if err != nil {
				return nil, fmt.Errorf("expanding path for plugin %q: %w", spec.Name, err)
			}
			spec.Path = expanded
		}

		if err := spec.Validate(); err != nil {
			return nil, err
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate plugin name %q", ErrConfigInvalid, spec.Name)
		}
		seen[spec.Name] = true

		file.Plugins = append(file.Plugins, spec)
	}

	return file, nil
}

// Enabled returns the declared plugins with enabled=true, in declaration
// order.
func (f *File) Enabled() []PluginSpec {
	var out []PluginSpec
	for _, p := range f.Plugins {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// ExpandHome expands a leading "~" or "~/" to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// formatIssues renders schema issues as a single semicolon-separated line.
func formatIssues(issues []ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.Path != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
