// Package config loads and validates the declared plugin configuration
// (plugins.yaml) and the user's tool settings. It resolves the config file
// location (environment override, then the XDG default), validates the YAML
// against an embedded JSON schema, enforces per-source required fields, and
// produces the immutable PluginSpec records consumed by the reconciler.
package config
