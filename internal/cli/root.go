package cli

import (
	"fmt"
	"path/filepath"

	"github.com/plugsync-labs/plugsync/internal/branding"
	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/registry"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps a Python environment in sync with a declarative plugin
configuration. Plugins are declared once in plugins.yaml (PyPI packages, git
repositories, or local source trees) and reconciled into the environment:
already-satisfied plugins are skipped, missing or outdated ones are installed,
and every outcome is recorded in a durable registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// resolvePluginsPath resolves the plugin configuration file: an explicit
// flag value wins, otherwise the standard lookup applies. found is false
// when no configuration exists anywhere.
func resolvePluginsPath(override string) (path string, found bool, err error) {
	if override != "" {
		expanded, err := config.ExpandHome(override)
		if err != nil {
			return "", false, err
		}
		return expanded, true, nil
	}
	return config.PluginsFilePath()
}

// resolveRegistryDir resolves the registry storage directory, honoring the
// registry_dir setting before the built-in default.
func resolveRegistryDir() (string, error) {
	if v := config.GetSetting(config.KeyRegistryDir); v != "" {
		expanded, err := config.ExpandHome(v)
		if err != nil {
			return "", fmt.Errorf("resolving registry directory: %w", err)
		}
		return filepath.Clean(expanded), nil
	}
	return registry.DefaultDir()
}
