package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plugsync-labs/plugsync/internal/branding"
)

// Plugin configuration file name under the XDG config directory.
const pluginsFileName = "plugins.yaml"

// PluginsFilePath resolves the plugin configuration file location.
//
// Resolution order:
//  1. PLUGSYNC_CONFIG environment variable
//  2. ~/.config/plugsync/plugins.yaml
//
// found is false when no config file exists. An explicitly set override
// pointing at a missing file also reports not-found rather than an error:
// the file may simply not be mounted yet.
func PluginsFilePath() (path string, found bool, err error) {
	if env := os.Getenv(branding.EnvVar("CONFIG")); env != "" {
		if _, statErr := os.Stat(env); statErr == nil {
			return env, true, nil
		}
		return "", false, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("resolving home directory: %w", err)
	}
	def := filepath.Join(home, ".config", branding.CLIName(), pluginsFileName)
	if _, statErr := os.Stat(def); statErr == nil {
		return def, true, nil
	}
	return "", false, nil
}
