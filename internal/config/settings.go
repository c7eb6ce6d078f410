package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plugsync-labs/plugsync/internal/branding"
	"github.com/spf13/viper"
)

const (
	settingsFileName = "config"
	settingsFileType = "yaml"

	// Settings keys.
	KeyPython           = "python"
	KeyRegistryDir      = "registry_dir"
	KeyEntryPointGroups = "entry_point_groups"
)

// DefaultEntryPointGroups are the entry-point groups inspected when the
// user has not configured their own set. These are the groups the vLLM
// host discovers plugins through.
var DefaultEntryPointGroups = []string{
	"vllm.general_plugins",
	"vllm.logits_processors",
	"vllm.stat_logger_plugins",
	"vllm.platform_plugins",
}

// SettingsDir returns the path to the tool settings directory (~/.plugsync/).
func SettingsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// SettingsFilePath returns the full path to the settings file
// (~/.plugsync/config.yaml).
func SettingsFilePath() string {
	return filepath.Join(SettingsDir(), settingsFileName+"."+settingsFileType)
}

// EnsureSettingsDir creates the settings directory if it does not exist.
func EnsureSettingsDir() error {
	dir := SettingsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}
	return nil
}

// LoadSettings initializes Viper to read from the settings file and
// environment. Environment variables use the PLUGSYNC prefix
// (e.g. PLUGSYNC_PYTHON overrides the "python" key).
func LoadSettings() {
	viper.SetConfigFile(SettingsFilePath())
	viper.SetConfigType(settingsFileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyEntryPointGroups, DefaultEntryPointGroups)

	// Ignore error if the settings file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// GetSetting returns a settings value by key. Returns empty string if not set.
func GetSetting(key string) string {
	return viper.GetString(key)
}

// SetSetting writes a settings key-value pair and saves the settings file.
func SetSetting(key, value string) error {
	if err := EnsureSettingsDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	settingsFile := SettingsFilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		f, err := os.Create(settingsFile)
		if err != nil {
			return fmt.Errorf("creating settings file %s: %w", settingsFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(settingsFile); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

// EntryPointGroups returns the configured entry-point groups, falling back
// to the vLLM defaults.
func EntryPointGroups() []string {
	groups := viper.GetStringSlice(KeyEntryPointGroups)
	if len(groups) == 0 {
		return DefaultEntryPointGroups
	}
	return groups
}
