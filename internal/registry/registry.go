package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/plugsync-labs/plugsync/internal/branding"
)

// FormatVersion is written into every registry file for forward
// compatibility.
const FormatVersion = "1.0"

// Status is the recorded outcome of the last install attempt.
type Status string

const (
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
)

// Record is the persisted state for one plugin.
type Record struct {
	Name   string `json:"name"`
	Source string `json:"source"`

	// Echo of the source-identifying field, for drift detection.
	Package string `json:"package,omitempty"`
	URL     string `json:"url,omitempty"`
	Path    string `json:"path,omitempty"`

	// Distribution name the installed package declares in its metadata.
	// For local/git sources this is how the plugin is re-identified in
	// the live environment on later runs; it may differ from Name.
	Distribution string `json:"distribution,omitempty"`

	// Installer-reported version; may be empty for local/git sources
	// without versioning.
	ResolvedVersion string `json:"resolved_version,omitempty"`

	Status Status `json:"status"`

	// Entry points the plugin registers with the host, "group:name" form.
	EntryPoints []string `json:"entry_points"`

	// Present only when Status is "failed".
	LastAttemptError string `json:"last_attempt_error,omitempty"`
}

// Registry is the full persisted store: a format version plus the
// name→record mapping. Keys always equal each record's Name.
type Registry struct {
	Version string            `json:"version"`
	Plugins map[string]Record `json:"plugins"`
}

// New returns an empty registry at the current format version.
func New() *Registry {
	return &Registry{
		Version: FormatVersion,
		Plugins: make(map[string]Record),
	}
}

// Get returns the record for a plugin name.
func (r *Registry) Get(name string) (Record, bool) {
	rec, ok := r.Plugins[name]
	return rec, ok
}

// Put stores a record under its own name, keeping the key/Name invariant.
func (r *Registry) Put(rec Record) {
	if r.Plugins == nil {
		r.Plugins = make(map[string]Record)
	}
	r.Plugins[rec.Name] = rec
}

// DefaultDir resolves the registry storage directory.
//
// Resolution order:
//  1. PLUGSYNC_REGISTRY_DIR environment variable
//  2. ~/.local/share/plugsync
func DefaultDir() (string, error) {
	if v := os.Getenv(branding.EnvVar("REGISTRY_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", branding.CLIName()), nil
}
