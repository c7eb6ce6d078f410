package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const storeFileName = "registry.json"

// FileStore reads and writes the registry file. A missing file loads as an
// empty registry (first run); a corrupt file is recovered as empty with a
// warning, never a fatal error. Saves are atomic: marshal, write to a temp
// file in the same directory, then rename over the destination.
//
// The store assumes at most one reconciliation run is active against a
// given registry path at a time; the atomic-replace discipline still
// prevents file corruption if runs race.
type FileStore struct {
	path string

	// Warn receives recovery notices (e.g. corrupt registry). Defaults
	// to os.Stderr when nil.
	Warn io.Writer
}

// NewFileStore creates the registry directory if needed and returns a
// store for the registry file inside it. A failure here is run-fatal:
// without write access no outcome can be durably recorded.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating registry directory %s: %w", dir, err)
	}
	return &FileStore{path: filepath.Join(dir, storeFileName)}, nil
}

// Path returns the registry file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the registry. Missing file → empty registry. Present but
// invalid per schema → empty registry plus a warning (the stale file is
// overwritten on the next save). Only real I/O errors are returned.
func (s *FileStore) Load() (*Registry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading registry file %s: %w", s.path, err)
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		fmt.Fprintf(s.warn(), "warning: registry file %s is corrupt, starting empty: %v\n", s.path, err)
		return New(), nil
	}
	if reg.Plugins == nil {
		reg.Plugins = make(map[string]Record)
	}
	if reg.Version == "" {
		reg.Version = FormatVersion
	}
	return &reg, nil
}

// Save writes the registry atomically.
func (s *FileStore) Save(reg *Registry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}
	data = append(data, '\n')

	// Write to a temp file in the same directory so the rename cannot
	// cross filesystems.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), storeFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp registry file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp registry file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp registry file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing registry file: %w", err)
	}
	return nil
}

func (s *FileStore) warn() io.Writer {
	if s.Warn != nil {
		return s.Warn
	}
	return os.Stderr
}
