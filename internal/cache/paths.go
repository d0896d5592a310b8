package cache

import (
	"os"
	"path/filepath"
)

// Files kept in the state directory.
const (
	SessionFile  = "session.yml"
	CatalogFile  = "catalog.yml"
	checksumExt  = ".sha256"
	tmpExt       = ".tmp"
	privateMode  = 0600
	stateDirMode = 0750
)

// Manager handles the local state directory: the resumable session and the
// last catalog snapshot.
type Manager struct {
	baseDir string
}

// New creates a cache Manager rooted at baseDir.
func New(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Dir returns the state directory.
func (m *Manager) Dir() string {
	return m.baseDir
}

// Path returns the full path of a state file.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.baseDir, name)
}

// Exists reports whether the state file exists.
func (m *Manager) Exists(name string) bool {
	_, err := os.Stat(m.Path(name))
	return err == nil
}

// EnsureDir creates the state directory.
func (m *Manager) EnsureDir() error {
	return os.MkdirAll(m.baseDir, stateDirMode)
}

// Remove deletes a state file and its checksum if they exist.
func (m *Manager) Remove(name string) error {
	for _, p := range []string{m.Path(name), m.Path(name) + checksumExt} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Clear removes every file the Manager writes.
func (m *Manager) Clear() error {
	for _, name := range []string{SessionFile, CatalogFile} {
		if err := m.Remove(name); err != nil {
			return err
		}
	}
	return nil
}
