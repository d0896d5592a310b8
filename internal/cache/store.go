package cache

import (
	"fmt"
	"io"
	"os"

	"github.com/blackwell-systems/shelfshop/internal/util"
)

// Store atomically writes r to the named state file, readable only by the
// owner. When withChecksum is set a sha256 sidecar is written next to it.
// Returns the final file path.
func (m *Manager) Store(name string, r io.Reader, withChecksum bool) (string, error) {
	if err := m.EnsureDir(); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}

	destPath := m.Path(name)
	tmpPath := destPath + tmpExt

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, privateMode)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing state file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if withChecksum {
		sum, err := util.SHA256File(tmpPath)
		if err != nil {
			_ = os.Remove(tmpPath)
			return "", fmt.Errorf("computing checksum: %w", err)
		}
		if err := os.WriteFile(destPath+checksumExt, []byte(sum+"\n"), privateMode); err != nil {
			_ = os.Remove(tmpPath)
			return "", fmt.Errorf("writing checksum: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return destPath, nil
}

// Read returns the contents of a state file, or nil when it does not exist.
// A file written with a checksum is verified against it.
func (m *Manager) Read(name string) ([]byte, error) {
	path := m.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if err := verify(path); err != nil {
		return nil, err
	}
	return data, nil
}
