package cache

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

// LoadSession returns the identity saved by an earlier run, or nil.
func (m *Manager) LoadSession() (*gateway.Identity, error) {
	data, err := m.Read(SessionFile)
	if err != nil || data == nil {
		return nil, err
	}
	var id gateway.Identity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if id.ID == "" {
		return nil, nil
	}
	return &id, nil
}

// SaveSession persists id so the next run can resume it.
func (m *Manager) SaveSession(id gateway.Identity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = m.Store(SessionFile, bytes.NewReader(data), false)
	return err
}

// ClearSession forgets the saved identity.
func (m *Manager) ClearSession() error {
	return m.Remove(SessionFile)
}

var _ gateway.SessionStore = (*Manager)(nil)
