package cache

import (
	"bytes"
	"os"
	"time"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
)

// SaveCatalog writes a snapshot of products, used when the backend is
// unreachable at startup.
func (m *Manager) SaveCatalog(products []catalog.Product) error {
	data, err := catalog.Marshal(products)
	if err != nil {
		return err
	}
	_, err = m.Store(CatalogFile, bytes.NewReader(data), true)
	return err
}

// LoadCatalog returns the last snapshot and when it was written. ok is false
// when no snapshot exists.
func (m *Manager) LoadCatalog() (products []catalog.Product, savedAt time.Time, ok bool, err error) {
	data, err := m.Read(CatalogFile)
	if err != nil || data == nil {
		return nil, time.Time{}, false, err
	}
	products, err = catalog.Parse(data)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	if fi, statErr := os.Stat(m.Path(CatalogFile)); statErr == nil {
		savedAt = fi.ModTime()
	}
	return products, savedAt, true, nil
}
