package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/shelfshop/internal/util"
)

// ErrCorrupt means a state file no longer matches its sha256 sidecar, for
// example after a partial copy or a hand edit.
var ErrCorrupt = errors.New("state file does not match its checksum")

// verify checks the file at path against its sidecar. Files written
// without a sidecar always pass.
func verify(path string) error {
	raw, err := os.ReadFile(path + checksumExt)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading checksum: %w", err)
	}
	want := strings.TrimSpace(string(raw))
	got, err := util.SHA256File(path)
	if err != nil {
		return fmt.Errorf("computing checksum: %w", err)
	}
	if got != want {
		return fmt.Errorf("%w: %s", ErrCorrupt, filepath.Base(path))
	}
	return nil
}
