package cache_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/shelfshop/internal/cache"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

func TestPath_Layout(t *testing.T) {
	m := cache.New("/base")
	got := m.Path(cache.SessionFile)
	want := filepath.Join("/base", "session.yml")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestExists_False(t *testing.T) {
	m := cache.New("/no/such/base")
	if m.Exists(cache.CatalogFile) {
		t.Error("Exists() should be false for missing file")
	}
}

func TestStore_WritesPrivateFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	m := cache.New(dir)

	path, err := m.Store("note.txt", strings.NewReader("hello"), false)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestRead_DetectsCorruptSnapshot(t *testing.T) {
	m := cache.New(t.TempDir())
	if _, err := m.Store("data.yml", strings.NewReader("a: 1\n"), true); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := m.Read("data.yml"); err != nil {
		t.Fatalf("Read intact file: %v", err)
	}
	if err := os.WriteFile(m.Path("data.yml"), []byte("a: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Read("data.yml"); err == nil {
		t.Error("Read of tampered file should fail checksum")
	}
}

func TestRead_Missing(t *testing.T) {
	m := cache.New(t.TempDir())
	data, err := m.Read("nothing.yml")
	if err != nil || data != nil {
		t.Errorf("Read missing = %q, %v", data, err)
	}
}

func TestSession_RoundTrip(t *testing.T) {
	m := cache.New(t.TempDir())

	got, err := m.LoadSession()
	if err != nil || got != nil {
		t.Fatalf("LoadSession before save = %v, %v", got, err)
	}

	want := gateway.Identity{ID: "uid-1", Email: "a@b.co", IDToken: "tok", RefreshToken: "ref"}
	if err := m.SaveSession(want); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, err = m.LoadSession()
	if err != nil || got == nil {
		t.Fatalf("LoadSession: %v, %v", got, err)
	}
	if *got != want {
		t.Errorf("LoadSession = %+v, want %+v", *got, want)
	}

	if err := m.ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if m.Exists(cache.SessionFile) {
		t.Error("session file still present after ClearSession")
	}
	if err := m.ClearSession(); err != nil {
		t.Errorf("second ClearSession: %v", err)
	}
}

func TestCatalog_RoundTrip(t *testing.T) {
	m := cache.New(t.TempDir())

	if _, _, ok, err := m.LoadCatalog(); ok || err != nil {
		t.Fatalf("LoadCatalog before save: ok=%v err=%v", ok, err)
	}

	products := []catalog.Product{
		{ID: "dune", Title: "Dune", Author: "Herbert", Price: decimal.RequireFromString("12.5"), InStock: 3},
	}
	if err := m.SaveCatalog(products); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}
	got, savedAt, ok, err := m.LoadCatalog()
	if err != nil || !ok {
		t.Fatalf("LoadCatalog: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].ID != "dune" || !got[0].Price.Equal(products[0].Price) {
		t.Errorf("LoadCatalog = %+v", got)
	}
	if savedAt.IsZero() {
		t.Error("savedAt not set")
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if m.Exists(cache.CatalogFile) || m.Exists(cache.CatalogFile+".sha256") {
		t.Error("Clear left catalog files behind")
	}
}

func TestLoadCatalog_RejectsCorruptSnapshot(t *testing.T) {
	m := cache.New(t.TempDir())
	if _, err := m.Store(cache.CatalogFile, strings.NewReader("- id: dune\n"), true); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(m.Path(cache.CatalogFile), []byte("- id: emma\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Read(cache.CatalogFile); !errors.Is(err, cache.ErrCorrupt) {
		t.Errorf("Read = %v, want ErrCorrupt", err)
	}
	if _, _, ok, err := m.LoadCatalog(); ok || err == nil {
		t.Errorf("LoadCatalog of a corrupt snapshot: ok=%v err=%v", ok, err)
	}
}

func TestRead_WithoutChecksum(t *testing.T) {
	m := cache.New(t.TempDir())
	if _, err := m.Store("plain.yml", strings.NewReader("data"), false); err != nil {
		t.Fatal(err)
	}
	data, err := m.Read("plain.yml")
	if err != nil || string(data) != "data" {
		t.Errorf("Read = %q, %v", data, err)
	}
}
