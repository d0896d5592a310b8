package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/shop"
)

func TestDemoBackend_Seed(t *testing.T) {
	mem, err := newDemoBackend()
	if err != nil {
		t.Fatalf("newDemoBackend: %v", err)
	}
	s := shop.New(shop.Options{Gateway: mem, Logger: zerolog.Nop()})

	cases := []struct {
		email, password string
		role            access.Role
	}{
		{"admin@bookstore.com", "admin123", access.RoleAdmin},
		{"manager@bookstore.com", "manager123", access.RoleManager},
		{"user@bookstore.com", "user123", access.RoleUser},
	}
	for _, c := range cases {
		p, err := s.Login(context.Background(), c.email, c.password)
		if err != nil {
			t.Fatalf("Login(%s): %v", c.email, err)
		}
		if p.Role != c.role {
			t.Errorf("%s role = %s, want %s", c.email, p.Role, c.role)
		}
		if err := s.Logout(context.Background()); err != nil {
			t.Fatalf("Logout: %v", err)
		}
	}

	if _, err := s.Login(context.Background(), "user@bookstore.com", "user123"); err != nil {
		t.Fatal(err)
	}
	products := s.Catalog.Products()
	if len(products) != 8 {
		t.Fatalf("got %d demo books, want 8", len(products))
	}
	for _, p := range products {
		if p.Image == "" {
			t.Errorf("book %s has no image", p.ID)
		}
	}
	dune, ok := s.Catalog.ByID("3")
	if !ok || !dune.Price.Equal(decimal.NewFromInt(699)) || dune.InStock != 12 {
		t.Errorf("book 3 = %+v", dune)
	}
}

func TestBookFlags_ApplyOnlyChanged(t *testing.T) {
	var f bookFlags
	cmd := &cobra.Command{Use: "edit"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--price", "$7.50", "--stock", "0"}); err != nil {
		t.Fatal(err)
	}

	cur := catalog.Product{ID: "1", Title: "Emma", Author: "Austen", Price: decimal.NewFromInt(8), InStock: 3}
	next, err := f.apply(cmd, cur)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	patch := catalog.Diff(cur, next)
	if patch.Title != nil || patch.Author != nil {
		t.Errorf("unchanged fields in patch: %+v", patch)
	}
	if patch.Price == nil || !patch.Price.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("Price patch = %v", patch.Price)
	}
	if patch.InStock == nil || *patch.InStock != 0 {
		t.Errorf("InStock patch = %v", patch.InStock)
	}
}

func TestBookFlags_InvalidPrice(t *testing.T) {
	var f bookFlags
	cmd := &cobra.Command{Use: "add"}
	f.register(cmd)
	if err := cmd.ParseFlags([]string{"--price", "cheap"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.apply(cmd, catalog.Product{}); err == nil {
		t.Error("expected error for non-numeric price")
	}
}

func TestStandalone(t *testing.T) {
	cases := map[string]bool{
		"config":  true,
		"version": true,
		"books":   false,
		"whoami":  false,
	}
	for name, want := range cases {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s): %v", name, err)
		}
		if got := standalone(cmd); got != want {
			t.Errorf("standalone(%s) = %v, want %v", name, got, want)
		}
	}
	show, _, err := rootCmd.Find([]string{"config", "show"})
	if err != nil {
		t.Fatal(err)
	}
	if !standalone(show) {
		t.Error("config show should run without a backend")
	}
}

// runCLI executes the root command against a fresh memory backend.
func runCLI(t *testing.T, password string, args ...string) error {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := fmt.Sprintf("backend:\n  kind: memory\ndefaults:\n  state_dir: %s\nui:\n  theme: light\n  language: en\n",
		filepath.Join(dir, "state"))
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELFSHOP_PASSWORD", password)
	rootCmd.SetArgs(append([]string{"--config", path, "--no-color", "--no-interactive"}, args...))
	return rootCmd.ExecuteContext(context.Background())
}

func TestCLI_UserCannotAddBooks(t *testing.T) {
	err := runCLI(t, "user123", "--email", "user@bookstore.com",
		"books", "add", "--title", "X", "--author", "Y", "--price", "1")
	if err == nil || !strings.Contains(err.Error(), "not allowed") {
		t.Errorf("err = %v, want a forbidden message", err)
	}
}

func TestCLI_ManagerDeletesBook(t *testing.T) {
	if err := runCLI(t, "manager123", "--email", "manager@bookstore.com", "books", "delete", "8", "--yes"); err != nil {
		t.Errorf("books delete: %v", err)
	}
	if _, ok := state.Catalog.ByID("8"); ok {
		t.Error("book 8 still cached after delete")
	}
}

func TestCLI_AdminCannotChangeOwnRole(t *testing.T) {
	err := runCLI(t, "admin123", "--email", "admin@bookstore.com",
		"users", "set-role", "admin@bookstore.com", "user")
	if err == nil {
		t.Fatal("expected error changing own role")
	}
	if p, _ := state.Session.Principal(); p.Role != access.RoleAdmin {
		t.Errorf("role = %s, want admin", p.Role)
	}
}

func TestCLI_WrongPassword(t *testing.T) {
	err := runCLI(t, "wrong-password", "--email", "user@bookstore.com", "whoami")
	if err == nil || !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("err = %v", err)
	}
}
