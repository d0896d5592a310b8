package app

import (
	_ "embed"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/cache"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/config"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/shop"
)

//go:embed demo.yml
var demoData []byte

type demoAccount struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

type demoFixture struct {
	Accounts []demoAccount    `yaml:"accounts"`
	Books    []catalog.Product `yaml:"books"`
}

// newDemoBackend returns a memory backend holding the demo accounts and
// books. Role documents are keyed by the account id the backend assigns.
func newDemoBackend() (*gateway.Memory, error) {
	var fx demoFixture
	if err := yaml.Unmarshal(demoData, &fx); err != nil {
		return nil, fmt.Errorf("parsing demo data: %w", err)
	}
	mem := gateway.NewMemory()
	for _, a := range fx.Accounts {
		role, err := access.ParseRole(a.Role)
		if err != nil {
			return nil, fmt.Errorf("demo account %s: %w", a.Email, err)
		}
		id := mem.AddAccount(a.Email, a.Password, a.Name)
		mem.Seed(gateway.CollectionUsers, id, gateway.Record{
			"email": a.Email,
			"name":  a.Name,
			"role":  string(role),
		})
	}
	for _, b := range fx.Books {
		if b.Image == "" {
			b.Image = catalog.DefaultImage
		}
		mem.Seed(gateway.CollectionBooks, b.ID, b.Record())
	}
	return mem, nil
}

// newGateway builds the backend named by the config.
func newGateway(c *config.Config, sessions *cache.Manager, log zerolog.Logger) (gateway.Gateway, error) {
	switch c.Backend.Kind {
	case config.BackendFirebase:
		if c.Backend.APIKey == "" {
			return nil, fmt.Errorf("no API key found, set %s", c.Backend.EffectiveAPIKeyEnv())
		}
		return gateway.New(gateway.Options{
			APIKey:        c.Backend.APIKey,
			ProjectID:     c.Backend.ProjectID,
			AuthBase:      c.Backend.AuthBase,
			TokenBase:     c.Backend.TokenBase,
			FirestoreBase: c.Backend.FirestoreBase,
			Timeout:       c.Backend.RequestTimeout(gateway.DefaultTimeout),
			RateLimit:     c.Backend.RateLimit,
			Sessions:      sessions,
			Logger:        log.With().Str("component", "gateway").Logger(),
		}), nil
	case config.BackendMemory:
		return newDemoBackend()
	}
	return nil, fmt.Errorf("unknown backend %q", c.Backend.Kind)
}

// newState wires the storefront state for c.
func newState(c *config.Config, log zerolog.Logger) (*shop.State, error) {
	local := cache.New(c.Defaults.StateDir)
	gw, err := newGateway(c, local, log)
	if err != nil {
		return nil, err
	}
	path := configPath()
	return shop.New(shop.Options{
		Gateway:   gw,
		Snapshots: local,
		Logger:    log,
		PageSize:  c.Defaults.EffectivePageSize(),
		Settings:  shop.Settings{Theme: c.UI.Theme, Language: c.UI.Language},
		SaveSettings: func(s shop.Settings) error {
			c.UI.Theme = s.Theme
			c.UI.Language = s.Language
			return config.SaveTo(path, c)
		},
	}), nil
}
