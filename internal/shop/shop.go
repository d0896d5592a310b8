// Package shop composes the storefront state: session, catalog, cart,
// navigation, toasts and settings. Both the TUI and the CLI drive it.
package shop

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/cache"
	"github.com/blackwell-systems/shelfshop/internal/cart"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/nav"
	"github.com/blackwell-systems/shelfshop/internal/notify"
	"github.com/blackwell-systems/shelfshop/internal/session"
)

// Settings are the user's display preferences.
type Settings struct {
	Theme    string
	Language string
}

// Options configures a State.
type Options struct {
	Gateway gateway.Gateway
	// Snapshots keeps the last catalog for offline starts; may be nil.
	Snapshots *cache.Manager
	Logger    zerolog.Logger
	PageSize  int
	Settings  Settings
	// SaveSettings persists settings changes; may be nil.
	SaveSettings func(Settings) error
}

// State is the application state object.
type State struct {
	Session *session.Store
	Catalog *catalog.Cache
	Cart    *cart.Cart
	Nav     *nav.Navigator
	Toasts  *notify.Queue

	snapshots    *cache.Manager
	log          zerolog.Logger
	pageSize     int
	saveSettings func(Settings) error

	mu       sync.RWMutex
	settings Settings
	users    []session.Principal
	offline  bool
}

// New wires the components together. Nothing talks to the backend until
// Start or Login.
func New(opts Options) *State {
	toasts := notify.NewQueue()
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &State{
		Session:      session.NewStore(opts.Gateway, opts.Logger),
		Catalog:      catalog.NewCache(opts.Gateway),
		Cart:         cart.New(),
		Nav:          nav.New(toasts),
		Toasts:       toasts,
		snapshots:    opts.Snapshots,
		log:          opts.Logger,
		pageSize:     pageSize,
		saveSettings: opts.SaveSettings,
		settings:     opts.Settings,
	}
}

// PageSize is the number of products per home-screen page.
func (s *State) PageSize() int { return s.pageSize }

// Offline reports whether the catalog came from the local snapshot.
func (s *State) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offline
}

// Start resumes an earlier session, loading data when one exists.
func (s *State) Start(ctx context.Context) error {
	if err := s.Session.Resume(ctx); err != nil {
		s.log.Warn().Err(err).Msg("resume failed")
		return err
	}
	if s.Session.Status() != session.StatusSignedIn {
		return nil
	}
	return s.afterSignIn(ctx)
}

// Login signs in and loads the data the principal may see.
func (s *State) Login(ctx context.Context, email, password string) (session.Principal, error) {
	p, err := s.Session.Login(ctx, email, password)
	if err != nil {
		return session.Principal{}, err
	}
	s.Nav.Reset()
	s.Cart.Clear()
	// A failed load is already reported as a toast; the user is signed in.
	_ = s.afterSignIn(ctx)
	return p, nil
}

// Register creates an account; the new user is signed in.
func (s *State) Register(ctx context.Context, email, password, name string) (session.Principal, error) {
	p, err := s.Session.Register(ctx, email, password, name)
	if err != nil {
		return session.Principal{}, err
	}
	s.Nav.Reset()
	s.Cart.Clear()
	s.Toasts.Success("Account created")
	_ = s.afterSignIn(ctx)
	return p, nil
}

// afterSignIn loads the catalog and, for admins, the user list
// concurrently. A catalog failure falls back to the local snapshot.
func (s *State) afterSignIn(ctx context.Context) error {
	role := s.Session.Role()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.loadCatalog(gctx)
	})
	if role != nil && access.CanManageUsers(*role) {
		g.Go(func() error {
			users, err := s.Session.ListUsers(gctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("loading users")
				return nil
			}
			s.setUsers(users)
			return nil
		})
	}
	return g.Wait()
}

func (s *State) loadCatalog(ctx context.Context) error {
	err := s.Catalog.Load(ctx)
	if err == nil {
		s.mu.Lock()
		s.offline = false
		s.mu.Unlock()
		if s.snapshots != nil {
			if serr := s.snapshots.SaveCatalog(s.Catalog.Products()); serr != nil {
				s.log.Warn().Err(serr).Msg("saving catalog snapshot")
			}
		}
		return nil
	}
	s.log.Warn().Err(err).Msg("loading catalog")
	if !gateway.IsRemoteKind(err, gateway.RemoteNetwork) || s.snapshots == nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	products, savedAt, ok, serr := s.snapshots.LoadCatalog()
	if serr != nil || !ok {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	s.Catalog.Restore(products)
	s.mu.Lock()
	s.offline = true
	s.mu.Unlock()
	s.Toasts.Warn(fmt.Sprintf("Offline: showing catalog saved %s", savedAt.Format("2006-01-02 15:04")))
	return nil
}

// Refresh reloads the principal and catalog, re-checking the current screen
// in case the role changed.
func (s *State) Refresh(ctx context.Context) error {
	if _, err := s.Session.Reload(ctx); err != nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	s.Nav.Revalidate(s.Session.Role())
	return s.afterSignIn(ctx)
}

// Logout signs out and tears down everything tied to the session. The
// catalog stays cached.
func (s *State) Logout(ctx context.Context) error {
	err := s.Session.Logout(ctx)
	s.Cart.Clear()
	s.Nav.Reset()
	s.setUsers(nil)
	return err
}

// Navigate moves to target if the principal may see it.
func (s *State) Navigate(target access.Screen, product *catalog.Product) nav.Outcome {
	out := s.Nav.Navigate(s.Session.Role(), target, product)
	if out == nav.Redirected {
		s.log.Warn().Str("screen", string(target)).Msg("navigation denied")
	}
	return out
}

// Back returns to the parent screen.
func (s *State) Back() access.Screen {
	return s.Nav.Back()
}

// Products returns the home screen list: filtered, sorted when sortBy is
// set, then paged.
func (s *State) Products(f catalog.Filter, sortBy catalog.SortField, page int) catalog.Page {
	return catalog.Paginate(s.Catalog.Query(f, sortBy), s.pageSize, page)
}

func (s *State) lookup(id string) (catalog.Product, bool) {
	return s.Catalog.ByID(id)
}

// Users returns the admin's cached user list.
func (s *State) Users() []session.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]session.Principal(nil), s.users...)
}

func (s *State) setUsers(users []session.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
}

// Settings returns the current display preferences.
func (s *State) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings applies and persists new preferences.
func (s *State) UpdateSettings(next Settings) error {
	s.mu.Lock()
	s.settings = next
	s.mu.Unlock()
	if s.saveSettings == nil {
		return nil
	}
	if err := s.saveSettings(next); err != nil {
		s.log.Warn().Err(err).Msg("saving settings")
		s.Toasts.Error("Could not save settings")
		return err
	}
	return nil
}
