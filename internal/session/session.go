// Package session owns the signed-in principal: login, registration,
// logout, resumption, profile edits and the admin's user management.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/validate"
)

var (
	// ErrRoleRestricted is returned when a role change is attempted through a
	// path that may not make it.
	ErrRoleRestricted = errors.New("role can only be changed by an administrator for another user")
	// ErrSelfDelete is returned when an admin tries to delete their own account.
	ErrSelfDelete = errors.New("you cannot delete your own account")
)

// Status is the authentication state.
type Status int

const (
	StatusLoading Status = iota
	StatusSignedOut
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusSignedOut:
		return "signedOut"
	case StatusSignedIn:
		return "signedIn"
	default:
		return "loading"
	}
}

// ProfilePatch is an edit of the signed-in user's own profile. Role is
// accepted only to be rejected.
type ProfilePatch struct {
	Name  *string
	Email *string
	Role  *access.Role
}

// Store holds the current principal. It is safe for concurrent use.
type Store struct {
	gw  gateway.Gateway
	log zerolog.Logger

	mu        sync.RWMutex
	status    Status
	principal *Principal
}

// NewStore returns a store in the loading state.
func NewStore(gw gateway.Gateway, log zerolog.Logger) *Store {
	return &Store{gw: gw, log: log, status: StatusLoading}
}

// Status reports the authentication state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Principal returns a copy of the signed-in principal.
func (s *Store) Principal() (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Role returns the principal's role, or nil when signed out.
func (s *Store) Role() *access.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	r := s.principal.Role
	return &r
}

// Actor returns the principal as an actor.
func (s *Store) Actor() (access.Actor, error) {
	p, ok := s.Principal()
	if !ok {
		return access.Actor{}, gateway.ErrNotSignedIn
	}
	return p.Actor(), nil
}

func (s *Store) set(p *Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principal = p
	if p == nil {
		s.status = StatusSignedOut
	} else {
		s.status = StatusSignedIn
	}
}

// Resume restores a session left by an earlier run. Without one the store
// becomes signed out.
func (s *Store) Resume(ctx context.Context) error {
	id, err := s.gw.CurrentIdentity(ctx)
	if err != nil {
		s.set(nil)
		return fmt.Errorf("resuming session: %w", err)
	}
	if id == nil {
		s.set(nil)
		return nil
	}
	p, err := s.loadOrCreate(ctx, *id)
	if err != nil {
		s.set(nil)
		return err
	}
	s.set(&p)
	s.log.Info().Str("uid", p.ID).Str("role", p.Role.String()).Msg("session resumed")
	return nil
}

// Login signs in. Every provider rejection is reported as invalid
// credentials; transport failures keep their network kind.
func (s *Store) Login(ctx context.Context, email, password string) (Principal, error) {
	email = strings.TrimSpace(email)
	if err := validate.Struct(validate.Credentials{Email: email, Password: password}); err != nil {
		return Principal{}, err
	}
	id, err := s.gw.Authenticate(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sign in failed")
		if gateway.IsRemoteKind(err, gateway.RemoteNetwork) {
			return Principal{}, err
		}
		var ae *gateway.AuthError
		if errors.As(err, &ae) && ae.Kind == gateway.AuthInvalidCredentials {
			return Principal{}, err
		}
		return Principal{}, &gateway.AuthError{Kind: gateway.AuthInvalidCredentials, Err: err}
	}
	p, err := s.loadOrCreate(ctx, id)
	if err != nil {
		_ = s.gw.SignOut(ctx)
		s.set(nil)
		return Principal{}, err
	}
	s.set(&p)
	s.log.Info().Str("uid", p.ID).Str("role", p.Role.String()).Msg("signed in")
	return p, nil
}

// Register creates an account and its users document with the user role.
// The new account is signed in.
func (s *Store) Register(ctx context.Context, email, password, name string) (Principal, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if err := validate.Struct(validate.Registration{Name: name, Email: email, Password: password}); err != nil {
		return Principal{}, err
	}
	id, err := s.gw.CreateAccount(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("registration failed")
		if gateway.IsAuthKind(err, gateway.AuthEmailInUse) || gateway.IsRemoteKind(err, gateway.RemoteNetwork) {
			return Principal{}, err
		}
		var ae *gateway.AuthError
		if errors.As(err, &ae) && ae.Kind == gateway.AuthUnknown {
			return Principal{}, err
		}
		return Principal{}, &gateway.AuthError{Kind: gateway.AuthUnknown, Err: err}
	}
	p := Principal{ID: id.ID, Email: email, Name: name, Role: access.RoleUser}
	if err := s.gw.SetDocument(ctx, gateway.CollectionUsers, p.ID, p.Record()); err != nil {
		_ = s.gw.SignOut(ctx)
		s.set(nil)
		return Principal{}, fmt.Errorf("creating user profile: %w", err)
	}
	s.set(&p)
	s.log.Info().Str("uid", p.ID).Msg("registered")
	return p, nil
}

// Logout signs out. The local principal is cleared even if the provider
// call fails.
func (s *Store) Logout(ctx context.Context) error {
	err := s.gw.SignOut(ctx)
	s.set(nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("sign out")
		return fmt.Errorf("signing out: %w", err)
	}
	s.log.Info().Msg("signed out")
	return nil
}

func (s *Store) loadOrCreate(ctx context.Context, id gateway.Identity) (Principal, error) {
	doc, err := s.gw.GetDocument(ctx, gateway.CollectionUsers, id.ID)
	if err == nil {
		return FromDocument(doc), nil
	}
	if !gateway.IsNotFound(err) {
		return Principal{}, fmt.Errorf("loading user profile: %w", err)
	}
	p := Principal{ID: id.ID, Email: id.Email, Name: DefaultName(id), Role: access.RoleUser}
	if err := s.gw.SetDocument(ctx, gateway.CollectionUsers, p.ID, p.Record()); err != nil {
		return Principal{}, fmt.Errorf("creating user profile: %w", err)
	}
	s.log.Info().Str("uid", p.ID).Msg("user profile created")
	doc, err = s.gw.GetDocument(ctx, gateway.CollectionUsers, p.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("loading user profile: %w", err)
	}
	return FromDocument(doc), nil
}

// UpdateProfile edits the signed-in user's name and email. Any attempt to
// change the role fails with ErrRoleRestricted before reaching the backend.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfilePatch) (Principal, error) {
	cur, ok := s.Principal()
	if !ok {
		return Principal{}, gateway.ErrNotSignedIn
	}
	if patch.Role != nil && *patch.Role != cur.Role {
		return Principal{}, ErrRoleRestricted
	}
	next := cur
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		next.Email = strings.TrimSpace(*patch.Email)
	}
	if err := validate.Struct(validate.Profile{Name: next.Name, Email: next.Email}); err != nil {
		return Principal{}, err
	}
	if next == cur {
		return cur, nil
	}
	rec := gateway.Record{"name": next.Name, "email": next.Email}
	if err := s.gw.UpdateDocument(ctx, gateway.CollectionUsers, cur.ID, rec); err != nil {
		return Principal{}, fmt.Errorf("updating profile: %w", err)
	}
	doc, err := s.gw.GetDocument(ctx, gateway.CollectionUsers, cur.ID)
	if err != nil {
		return Principal{}, fmt.Errorf("reading profile: %w", err)
	}
	stored := FromDocument(doc)
	s.mu.Lock()
	if s.principal != nil && s.principal.ID == stored.ID {
		s.principal = &stored
	}
	s.mu.Unlock()
	return stored, nil
}

func (s *Store) requireAdmin() (Principal, error) {
	p, ok := s.Principal()
	if !ok {
		return Principal{}, gateway.ErrNotSignedIn
	}
	if !access.CanManageUsers(p.Role) {
		return Principal{}, access.ErrForbidden
	}
	return p, nil
}

// ListUsers returns every user ordered by email. Admin only.
func (s *Store) ListUsers(ctx context.Context) ([]Principal, error) {
	if _, err := s.requireAdmin(); err != nil {
		return nil, err
	}
	docs, err := s.gw.ListDocuments(ctx, gateway.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	users := make([]Principal, 0, len(docs))
	for _, d := range docs {
		users = append(users, FromDocument(d))
	}
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Email) < strings.ToLower(users[j].Email)
	})
	return users, nil
}

// SetRole changes another user's role. Admin only.
func (s *Store) SetRole(ctx context.Context, userID string, role access.Role) (Principal, error) {
	admin, err := s.requireAdmin()
	if err != nil {
		return Principal{}, err
	}
	if !role.IsValid() {
		return Principal{}, fmt.Errorf("invalid role %q", role)
	}
	if userID == admin.ID {
		return Principal{}, ErrRoleRestricted
	}
	if err := s.gw.UpdateDocument(ctx, gateway.CollectionUsers, userID, gateway.Record{"role": string(role)}); err != nil {
		return Principal{}, fmt.Errorf("updating role: %w", err)
	}
	doc, err := s.gw.GetDocument(ctx, gateway.CollectionUsers, userID)
	if err != nil {
		return Principal{}, fmt.Errorf("reading user: %w", err)
	}
	s.log.Info().Str("uid", userID).Str("role", role.String()).Str("by", admin.ID).Msg("role changed")
	return FromDocument(doc), nil
}

// DeleteUser removes another user's profile document. Admin only.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	admin, err := s.requireAdmin()
	if err != nil {
		return err
	}
	if userID == admin.ID {
		return ErrSelfDelete
	}
	if err := s.gw.DeleteDocument(ctx, gateway.CollectionUsers, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	s.log.Info().Str("uid", userID).Str("by", admin.ID).Msg("user deleted")
	return nil
}

// Reload re-reads the principal's users document, picking up changes made
// elsewhere such as a role edit by an administrator.
func (s *Store) Reload(ctx context.Context) (Principal, error) {
	cur, ok := s.Principal()
	if !ok {
		return Principal{}, gateway.ErrNotSignedIn
	}
	doc, err := s.gw.GetDocument(ctx, gateway.CollectionUsers, cur.ID)
	if err != nil {
		return cur, fmt.Errorf("reloading profile: %w", err)
	}
	stored := FromDocument(doc)
	s.mu.Lock()
	if s.principal != nil && s.principal.ID == stored.ID {
		s.principal = &stored
	}
	s.mu.Unlock()
	return stored, nil
}
