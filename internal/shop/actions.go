package shop

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/cart"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/session"
)

// CartLine is a cart line joined with its current catalog entry.
type CartLine struct {
	cart.Line
	Product  catalog.Product
	Found    bool
	Subtotal decimal.Decimal
}

// AddToCart adds qty of product id.
func (s *State) AddToCart(id string, qty int) error {
	p, ok := s.lookup(id)
	if !ok {
		err := fmt.Errorf("%w: %s", catalog.ErrUnknownProduct, id)
		s.Toasts.Error(UserMessage(err))
		return err
	}
	n, err := s.Cart.Add(p, qty)
	if err != nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	if n > p.InStock {
		s.Toasts.Warn(fmt.Sprintf("Only %d of %q in stock", p.InStock, p.Title))
		return nil
	}
	s.Toasts.Success(fmt.Sprintf("%q added to cart", p.Title))
	return nil
}

// SetCartQuantity sets a line's quantity; 0 or less removes it.
func (s *State) SetCartQuantity(id string, qty int) {
	s.Cart.UpdateQuantity(id, qty)
}

// RemoveFromCart drops a line.
func (s *State) RemoveFromCart(id string) {
	s.Cart.Remove(id)
	s.Toasts.Success("Removed from cart")
}

// CartLines returns the cart joined with current prices.
func (s *State) CartLines() []CartLine {
	lines := s.Cart.Lines()
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		p, ok := s.lookup(l.ProductID)
		cl := CartLine{Line: l, Product: p, Found: ok, Subtotal: decimal.Zero}
		if ok {
			cl.Subtotal = p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		out = append(out, cl)
	}
	return out
}

// CartTotal prices the cart at current catalog prices.
func (s *State) CartTotal() decimal.Decimal {
	return s.Cart.Total(s.lookup)
}

// StockWarnings lists cart lines exceeding stock.
func (s *State) StockWarnings() []cart.StockWarning {
	return s.Cart.StockWarnings(s.lookup)
}

func (s *State) actor() (access.Actor, error) {
	a, err := s.Session.Actor()
	if err != nil {
		s.Toasts.Error(UserMessage(err))
	}
	return a, err
}

// CreateProduct adds a book to the catalog.
func (s *State) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	a, err := s.actor()
	if err != nil {
		return catalog.Product{}, err
	}
	stored, err := s.Catalog.Create(ctx, a, p)
	if err != nil {
		s.Toasts.Error(UserMessage(err))
		return catalog.Product{}, err
	}
	s.log.Info().Str("id", stored.ID).Str("by", a.ID).Msg("book created")
	s.Toasts.Success(fmt.Sprintf("%q added", stored.Title))
	return stored, nil
}

// UpdateProduct edits a book.
func (s *State) UpdateProduct(ctx context.Context, id string, patch catalog.Patch) (catalog.Product, error) {
	a, err := s.actor()
	if err != nil {
		return catalog.Product{}, err
	}
	stored, err := s.Catalog.Update(ctx, a, id, patch)
	if err != nil {
		s.Toasts.Error(UserMessage(err))
		return catalog.Product{}, err
	}
	s.log.Info().Str("id", id).Str("by", a.ID).Msg("book updated")
	s.Toasts.Success(fmt.Sprintf("%q saved", stored.Title))
	return stored, nil
}

// DeleteProduct removes a book. Cart lines for it stay and price at zero.
func (s *State) DeleteProduct(ctx context.Context, id string) error {
	a, err := s.actor()
	if err != nil {
		return err
	}
	if err := s.Catalog.Delete(ctx, a, id); err != nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	s.log.Info().Str("id", id).Str("by", a.ID).Msg("book deleted")
	s.Toasts.Success("Book deleted")
	return nil
}

// UpdateProfile edits the signed-in user's own profile.
func (s *State) UpdateProfile(ctx context.Context, patch session.ProfilePatch) (session.Principal, error) {
	p, err := s.Session.UpdateProfile(ctx, patch)
	if err != nil {
		s.Toasts.Error(UserMessage(err))
		return session.Principal{}, err
	}
	s.Toasts.Success("Profile updated")
	return p, nil
}

// SetUserRole changes another user's role and refreshes the admin list.
func (s *State) SetUserRole(ctx context.Context, id string, role access.Role) error {
	updated, err := s.Session.SetRole(ctx, id, role)
	if err != nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == updated.ID {
			s.users[i] = updated
		}
	}
	s.mu.Unlock()
	s.Toasts.Success(fmt.Sprintf("%s is now %s", updated.Email, updated.Role))
	return nil
}

// DeleteUser removes another user's profile.
func (s *State) DeleteUser(ctx context.Context, id string) error {
	if err := s.Session.DeleteUser(ctx, id); err != nil {
		s.Toasts.Error(UserMessage(err))
		return err
	}
	s.mu.Lock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i:i], s.users[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.Toasts.Success("User deleted")
	return nil
}

// RoleCounts tallies the cached user list.
func (s *State) RoleCounts() map[access.Role]int {
	return session.RoleCounts(s.Users())
}
