package shop

import (
	"errors"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/cart"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/session"
	"github.com/blackwell-systems/shelfshop/internal/validate"
)

// UserMessage turns an error into a sentence fit for a toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fieldErrs validate.Errors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return capitalize(fieldErrs[0].Error())
	}
	var fieldErr *validate.ValidationError
	if errors.As(err, &fieldErr) {
		return capitalize(fieldErr.Error())
	}

	switch {
	case gateway.IsAuthKind(err, gateway.AuthInvalidCredentials):
		return "Invalid email or password"
	case gateway.IsAuthKind(err, gateway.AuthEmailInUse):
		return "This email is already registered"
	case gateway.IsAuthKind(err, gateway.AuthUnknown):
		return "Registration failed, please try again"
	case gateway.IsRemoteKind(err, gateway.RemoteNetwork):
		return "Network error, check your connection"
	case gateway.IsNotFound(err):
		return "Not found"
	case errors.Is(err, gateway.ErrNotSignedIn):
		return "Please sign in first"
	case errors.Is(err, access.ErrForbidden):
		return "You are not allowed to do that"
	case errors.Is(err, session.ErrRoleRestricted):
		return "Your role can only be changed by an administrator"
	case errors.Is(err, session.ErrSelfDelete):
		return "You cannot delete your own account"
	case errors.Is(err, catalog.ErrBusy):
		return "Another change to this book is still saving"
	case errors.Is(err, catalog.ErrUnknownProduct):
		return "Book not found"
	case errors.Is(err, cart.ErrInvalidQuantity):
		return "Quantity must be at least 1"
	case gateway.IsRemoteKind(err, gateway.RemoteUnknown):
		return "Server error, please try again"
	}
	return capitalize(err.Error())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
