package access

import (
	"errors"
	"fmt"
)

// Role is the authorization level attached to a principal.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

var validRoles = []Role{RoleAdmin, RoleManager, RoleUser}

// ErrForbidden is returned when a principal lacks the role for an action.
var ErrForbidden = errors.New("forbidden")

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Roles returns the known roles, most privileged first.
func Roles() []Role {
	out := make([]Role, len(validRoles))
	copy(out, validRoles)
	return out
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}

// Screen is one navigable view of the storefront.
type Screen string

const (
	ScreenHome          Screen = "home"
	ScreenCart          Screen = "cart"
	ScreenProfile       Screen = "profile"
	ScreenBookDetails   Screen = "bookDetails"
	ScreenAdmin         Screen = "admin"
	ScreenManager       Screen = "manager"
	ScreenEditProfile   Screen = "editProfile"
	ScreenSettings      Screen = "settings"
	ScreenNotifications Screen = "notifications"
)

var allScreens = []Screen{
	ScreenHome,
	ScreenCart,
	ScreenProfile,
	ScreenBookDetails,
	ScreenAdmin,
	ScreenManager,
	ScreenEditProfile,
	ScreenSettings,
	ScreenNotifications,
}

// AllScreens returns the closed set of screens.
func AllScreens() []Screen {
	out := make([]Screen, len(allScreens))
	copy(out, allScreens)
	return out
}

// IsValid reports whether s is a known screen.
func (s Screen) IsValid() bool {
	for _, candidate := range allScreens {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScreen converts raw input into a Screen.
func ParseScreen(value string) (Screen, error) {
	for _, candidate := range allScreens {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid screen %q", value)
}

// IsAuthorized reports whether a principal holding role may view screen.
// A nil role means nobody is signed in.
func IsAuthorized(role *Role, screen Screen) bool {
	if role == nil || !screen.IsValid() {
		return false
	}
	switch *role {
	case RoleAdmin:
		return true
	case RoleManager:
		return screen != ScreenAdmin
	case RoleUser:
		return screen != ScreenAdmin && screen != ScreenManager
	default:
		return false
	}
}

// CanManageCatalog reports whether role may create, edit or delete products.
func CanManageCatalog(role Role) bool {
	return role == RoleAdmin || role == RoleManager
}

// CanManageUsers reports whether role may list users and change their roles.
func CanManageUsers(role Role) bool {
	return role == RoleAdmin
}

// Actor identifies who is performing a mutation.
type Actor struct {
	ID   string
	Role Role
}
