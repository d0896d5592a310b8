// Package nav tracks which screen is showing and guards every transition
// with the access rules.
package nav

import (
	"sync"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/notify"
)

// DeniedMessage is the warning raised when a transition is refused.
const DeniedMessage = "You do not have access to that screen"

// Outcome describes what a navigation request did.
type Outcome int

const (
	Moved      Outcome = iota // screen changed to the target
	Redirected                // target denied, screen is now home
	Ignored                   // request was a no-op
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Redirected:
		return "redirected"
	default:
		return "ignored"
	}
}

// backTargets are the single-level parents of nested screens.
var backTargets = map[access.Screen]access.Screen{
	access.ScreenEditProfile:   access.ScreenProfile,
	access.ScreenSettings:      access.ScreenProfile,
	access.ScreenNotifications: access.ScreenProfile,
}

// BackTarget returns the screen Back leads to from s.
func BackTarget(s access.Screen) access.Screen {
	if t, ok := backTargets[s]; ok {
		return t
	}
	return access.ScreenHome
}

// Navigator is the navigation state machine. It is safe for concurrent use.
type Navigator struct {
	toasts *notify.Queue

	mu       sync.Mutex
	current  access.Screen
	selected *catalog.Product
}

// New starts on the home screen. Denied transitions warn through toasts,
// which may be nil.
func New(toasts *notify.Queue) *Navigator {
	return &Navigator{toasts: toasts, current: access.ScreenHome}
}

// Current returns the screen being shown.
func (n *Navigator) Current() access.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Selected returns the product chosen for the details screen.
func (n *Navigator) Selected() (catalog.Product, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.selected == nil {
		return catalog.Product{}, false
	}
	return *n.selected, true
}

// Navigate moves to target if role may see it. A denied target lands on
// home with exactly one warning. bookDetails needs a product; without one
// nothing happens.
func (n *Navigator) Navigate(role *access.Role, target access.Screen, product *catalog.Product) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !access.IsAuthorized(role, target) {
		n.current = access.ScreenHome
		n.selected = nil
		n.warn()
		return Redirected
	}
	if target == access.ScreenBookDetails {
		if product == nil {
			return Ignored
		}
		p := *product
		n.selected = &p
	}
	n.current = target
	return Moved
}

// Back moves to the parent of the current screen.
func (n *Navigator) Back() access.Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == access.ScreenBookDetails {
		n.selected = nil
	}
	n.current = BackTarget(n.current)
	return n.current
}

// Revalidate re-checks the current screen after the principal changed and
// redirects home with a warning when it is no longer allowed.
func (n *Navigator) Revalidate(role *access.Role) Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	if access.IsAuthorized(role, n.current) {
		return Ignored
	}
	if n.current == access.ScreenHome {
		// Nobody signed in: home is the resting screen, not a denial.
		return Ignored
	}
	n.current = access.ScreenHome
	n.selected = nil
	n.warn()
	return Redirected
}

// Reset returns to home and forgets the selection.
func (n *Navigator) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = access.ScreenHome
	n.selected = nil
}

func (n *Navigator) warn() {
	if n.toasts != nil {
		n.toasts.Warn(DeniedMessage)
	}
}
