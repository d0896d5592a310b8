package unified

import (
	"time"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
)

// NavigateMsg is emitted when a screen wants to move to another screen.
// Product carries the selection for bookDetails.
type NavigateMsg struct {
	Target  access.Screen
	Product *catalog.Product
}

// BackMsg returns to the parent of the current screen.
type BackMsg struct{}

// QuitAppMsg is emitted when the entire application should quit
type QuitAppMsg struct{}

// startedMsg reports that session resumption finished.
type startedMsg struct{ err error }

// authCompleteMsg reports a login or registration attempt.
type authCompleteMsg struct {
	err        error
	registered bool
}

// logoutCompleteMsg reports that the session was torn down.
type logoutCompleteMsg struct{ err error }

// refreshCompleteMsg reports a principal and catalog reload.
type refreshCompleteMsg struct{ err error }

// profileSavedMsg reports an edit-profile submission.
type profileSavedMsg struct{ err error }

// productSavedMsg reports a manager create or update.
type productSavedMsg struct {
	product catalog.Product
	created bool
	err     error
}

// productDeletedMsg reports a manager delete.
type productDeletedMsg struct {
	id  string
	err error
}

// userChangedMsg reports an admin role change or user deletion.
type userChangedMsg struct {
	id      string
	deleted bool
	err     error
}

// toastTickMsg drives toast expiry.
type toastTickMsg time.Time

// settingsChangedMsg reports saved display preferences.
type settingsChangedMsg struct{}
