package nav_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/nav"
	"github.com/blackwell-systems/shelfshop/internal/notify"
)

func rolePtr(r access.Role) *access.Role { return &r }

func TestNavigate_Allowed(t *testing.T) {
	q := notify.NewQueue()
	n := nav.New(q)
	assert.Equal(t, access.ScreenHome, n.Current())

	out := n.Navigate(rolePtr(access.RoleManager), access.ScreenManager, nil)
	assert.Equal(t, nav.Moved, out)
	assert.Equal(t, access.ScreenManager, n.Current())
	assert.Empty(t, q.Active())
}

func TestNavigate_DeniedRedirectsWithOneWarning(t *testing.T) {
	q := notify.NewQueue()
	n := nav.New(q)
	n.Navigate(rolePtr(access.RoleUser), access.ScreenCart, nil)

	out := n.Navigate(rolePtr(access.RoleUser), access.ScreenAdmin, nil)
	assert.Equal(t, nav.Redirected, out)
	assert.Equal(t, access.ScreenHome, n.Current())

	toasts := q.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.KindWarning, toasts[0].Kind)
	assert.Equal(t, nav.DeniedMessage, toasts[0].Message)
}

func TestNavigate_SignedOutIsDenied(t *testing.T) {
	q := notify.NewQueue()
	n := nav.New(q)
	assert.Equal(t, nav.Redirected, n.Navigate(nil, access.ScreenCart, nil))
	assert.Len(t, q.Active(), 1)
}

func TestNavigate_BookDetailsNeedsProduct(t *testing.T) {
	n := nav.New(nil)
	user := rolePtr(access.RoleUser)
	n.Navigate(user, access.ScreenCart, nil)

	assert.Equal(t, nav.Ignored, n.Navigate(user, access.ScreenBookDetails, nil))
	assert.Equal(t, access.ScreenCart, n.Current())

	p := catalog.Product{ID: "dune", Title: "Dune"}
	assert.Equal(t, nav.Moved, n.Navigate(user, access.ScreenBookDetails, &p))
	sel, ok := n.Selected()
	require.True(t, ok)
	assert.Equal(t, "dune", sel.ID)

	p.Title = "changed"
	sel, _ = n.Selected()
	assert.Equal(t, "Dune", sel.Title)
}

func TestBack(t *testing.T) {
	user := rolePtr(access.RoleUser)
	tests := []struct {
		from access.Screen
		want access.Screen
	}{
		{access.ScreenEditProfile, access.ScreenProfile},
		{access.ScreenSettings, access.ScreenProfile},
		{access.ScreenNotifications, access.ScreenProfile},
		{access.ScreenBookDetails, access.ScreenHome},
		{access.ScreenCart, access.ScreenHome},
		{access.ScreenProfile, access.ScreenHome},
		{access.ScreenHome, access.ScreenHome},
	}
	for _, tt := range tests {
		n := nav.New(nil)
		p := &catalog.Product{ID: "x"}
		require.Equal(t, nav.Moved, n.Navigate(user, tt.from, p), tt.from)
		assert.Equal(t, tt.want, n.Back(), tt.from)
		assert.Equal(t, tt.want, nav.BackTarget(tt.from))
	}
}

func TestRevalidate_AfterRoleChange(t *testing.T) {
	q := notify.NewQueue()
	n := nav.New(q)
	n.Navigate(rolePtr(access.RoleAdmin), access.ScreenAdmin, nil)

	assert.Equal(t, nav.Ignored, n.Revalidate(rolePtr(access.RoleAdmin)))
	assert.Empty(t, q.Active())

	assert.Equal(t, nav.Redirected, n.Revalidate(rolePtr(access.RoleManager)))
	assert.Equal(t, access.ScreenHome, n.Current())
	assert.Len(t, q.Active(), 1)
}

func TestRevalidate_SignedOutOnHome(t *testing.T) {
	q := notify.NewQueue()
	n := nav.New(q)
	assert.Equal(t, nav.Ignored, n.Revalidate(nil))
	assert.Empty(t, q.Active())
}

func TestReset(t *testing.T) {
	n := nav.New(nil)
	n.Navigate(rolePtr(access.RoleUser), access.ScreenBookDetails, &catalog.Product{ID: "a"})
	n.Reset()
	assert.Equal(t, access.ScreenHome, n.Current())
	_, ok := n.Selected()
	assert.False(t, ok)
}
