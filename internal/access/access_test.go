package access_test

import (
	"testing"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolePtr(r access.Role) *access.Role { return &r }

func TestIsAuthorized_Matrix(t *testing.T) {
	denied := map[access.Role][]access.Screen{
		access.RoleAdmin:   nil,
		access.RoleManager: {access.ScreenAdmin},
		access.RoleUser:    {access.ScreenAdmin, access.ScreenManager},
	}

	for _, screen := range access.AllScreens() {
		assert.False(t, access.IsAuthorized(nil, screen), "no principal must be denied %s", screen)
	}

	for role, deny := range denied {
		for _, screen := range access.AllScreens() {
			want := true
			for _, d := range deny {
				if d == screen {
					want = false
				}
			}
			got := access.IsAuthorized(rolePtr(role), screen)
			assert.Equal(t, want, got, "IsAuthorized(%s, %s)", role, screen)
		}
	}
}

func TestIsAuthorized_UnknownInputs(t *testing.T) {
	assert.False(t, access.IsAuthorized(rolePtr("guest"), access.ScreenHome))
	assert.False(t, access.IsAuthorized(rolePtr(access.RoleAdmin), access.Screen("checkout")))
}

func TestParseRole(t *testing.T) {
	r, err := access.ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, access.RoleManager, r)

	_, err = access.ParseRole("owner")
	assert.Error(t, err)
}

func TestParseScreen(t *testing.T) {
	s, err := access.ParseScreen("bookDetails")
	require.NoError(t, err)
	assert.Equal(t, access.ScreenBookDetails, s)

	_, err = access.ParseScreen("BOOKDETAILS")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	assert.True(t, access.CanManageCatalog(access.RoleAdmin))
	assert.True(t, access.CanManageCatalog(access.RoleManager))
	assert.False(t, access.CanManageCatalog(access.RoleUser))

	assert.True(t, access.CanManageUsers(access.RoleAdmin))
	assert.False(t, access.CanManageUsers(access.RoleManager))
}
