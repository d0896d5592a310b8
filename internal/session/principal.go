package session

import (
	"strings"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

// Principal is the signed-in user as recorded in the users collection.
type Principal struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  access.Role `json:"role"`
}

// Actor returns the principal as an access.Actor.
func (p Principal) Actor() access.Actor {
	return access.Actor{ID: p.ID, Role: p.Role}
}

// Record returns the users document fields for p.
func (p Principal) Record() gateway.Record {
	return gateway.Record{
		"email": p.Email,
		"name":  p.Name,
		"role":  string(p.Role),
	}
}

// FromDocument decodes a users document. A missing or unknown role is
// treated as the least privileged one.
func FromDocument(doc gateway.Document) Principal {
	role, err := access.ParseRole(doc.Fields.String("role"))
	if err != nil {
		role = access.RoleUser
	}
	return Principal{
		ID:    doc.ID,
		Email: doc.Fields.String("email"),
		Name:  doc.Fields.String("name"),
		Role:  role,
	}
}

// DefaultName is the display name given to a user without one: the
// provider's display name, else the local part of the email.
func DefaultName(id gateway.Identity) string {
	if strings.TrimSpace(id.DisplayName) != "" {
		return id.DisplayName
	}
	local, _, _ := strings.Cut(id.Email, "@")
	return local
}

// RoleCounts tallies users per role. Every role is present in the result.
func RoleCounts(users []Principal) map[access.Role]int {
	out := make(map[access.Role]int, len(access.Roles()))
	for _, r := range access.Roles() {
		out[r] = 0
	}
	for _, u := range users {
		out[u.Role]++
	}
	return out
}
