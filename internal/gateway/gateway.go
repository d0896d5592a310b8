// Package gateway is the only place the storefront talks to the hosted
// authentication and document-database service.
package gateway

import (
	"context"
	"fmt"
	"strconv"
)

// Collections used by the storefront.
const (
	CollectionUsers = "users"
	CollectionBooks = "books"
)

// Record is the field set of one document. Values are string, int64,
// float64, bool, nil, Record or []any.
type Record map[string]any

// Document is a record together with its id.
type Document struct {
	ID     string
	Fields Record
}

// Identity is an authenticated account as reported by the auth provider.
type Identity struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	DisplayName  string `yaml:"display_name,omitempty"`
	IDToken      string `yaml:"id_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
}

// Auth is the authentication half of the backend.
type Auth interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	CreateAccount(ctx context.Context, email, password string) (Identity, error)
	SignOut(ctx context.Context) error
	// CurrentIdentity returns the identity left over from an earlier run, or
	// nil when nobody is signed in.
	CurrentIdentity(ctx context.Context) (*Identity, error)
}

// DocumentStore is the document-database half of the backend.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	SetDocument(ctx context.Context, collection, id string, rec Record) error
	AddDocument(ctx context.Context, collection string, rec Record) (string, error)
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	UpdateDocument(ctx context.Context, collection, id string, patch Record) error
	DeleteDocument(ctx context.Context, collection, id string) error
}

// Gateway is the full backend boundary.
type Gateway interface {
	Auth
	DocumentStore
}

// SessionStore persists the signed-in identity between runs.
type SessionStore interface {
	LoadSession() (*Identity, error)
	SaveSession(id Identity) error
	ClearSession() error
}

// String returns the named field as a string, or "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the named field as an int64. Whole doubles and numeric
// strings are accepted.
func (r Record) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
