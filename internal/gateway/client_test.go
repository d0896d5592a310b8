package gateway_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

const docsPrefix = "/v1/projects/demo/databases/(default)/documents/"

// fakeBackend imitates the Identity Toolkit, token and Firestore endpoints.
type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	docs     map[string]map[string]any // path -> typed fields
	nextID   int
	lastAuth string
	lastURL  *url.URL

	// expiredToken is answered with 401 on document calls.
	expiredToken string
	revoked      bool
	refreshes    int
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{t: t, docs: map[string]map[string]any{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": msg}})
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.lastURL = r.URL

	switch {
	case r.URL.Path == "/v1/accounts:signInWithPassword":
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret1" {
			apiError(w, http.StatusBadRequest, "INVALID_LOGIN_CREDENTIALS")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"localId": "uid-1", "email": req["email"], "displayName": "Reader",
			"idToken": "tok-1", "refreshToken": "ref-1",
		})
	case r.URL.Path == "/v1/accounts:signUp":
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["email"] == "taken@example.com" {
			apiError(w, http.StatusBadRequest, "EMAIL_EXISTS")
			return
		}
		if req["email"] == "weird@example.com" {
			apiError(w, http.StatusBadRequest, "OPERATION_NOT_ALLOWED")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"localId": "uid-2", "idToken": "tok-2", "refreshToken": "ref-2"})
	case r.URL.Path == "/v1/token":
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		fb.refreshes++
		if form.Get("refresh_token") != "ref-1" || fb.revoked {
			apiError(w, http.StatusBadRequest, "TOKEN_EXPIRED")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id_token": "tok-fresh", "refresh_token": "ref-1", "user_id": "uid-1"})
	case strings.HasPrefix(r.URL.Path, docsPrefix):
		fb.lastAuth = r.Header.Get("Authorization")
		if fb.expiredToken != "" && fb.lastAuth == "Bearer "+fb.expiredToken {
			apiError(w, http.StatusUnauthorized, "Request had invalid authentication credentials")
			return
		}
		fb.documents(w, r, strings.TrimPrefix(r.URL.Path, docsPrefix))
	default:
		http.NotFound(w, r)
	}
}

func (fb *fakeBackend) documents(w http.ResponseWriter, r *http.Request, path string) {
	name := "projects/demo/databases/(default)/documents/" + path
	collection, _, hasID := strings.Cut(path, "/")
	switch {
	case r.Method == http.MethodGet && !hasID:
		var docs []map[string]any
		for p, fields := range fb.docs {
			if strings.HasPrefix(p, collection+"/") {
				docs = append(docs, map[string]any{"name": "projects/demo/databases/(default)/documents/" + p, "fields": fields})
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
	case r.Method == http.MethodGet:
		fields, ok := fb.docs[path]
		if !ok {
			apiError(w, http.StatusNotFound, "Document not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"name": name, "fields": fields})
	case r.Method == http.MethodPost:
		var doc struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&doc)
		fb.nextID++
		p := fmt.Sprintf("%s/auto%d", collection, fb.nextID)
		fb.docs[p] = doc.Fields
		writeJSON(w, http.StatusOK, map[string]any{"name": "projects/demo/databases/(default)/documents/" + p, "fields": doc.Fields})
	case r.Method == http.MethodPatch:
		var doc struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&doc)
		existing, ok := fb.docs[path]
		mask := r.URL.Query()["updateMask.fieldPaths"]
		if r.URL.Query().Get("currentDocument.exists") == "true" && !ok {
			apiError(w, http.StatusNotFound, "No document to update")
			return
		}
		if len(mask) == 0 || !ok {
			fb.docs[path] = doc.Fields
		} else {
			for _, f := range mask {
				existing[f] = doc.Fields[f]
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"name": name, "fields": fb.docs[path]})
	case r.Method == http.MethodDelete:
		delete(fb.docs, path)
		writeJSON(w, http.StatusOK, map[string]any{})
	}
}

type memSessions struct {
	saved *gateway.Identity
}

func (s *memSessions) LoadSession() (*gateway.Identity, error) { return s.saved, nil }
func (s *memSessions) SaveSession(id gateway.Identity) error  { s.saved = &id; return nil }
func (s *memSessions) ClearSession() error                     { s.saved = nil; return nil }

func newClient(srv *httptest.Server, sessions gateway.SessionStore) *gateway.Client {
	return gateway.New(gateway.Options{
		APIKey:        "k",
		ProjectID:     "demo",
		AuthBase:      srv.URL + "/v1",
		TokenBase:     srv.URL + "/v1",
		FirestoreBase: srv.URL + "/v1",
		Timeout:       2 * time.Second,
		Sessions:      sessions,
		Logger:        zerolog.Nop(),
	})
}

func TestClient_AuthenticatePersistsSession(t *testing.T) {
	_, srv := newFakeBackend(t)
	sessions := &memSessions{}
	c := newClient(srv, sessions)

	id, err := c.Authenticate(context.Background(), "reader@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.ID)
	assert.Equal(t, "Reader", id.DisplayName)
	require.NotNil(t, sessions.saved)
	assert.Equal(t, "ref-1", sessions.saved.RefreshToken)

	require.NoError(t, c.SignOut(context.Background()))
	assert.Nil(t, sessions.saved)
}

func TestClient_AuthenticateRejected(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := newClient(srv, nil)

	_, err := c.Authenticate(context.Background(), "reader@example.com", "nope")
	assert.True(t, gateway.IsAuthKind(err, gateway.AuthInvalidCredentials))
}

func TestClient_CreateAccountErrors(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := newClient(srv, nil)
	ctx := context.Background()

	id, err := c.CreateAccount(ctx, "fresh@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-2", id.ID)
	assert.Equal(t, "fresh@example.com", id.Email)

	_, err = c.CreateAccount(ctx, "taken@example.com", "secret1")
	assert.True(t, gateway.IsAuthKind(err, gateway.AuthEmailInUse))

	_, err = c.CreateAccount(ctx, "weird@example.com", "secret1")
	assert.True(t, gateway.IsAuthKind(err, gateway.AuthUnknown))
}

func TestClient_CurrentIdentityRefreshes(t *testing.T) {
	_, srv := newFakeBackend(t)
	sessions := &memSessions{saved: &gateway.Identity{ID: "uid-1", Email: "reader@example.com", IDToken: "stale", RefreshToken: "ref-1"}}
	c := newClient(srv, sessions)

	id, err := c.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "tok-fresh", id.IDToken)
	assert.Equal(t, "reader@example.com", id.Email)
	assert.Equal(t, "tok-fresh", sessions.saved.IDToken)
}

func TestClient_CurrentIdentityExpiredRefresh(t *testing.T) {
	_, srv := newFakeBackend(t)
	sessions := &memSessions{saved: &gateway.Identity{ID: "uid-1", RefreshToken: "revoked"}}
	c := newClient(srv, sessions)

	id, err := c.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, id)
	assert.Nil(t, sessions.saved)
}

func TestClient_DocumentsRequireSignIn(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := newClient(srv, nil)

	_, err := c.ListDocuments(context.Background(), gateway.CollectionBooks)
	assert.ErrorIs(t, err, gateway.ErrNotSignedIn)
}

func TestClient_DocumentLifecycle(t *testing.T) {
	fb, srv := newFakeBackend(t)
	c := newClient(srv, nil)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "reader@example.com", "secret1")
	require.NoError(t, err)

	id, err := c.AddDocument(ctx, gateway.CollectionBooks, gateway.Record{
		"title": "Dune", "price": 9.5, "inStock": int64(4), "featured": true, "notes": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "auto1", id)
	assert.Equal(t, "Bearer tok-1", fb.lastAuth)

	doc, err := c.GetDocument(ctx, gateway.CollectionBooks, id)
	require.NoError(t, err)
	assert.Equal(t, "auto1", doc.ID)
	assert.Equal(t, "Dune", doc.Fields["title"])
	assert.Equal(t, 9.5, doc.Fields["price"])
	assert.Equal(t, int64(4), doc.Fields["inStock"])
	assert.Equal(t, true, doc.Fields["featured"])
	assert.Nil(t, doc.Fields["notes"])

	require.NoError(t, c.UpdateDocument(ctx, gateway.CollectionBooks, id, gateway.Record{"inStock": int64(2)}))
	assert.Equal(t, []string{"inStock"}, fb.lastURL.Query()["updateMask.fieldPaths"])

	doc, err = c.GetDocument(ctx, gateway.CollectionBooks, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Fields["inStock"])
	assert.Equal(t, "Dune", doc.Fields["title"])

	docs, err := c.ListDocuments(ctx, gateway.CollectionBooks)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "auto1", docs[0].ID)

	require.NoError(t, c.DeleteDocument(ctx, gateway.CollectionBooks, id))
	_, err = c.GetDocument(ctx, gateway.CollectionBooks, id)
	assert.True(t, gateway.IsNotFound(err))
}

func TestClient_RenewsExpiredIDToken(t *testing.T) {
	fb, srv := newFakeBackend(t)
	sessions := &memSessions{}
	c := newClient(srv, sessions)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "reader@example.com", "secret1")
	require.NoError(t, err)
	fb.docs["books/dune"] = map[string]any{"title": map[string]any{"stringValue": "Dune"}}
	fb.expiredToken = "tok-1"

	doc, err := c.GetDocument(ctx, gateway.CollectionBooks, "dune")
	require.NoError(t, err)
	assert.Equal(t, "Dune", doc.Fields["title"])
	assert.Equal(t, 1, fb.refreshes)
	assert.Equal(t, "Bearer tok-fresh", fb.lastAuth)
	require.NotNil(t, sessions.saved)
	assert.Equal(t, "tok-fresh", sessions.saved.IDToken)

	_, err = c.GetDocument(ctx, gateway.CollectionBooks, "dune")
	require.NoError(t, err)
	assert.Equal(t, 1, fb.refreshes, "renewed token is reused")
}

func TestClient_RevokedRefreshSignsOut(t *testing.T) {
	fb, srv := newFakeBackend(t)
	sessions := &memSessions{}
	c := newClient(srv, sessions)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "reader@example.com", "secret1")
	require.NoError(t, err)
	fb.expiredToken = "tok-1"
	fb.revoked = true

	_, err = c.ListDocuments(ctx, gateway.CollectionBooks)
	assert.True(t, gateway.IsAuthKind(err, gateway.AuthInvalidCredentials))
	assert.Nil(t, sessions.saved)

	id, err := c.CurrentIdentity(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestClient_UpdateMissingDocument(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := newClient(srv, nil)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "reader@example.com", "secret1")
	require.NoError(t, err)

	err = c.UpdateDocument(ctx, gateway.CollectionUsers, "ghost", gateway.Record{"name": "x"})
	assert.True(t, gateway.IsNotFound(err))
}

func TestClient_SetDocumentNestedValues(t *testing.T) {
	_, srv := newFakeBackend(t)
	c := newClient(srv, nil)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "reader@example.com", "secret1")
	require.NoError(t, err)

	rec := gateway.Record{
		"name": "Ann",
		"prefs": gateway.Record{"theme": "dark"},
		"tags":  []any{"a", int64(1)},
	}
	require.NoError(t, c.SetDocument(ctx, gateway.CollectionUsers, "u1", rec))

	doc, err := c.GetDocument(ctx, gateway.CollectionUsers, "u1")
	require.NoError(t, err)
	assert.Equal(t, gateway.Record{"theme": "dark"}, doc.Fields["prefs"])
	assert.Equal(t, []any{"a", int64(1)}, doc.Fields["tags"])
}

func TestClient_ServerErrorsAreClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "accounts:") {
			writeJSON(w, http.StatusOK, map[string]any{"localId": "u", "idToken": "t"})
			return
		}
		apiError(w, http.StatusServiceUnavailable, "backend unavailable")
	}))
	t.Cleanup(srv.Close)
	c := newClient(srv, nil)
	ctx := context.Background()
	_, err := c.Authenticate(ctx, "a@b.c", "x")
	require.NoError(t, err)

	_, err = c.ListDocuments(ctx, gateway.CollectionBooks)
	assert.True(t, gateway.IsRemoteKind(err, gateway.RemoteNetwork))
}

func TestClient_UnreachableHostIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := gateway.New(gateway.Options{AuthBase: base, Timeout: time.Second, Logger: zerolog.Nop()})
	_, err := c.Authenticate(context.Background(), "a@b.c", "x")
	assert.True(t, gateway.IsRemoteKind(err, gateway.RemoteNetwork))
}
