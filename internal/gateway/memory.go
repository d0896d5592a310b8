package gateway

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memAccount struct {
	id       string
	email    string
	password string
	name     string
}

// Memory is an in-process Gateway used for demos and tests. It is safe for
// concurrent use.
type Memory struct {
	mu       sync.Mutex
	accounts map[string]*memAccount // by lowercased email
	docs     map[string]map[string]Record
	current  *Identity
	failNext error
	calls    int
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*memAccount),
		docs:     make(map[string]map[string]Record),
	}
}

// AddAccount registers credentials without touching any collection and
// returns the new account id.
func (m *Memory) AddAccount(email, password, displayName string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addAccountLocked(email, password, displayName)
}

func (m *Memory) addAccountLocked(email, password, displayName string) string {
	acct := &memAccount{
		id:       uuid.NewString(),
		email:    email,
		password: password,
		name:     displayName,
	}
	m.accounts[strings.ToLower(email)] = acct
	return acct.id
}

// Seed stores a document directly.
func (m *Memory) Seed(collection, id string, rec Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = rec.Clone()
}

// FailNext makes the next gateway call return err.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Calls reports how many gateway calls have been made.
func (m *Memory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// enter must be called with mu held.
func (m *Memory) enter(ctx context.Context) error {
	m.calls++
	if err := ctx.Err(); err != nil {
		return &RemoteError{Kind: RemoteNetwork, Err: err}
	}
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	return nil
}

func (m *Memory) collection(name string) map[string]Record {
	c, ok := m.docs[name]
	if !ok {
		c = make(map[string]Record)
		m.docs[name] = c
	}
	return c
}

func (m *Memory) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return Identity{}, err
	}
	acct, ok := m.accounts[strings.ToLower(email)]
	if !ok || acct.password != password {
		return Identity{}, &AuthError{Kind: AuthInvalidCredentials}
	}
	id := Identity{ID: acct.id, Email: acct.email, DisplayName: acct.name}
	m.current = &id
	return id, nil
}

func (m *Memory) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return Identity{}, err
	}
	if _, exists := m.accounts[strings.ToLower(email)]; exists {
		return Identity{}, &AuthError{Kind: AuthEmailInUse}
	}
	uid := m.addAccountLocked(email, password, "")
	id := Identity{ID: uid, Email: email}
	m.current = &id
	return id, nil
}

func (m *Memory) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}

func (m *Memory) CurrentIdentity(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	if m.current == nil {
		return nil, nil
	}
	id := *m.current
	return &id, nil
}

func (m *Memory) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return Document{}, err
	}
	rec, ok := m.collection(collection)[id]
	if !ok {
		return Document{}, notFound(collection, id)
	}
	return Document{ID: id, Fields: rec.Clone()}, nil
}

func (m *Memory) SetDocument(ctx context.Context, collection, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	if id == "" {
		return &RemoteError{Kind: RemoteUnknown, Err: errors.New("empty document id")}
	}
	m.collection(collection)[id] = rec.Clone()
	return nil
}

func (m *Memory) AddDocument(ctx context.Context, collection string, rec Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return "", err
	}
	id := uuid.NewString()
	m.collection(collection)[id] = rec.Clone()
	return id, nil
}

// ListDocuments returns documents ordered by id. Callers must not rely on
// that order; the hosted backend makes no such promise.
func (m *Memory) ListDocuments(ctx context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return nil, err
	}
	c := m.collection(collection)
	out := make([]Document, 0, len(c))
	for id, rec := range c {
		out = append(out, Document{ID: id, Fields: rec.Clone()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateDocument(ctx context.Context, collection, id string, patch Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	rec, ok := m.collection(collection)[id]
	if !ok {
		return notFound(collection, id)
	}
	for k, v := range patch {
		rec[k] = v
	}
	return nil
}

func (m *Memory) DeleteDocument(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx); err != nil {
		return err
	}
	delete(m.collection(collection), id)
	return nil
}
