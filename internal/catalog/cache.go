package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blackwell-systems/shelfshop/internal/access"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
	"github.com/blackwell-systems/shelfshop/internal/validate"
)

var (
	// ErrBusy is returned when a mutation for the same product is already in flight.
	ErrBusy = errors.New("another change to this book is still in progress")
	// ErrUnknownProduct is returned when a product id is not in the cache.
	ErrUnknownProduct = errors.New("book not found")
)

// Cache is the in-memory catalog backed by the books collection. Mutations
// go to the backend first; the local copy only changes once the backend has
// acknowledged them.
type Cache struct {
	store gateway.DocumentStore

	mu       sync.RWMutex
	products []Product
	loaded   bool
	pending  map[string]bool
}

// NewCache creates an empty cache over store.
func NewCache(store gateway.DocumentStore) *Cache {
	return &Cache{store: store, pending: map[string]bool{}}
}

// Load replaces the cache with the current books collection. On failure the
// previous contents are kept.
func (c *Cache) Load(ctx context.Context) error {
	docs, err := c.store.ListDocuments(ctx, gateway.CollectionBooks)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, FromDocument(d))
	}
	c.mu.Lock()
	c.products = products
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Restore replaces the cache with a locally saved snapshot.
func (c *Cache) Restore(products []Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = append([]Product(nil), products...)
	c.loaded = true
}

// Loaded reports whether the cache holds a catalog.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Products returns a copy of every cached product.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Product(nil), c.products...)
}

// ByID returns a copy of the product with the given id.
func (c *Cache) ByID(id string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p := ByID(c.products, id); p != nil {
		return *p, true
	}
	return Product{}, false
}

// Search returns products whose title or author contains q.
func (c *Cache) Search(q string) []Product {
	return Filter{Search: q}.Apply(c.Products())
}

// FilterByGenre returns products of genre, or all products for "all".
func (c *Cache) FilterByGenre(genre string) []Product {
	return Filter{Genre: genre}.Apply(c.Products())
}

// Query applies f and, when sortBy is set, sorts the result.
func (c *Cache) Query(f Filter, sortBy SortField) []Product {
	out := f.Apply(c.Products())
	if sortBy != "" {
		out = SortBy(out, sortBy)
	}
	return out
}

// Paginate pages the whole catalog.
func (c *Cache) Paginate(size, page int) Page {
	return Paginate(c.Products(), size, page)
}

// Genres lists "all" plus each cached genre.
func (c *Cache) Genres() []string {
	return Genres(c.Products())
}

// Stats summarizes the cached inventory.
func (c *Cache) Stats() Stats {
	return ComputeStats(c.Products())
}

// Pending reports whether a mutation for id is in flight.
func (c *Cache) Pending(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending[id]
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.loaded = false
}

func (c *Cache) begin(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[id] {
		return ErrBusy
	}
	c.pending[id] = true
	return nil
}

func (c *Cache) end(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func checkProduct(p Product) error {
	return validate.Struct(validate.Product{
		Title:   p.Title,
		Author:  p.Author,
		Price:   p.Price.InexactFloat64(),
		InStock: p.InStock,
	})
}

// Create adds a new product on behalf of actor and returns it as stored.
// A blank image gets DefaultImage and the product is owned by actor.
func (c *Cache) Create(ctx context.Context, actor access.Actor, p Product) (Product, error) {
	if !access.CanManageCatalog(actor.Role) {
		return Product{}, access.ErrForbidden
	}
	if err := checkProduct(p); err != nil {
		return Product{}, err
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}
	p.ManagerID = actor.ID

	id, err := c.store.AddDocument(ctx, gateway.CollectionBooks, p.Record())
	if err != nil {
		return Product{}, fmt.Errorf("adding book: %w", err)
	}
	doc, err := c.store.GetDocument(ctx, gateway.CollectionBooks, id)
	if err != nil {
		return Product{}, fmt.Errorf("reading new book: %w", err)
	}
	stored := FromDocument(doc)

	c.mu.Lock()
	c.products = Append(c.products, stored)
	c.mu.Unlock()
	return stored, nil
}

// Update applies patch to product id and returns the stored result.
func (c *Cache) Update(ctx context.Context, actor access.Actor, id string, patch Patch) (Product, error) {
	if !access.CanManageCatalog(actor.Role) {
		return Product{}, access.ErrForbidden
	}
	current, ok := c.ByID(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	if patch.IsEmpty() {
		return current, nil
	}
	if err := checkProduct(patch.Apply(current)); err != nil {
		return Product{}, err
	}
	if err := c.begin(id); err != nil {
		return Product{}, err
	}
	defer c.end(id)

	if err := c.store.UpdateDocument(ctx, gateway.CollectionBooks, id, patch.Record()); err != nil {
		return Product{}, fmt.Errorf("updating book: %w", err)
	}
	doc, err := c.store.GetDocument(ctx, gateway.CollectionBooks, id)
	if err != nil {
		return Product{}, fmt.Errorf("reading updated book: %w", err)
	}
	stored := FromDocument(doc)

	c.mu.Lock()
	c.products = Append(c.products, stored)
	c.mu.Unlock()
	return stored, nil
}

// Delete removes product id.
func (c *Cache) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !access.CanManageCatalog(actor.Role) {
		return access.ErrForbidden
	}
	if _, ok := c.ByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	if err := c.begin(id); err != nil {
		return err
	}
	defer c.end(id)

	if err := c.store.DeleteDocument(ctx, gateway.CollectionBooks, id); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	c.mu.Lock()
	c.products, _ = Remove(c.products, id)
	c.mu.Unlock()
	return nil
}
