// Package cart aggregates the products a shopper intends to buy. It lives for
// one session only and is never sent to the backend.
package cart

import (
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
)

// ErrInvalidQuantity is returned when adding a non-positive quantity.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Line is one product in the cart.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Lookup resolves a product id against the current catalog.
type Lookup func(id string) (catalog.Product, bool)

// Cart holds at most one line per product. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// Add puts qty more of p in the cart and returns the line's new quantity.
func (c *Cart) Add(p catalog.Product, qty int) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.lines[p.ID]; ok {
		line.Quantity += qty
		return line.Quantity, nil
	}
	c.lines[p.ID] = &Line{ProductID: p.ID, Quantity: qty}
	return qty, nil
}

// UpdateQuantity sets the line's quantity exactly; qty <= 0 removes the line.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, ok := c.lines[id]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(c.lines, id)
		return
	}
	line.Quantity = qty
}

// Remove drops the line for id, if any.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lines, id)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*Line)
}

// Quantity returns the quantity held for id, or 0.
func (c *Cart) Quantity(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line, ok := c.lines[id]; ok {
		return line.Quantity
	}
	return 0
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Lines returns the cart contents ordered by product id.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, 0, len(c.lines))
	for _, line := range c.lines {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Total prices every line at the product's current catalog price. Lines
// whose product is no longer in the catalog contribute nothing.
func (c *Cart) Total(lookup Lookup) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines() {
		p, ok := lookup(line.ProductID)
		if !ok {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// StockWarning flags a line asking for more than is in stock.
type StockWarning struct {
	ProductID string
	Title     string
	Requested int
	Available int
}

// StockWarnings lists lines whose quantity exceeds current stock. The cart
// itself never enforces stock.
func (c *Cart) StockWarnings(lookup Lookup) []StockWarning {
	var out []StockWarning
	for _, line := range c.Lines() {
		p, ok := lookup(line.ProductID)
		if !ok || line.Quantity <= p.InStock {
			continue
		}
		out = append(out, StockWarning{
			ProductID: line.ProductID,
			Title:     p.Title,
			Requested: line.Quantity,
			Available: p.InStock,
		})
	}
	return out
}
