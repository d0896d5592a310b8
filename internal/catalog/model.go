package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

// DefaultImage is the cover used when a manager adds a book without one.
const DefaultImage = "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?w=400"

// Product is one book offered by the store.
type Product struct {
	ID          string          `yaml:"id" json:"id"`
	Title       string          `yaml:"title" json:"title"`
	Author      string          `yaml:"author" json:"author"`
	Price       decimal.Decimal `yaml:"price" json:"price"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Image       string          `yaml:"image,omitempty" json:"image,omitempty"`
	Genre       string          `yaml:"genre,omitempty" json:"genre,omitempty"`
	InStock     int             `yaml:"in_stock" json:"inStock"`
	ManagerID   string          `yaml:"manager_id,omitempty" json:"managerId,omitempty"`
}

// Patch lists the fields a manager may change. Nil fields are left alone.
type Patch struct {
	Title       *string
	Author      *string
	Price       *decimal.Decimal
	Description *string
	Image       *string
	Genre       *string
	InStock     *int
}

// IsEmpty reports whether p changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Price == nil && p.Description == nil &&
		p.Image == nil && p.Genre == nil && p.InStock == nil
}

// Apply returns a copy of prod with the patch applied.
func (p Patch) Apply(prod Product) Product {
	if p.Title != nil {
		prod.Title = *p.Title
	}
	if p.Author != nil {
		prod.Author = *p.Author
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	if p.Genre != nil {
		prod.Genre = *p.Genre
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	return prod
}

// Record returns the document fields for the patched values only.
func (p Patch) Record() gateway.Record {
	rec := gateway.Record{}
	if p.Title != nil {
		rec["title"] = *p.Title
	}
	if p.Author != nil {
		rec["author"] = *p.Author
	}
	if p.Price != nil {
		rec["price"] = p.Price.InexactFloat64()
	}
	if p.Description != nil {
		rec["description"] = *p.Description
	}
	if p.Image != nil {
		rec["image"] = *p.Image
	}
	if p.Genre != nil {
		rec["genre"] = *p.Genre
	}
	if p.InStock != nil {
		rec["inStock"] = int64(*p.InStock)
	}
	return rec
}

// Record returns the document fields of p. The id is not a field.
func (p Product) Record() gateway.Record {
	return gateway.Record{
		"title":       p.Title,
		"author":      p.Author,
		"price":       p.Price.InexactFloat64(),
		"description": p.Description,
		"image":       p.Image,
		"genre":       p.Genre,
		"inStock":     int64(p.InStock),
		"managerId":   p.ManagerID,
	}
}

// FromDocument decodes a books document. Prices may arrive as doubles,
// integers or numeric strings.
func FromDocument(doc gateway.Document) Product {
	f := doc.Fields
	p := Product{
		ID:          doc.ID,
		Title:       f.String("title"),
		Author:      f.String("author"),
		Description: f.String("description"),
		Image:       f.String("image"),
		Genre:       f.String("genre"),
		ManagerID:   f.String("managerId"),
	}
	if n, ok := f.Int("inStock"); ok {
		p.InStock = int(n)
	}
	switch v := f["price"].(type) {
	case float64:
		p.Price = decimal.NewFromFloat(v)
	case int64:
		p.Price = decimal.NewFromInt(v)
	case int:
		p.Price = decimal.NewFromInt(int64(v))
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			p.Price = d
		}
	}
	return p
}

// ParsePrice reads a user-entered price such as "12.50" or "$12.50".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}

// Diff returns the patch turning from into to. Only fields that differ
// are set, so an unchanged edit yields an empty patch.
func Diff(from, to Product) Patch {
	var p Patch
	if to.Title != from.Title {
		p.Title = &to.Title
	}
	if to.Author != from.Author {
		p.Author = &to.Author
	}
	if !to.Price.Equal(from.Price) {
		p.Price = &to.Price
	}
	if to.Description != from.Description {
		p.Description = &to.Description
	}
	if to.Image != from.Image {
		p.Image = &to.Image
	}
	if to.Genre != from.Genre {
		p.Genre = &to.Genre
	}
	if to.InStock != from.InStock {
		p.InStock = &to.InStock
	}
	return p
}
