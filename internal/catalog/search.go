package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// AllGenres selects every genre.
const AllGenres = "all"

// Filter applies all non-empty criteria and returns matching products.
type Filter struct {
	Search string // case-insensitive substring of title or author
	Genre  string // exact genre; "" or "all" matches everything
}

// Apply returns the subset of products matching all non-empty filter fields,
// in their original order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Genre != "" && f.Genre != AllGenres && p.Genre != f.Genre {
			continue
		}
		if f.Search != "" && !matchesSearch(p, f.Search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ByID returns the product with the given ID, or nil.
func ByID(products []Product, id string) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

// Genres returns "all" followed by each distinct non-empty genre in the order
// it first appears.
func Genres(products []Product) []string {
	out := []string{AllGenres}
	seen := map[string]bool{}
	for _, p := range products {
		if p.Genre == "" || seen[p.Genre] {
			continue
		}
		seen[p.Genre] = true
		out = append(out, p.Genre)
	}
	return out
}

// SortField names a sortable product column.
type SortField string

const (
	SortTitle  SortField = "title"
	SortAuthor SortField = "author"
	SortPrice  SortField = "price"
	SortStock  SortField = "stock"
)

// ParseSortField validates a user-supplied sort column.
func ParseSortField(value string) (SortField, error) {
	switch f := SortField(strings.ToLower(value)); f {
	case SortTitle, SortAuthor, SortPrice, SortStock:
		return f, nil
	}
	return "", fmt.Errorf("invalid sort field %q (want title, author, price or stock)", value)
}

// SortBy returns a sorted copy of products. Ties keep their input order.
func SortBy(products []Product, field SortField) []Product {
	out := append([]Product(nil), products...)
	var less func(a, b Product) bool
	switch field {
	case SortAuthor:
		less = func(a, b Product) bool { return strings.ToLower(a.Author) < strings.ToLower(b.Author) }
	case SortPrice:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortStock:
		less = func(a, b Product) bool { return a.InStock < b.InStock }
	default:
		less = func(a, b Product) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func matchesSearch(p Product, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Author), q)
}
