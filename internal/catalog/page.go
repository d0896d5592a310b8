package catalog

// DefaultPageSize is the number of products shown per home-screen page.
const DefaultPageSize = 6

// Page is one slice of a paginated product list.
type Page struct {
	Items     []Product
	Page      int // 1-indexed
	PageCount int
	Total     int
}

// Paginate returns page (1-indexed) of products. A non-positive size uses
// DefaultPageSize. Pages outside 1..PageCount have no items.
func Paginate(products []Product, size, page int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(products)
	count := (total + size - 1) / size
	out := Page{Page: page, PageCount: count, Total: total, Items: []Product{}}
	if page < 1 || page > count {
		return out
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	out.Items = append(out.Items, products[start:end]...)
	return out
}
