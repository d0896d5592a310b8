package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/shelfshop/internal/catalog"
	"github.com/blackwell-systems/shelfshop/internal/gateway"
)

var sampleYAML = []byte(`
- id: dune
  title: "Dune"
  author: "Frank Herbert"
  price: "12.50"
  genre: "Sci-Fi"
  in_stock: 4

- id: emma
  title: "Emma"
  author: "Jane Austen"
  price: "8"
  genre: "Classic"
  in_stock: 0

- id: found
  title: "Foundation"
  author: "Isaac Asimov"
  price: "10.00"
  genre: "Sci-Fi"
  in_stock: 12
`)

func sample(t *testing.T) []catalog.Product {
	t.Helper()
	products, err := catalog.Parse(sampleYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return products
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func equalIDs(got []catalog.Product, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

// --- Parse / Marshal ---

func TestParse_ValidYAML(t *testing.T) {
	products := sample(t)
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if !products[0].Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("products[0].Price = %s, want 12.5", products[0].Price)
	}
	if products[2].InStock != 12 {
		t.Errorf("products[2].InStock = %d, want 12", products[2].InStock)
	}
}

func TestParse_Empty(t *testing.T) {
	products, err := catalog.Parse(nil)
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected 0 products, got %d", len(products))
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := catalog.Parse([]byte(":: bad yaml [")); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	products := sample(t)
	data, err := catalog.Marshal(products)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := catalog.Parse(data)
	if err != nil {
		t.Fatalf("re-Parse: %v", err)
	}
	if len(again) != len(products) {
		t.Fatalf("round-trip length: got %d, want %d", len(again), len(products))
	}
	for i := range products {
		if products[i].ID != again[i].ID || !products[i].Price.Equal(again[i].Price) {
			t.Errorf("[%d] mismatch: %+v vs %+v", i, products[i], again[i])
		}
	}
}

// --- Append / Remove / ByID ---

func TestAppend_ReplacesExisting(t *testing.T) {
	products := catalog.Append(sample(t), catalog.Product{ID: "dune", Title: "Dune Messiah"})
	if len(products) != 3 {
		t.Errorf("expected 3 after replace, got %d", len(products))
	}
	if products[0].Title != "Dune Messiah" {
		t.Errorf("title not updated: %q", products[0].Title)
	}
}

func TestRemove(t *testing.T) {
	products, ok := catalog.Remove(sample(t), "emma")
	if !ok || !equalIDs(products, "dune", "found") {
		t.Errorf("Remove existing: ok=%v ids=%v", ok, ids(products))
	}
	products, ok = catalog.Remove(products, "nope")
	if ok || len(products) != 2 {
		t.Errorf("Remove missing: ok=%v len=%d", ok, len(products))
	}
}

func TestByID(t *testing.T) {
	products := sample(t)
	if p := catalog.ByID(products, "found"); p == nil || p.Title != "Foundation" {
		t.Errorf("ByID(found) = %+v", p)
	}
	if p := catalog.ByID(products, "missing"); p != nil {
		t.Errorf("ByID returned non-nil for missing product")
	}
}

// --- Filter ---

func TestFilter(t *testing.T) {
	products := sample(t)
	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"empty", catalog.Filter{}, []string{"dune", "emma", "found"}},
		{"title case-insensitive", catalog.Filter{Search: "DUNE"}, []string{"dune"}},
		{"author", catalog.Filter{Search: "austen"}, []string{"emma"}},
		{"genre", catalog.Filter{Genre: "Sci-Fi"}, []string{"dune", "found"}},
		{"all genres", catalog.Filter{Genre: catalog.AllGenres}, []string{"dune", "emma", "found"}},
		{"genre and search", catalog.Filter{Genre: "Sci-Fi", Search: "asimov"}, []string{"found"}},
		{"no match", catalog.Filter{Search: "zzz"}, []string{}},
		{"whitespace search", catalog.Filter{Search: "  "}, []string{"dune", "emma", "found"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(products)
			if !equalIDs(got, tt.want...) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestGenres_FirstSeenOrder(t *testing.T) {
	got := catalog.Genres(sample(t))
	want := []string{"all", "Sci-Fi", "Classic"}
	if len(got) != len(want) {
		t.Fatalf("Genres = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Genres[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSortBy(t *testing.T) {
	products := sample(t)
	tests := []struct {
		field catalog.SortField
		want  []string
	}{
		{catalog.SortTitle, []string{"dune", "emma", "found"}},
		{catalog.SortAuthor, []string{"dune", "found", "emma"}},
		{catalog.SortPrice, []string{"emma", "found", "dune"}},
		{catalog.SortStock, []string{"emma", "dune", "found"}},
	}
	for _, tt := range tests {
		got := catalog.SortBy(products, tt.field)
		if !equalIDs(got, tt.want...) {
			t.Errorf("SortBy(%s) = %v, want %v", tt.field, ids(got), tt.want)
		}
	}
	if !equalIDs(products, "dune", "emma", "found") {
		t.Error("SortBy modified its input")
	}
}

func TestParseSortField(t *testing.T) {
	if f, err := catalog.ParseSortField("Price"); err != nil || f != catalog.SortPrice {
		t.Errorf("ParseSortField(Price) = %q, %v", f, err)
	}
	if _, err := catalog.ParseSortField("year"); err == nil {
		t.Error("expected error for unknown field")
	}
}

// --- Paginate ---

func makeProducts(n int) []catalog.Product {
	out := make([]catalog.Product, n)
	for i := range out {
		out[i] = catalog.Product{ID: string(rune('a' + i))}
	}
	return out
}

func TestPaginate(t *testing.T) {
	products := makeProducts(13)
	tests := []struct {
		size, page  int
		wantItems   int
		wantCount   int
		wantFirstID string
	}{
		{6, 1, 6, 3, "a"},
		{6, 3, 1, 3, "m"},
		{6, 4, 0, 3, ""},
		{6, 0, 0, 3, ""},
		{0, 2, 6, 3, "g"},
		{13, 1, 13, 1, "a"},
	}
	for _, tt := range tests {
		p := catalog.Paginate(products, tt.size, tt.page)
		if len(p.Items) != tt.wantItems || p.PageCount != tt.wantCount || p.Total != 13 {
			t.Errorf("Paginate(%d,%d) = items %d count %d total %d", tt.size, tt.page, len(p.Items), p.PageCount, p.Total)
			continue
		}
		if tt.wantFirstID != "" && p.Items[0].ID != tt.wantFirstID {
			t.Errorf("Paginate(%d,%d) first = %q, want %q", tt.size, tt.page, p.Items[0].ID, tt.wantFirstID)
		}
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := catalog.Paginate(nil, 6, 1)
	if p.PageCount != 0 || len(p.Items) != 0 {
		t.Errorf("empty catalog: %+v", p)
	}
}

// --- Stats ---

func TestComputeStats(t *testing.T) {
	products := append(sample(t), catalog.Product{ID: "x", Price: decimal.NewFromInt(3), InStock: 5})
	s := catalog.ComputeStats(products)
	if s.Titles != 4 {
		t.Errorf("Titles = %d, want 4", s.Titles)
	}
	if s.LowStock != 2 {
		t.Errorf("LowStock = %d, want 2", s.LowStock)
	}
	if s.OutOfStock != 1 {
		t.Errorf("OutOfStock = %d, want 1", s.OutOfStock)
	}
	// 12.5*4 + 8*0 + 10*12 + 3*5
	if want := decimal.RequireFromString("185"); !s.StockValue.Equal(want) {
		t.Errorf("StockValue = %s, want %s", s.StockValue, want)
	}
}

// --- Documents ---

func TestFromDocument_PriceEncodings(t *testing.T) {
	tests := []struct {
		price any
		want  string
	}{
		{9.99, "9.99"},
		{int64(10), "10"},
		{"7.25", "7.25"},
		{nil, "0"},
	}
	for _, tt := range tests {
		p := catalog.FromDocument(gateway.Document{ID: "b", Fields: gateway.Record{"price": tt.price, "inStock": int64(2)}})
		if !p.Price.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("price %v decoded as %s, want %s", tt.price, p.Price, tt.want)
		}
		if p.InStock != 2 {
			t.Errorf("InStock = %d, want 2", p.InStock)
		}
	}
}

func TestPatch_RecordOnlyChangedFields(t *testing.T) {
	title := "New"
	stock := 3
	rec := catalog.Patch{Title: &title, InStock: &stock}.Record()
	if len(rec) != 2 || rec["title"] != "New" || rec["inStock"] != int64(3) {
		t.Errorf("Patch.Record = %v", rec)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.50", "12.5", false},
		{" $7 ", "7", false},
		{"0", "0", false},
		{"", "", true},
		{"twelve", "", true},
	}
	for _, tt := range tests {
		got, err := catalog.ParsePrice(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePrice(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParsePrice(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDiff(t *testing.T) {
	from := catalog.Product{ID: "b1", Title: "Dune", Author: "Herbert", Price: decimal.RequireFromString("9.99"), InStock: 4}

	if p := catalog.Diff(from, from); !p.IsEmpty() {
		t.Errorf("Diff of identical products should be empty, got %+v", p)
	}

	to := from
	to.Price = decimal.RequireFromString("9.990")
	if p := catalog.Diff(from, to); !p.IsEmpty() {
		t.Error("equal prices with different scale should not be a change")
	}

	to.Title = "Dune Messiah"
	to.InStock = 0
	p := catalog.Diff(from, to)
	if p.Title == nil || *p.Title != "Dune Messiah" {
		t.Errorf("Title not patched: %+v", p)
	}
	if p.InStock == nil || *p.InStock != 0 {
		t.Errorf("InStock not patched: %+v", p)
	}
	if p.Author != nil || p.Price != nil || p.Genre != nil {
		t.Errorf("unexpected fields patched: %+v", p)
	}
	if got := p.Apply(from); got.Title != "Dune Messiah" || got.InStock != 0 || got.Author != "Herbert" {
		t.Errorf("Apply(Diff) = %+v", got)
	}
}
