package catalog

import "github.com/shopspring/decimal"

// LowStockThreshold is the largest stock count still reported as low.
const LowStockThreshold = 5

// Stats summarizes the inventory for the manager dashboard.
type Stats struct {
	Titles     int
	LowStock   int // 0 < stock <= LowStockThreshold
	OutOfStock int
	StockValue decimal.Decimal // sum of price * stock
}

// ComputeStats returns inventory statistics for products.
func ComputeStats(products []Product) Stats {
	s := Stats{Titles: len(products), StockValue: decimal.Zero}
	for _, p := range products {
		switch {
		case p.InStock == 0:
			s.OutOfStock++
		case p.InStock <= LowStockThreshold:
			s.LowStock++
		}
		s.StockValue = s.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.InStock))))
	}
	return s
}

// IsLowStock reports whether p should be flagged in the inventory list.
func IsLowStock(p Product) bool {
	return p.InStock > 0 && p.InStock <= LowStockThreshold
}
