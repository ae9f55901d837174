package filter

import (
	"crm/internal/domain"

	"github.com/shopspring/decimal"
)

// ProductFilter holds the product listing criteria. Columns are qualified with alias p.
type ProductFilter struct {
	NameContains *string
	PriceGte     *decimal.Decimal
	PriceLte     *decimal.Decimal
	StockGte     *int
	StockLte     *int
	Stock        *int
	// LowStock selects products below domain.LowStockThreshold when true; false is a no-op.
	LowStock *bool
}

// SQL appends the filter predicates to b.
func (f ProductFilter) SQL(b *Builder) {
	if f.NameContains != nil {
		b.Add("p.name ILIKE $%d", containsPattern(*f.NameContains))
	}
	if f.PriceGte != nil {
		b.Add("p.price >= $%d", *f.PriceGte)
	}
	if f.PriceLte != nil {
		b.Add("p.price <= $%d", *f.PriceLte)
	}
	if f.StockGte != nil {
		b.Add("p.stock >= $%d", *f.StockGte)
	}
	if f.StockLte != nil {
		b.Add("p.stock <= $%d", *f.StockLte)
	}
	if f.Stock != nil {
		b.Add("p.stock = $%d", *f.Stock)
	}
	if f.LowStock != nil && *f.LowStock {
		b.Add("p.stock < $%d", domain.LowStockThreshold)
	}
}

// Match reports whether p satisfies every criterion.
func (f ProductFilter) Match(p *domain.Product) bool {
	if f.NameContains != nil && !containsFold(p.Name, *f.NameContains) {
		return false
	}
	if f.PriceGte != nil && p.Price.LessThan(*f.PriceGte) {
		return false
	}
	if f.PriceLte != nil && p.Price.GreaterThan(*f.PriceLte) {
		return false
	}
	if f.StockGte != nil && p.Stock < *f.StockGte {
		return false
	}
	if f.StockLte != nil && p.Stock > *f.StockLte {
		return false
	}
	if f.Stock != nil && p.Stock != *f.Stock {
		return false
	}
	if f.LowStock != nil && *f.LowStock && p.Stock >= domain.LowStockThreshold {
		return false
	}
	return true
}
