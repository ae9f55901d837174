package filter

import (
	"time"

	"crm/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter holds the order listing criteria. Order columns use alias o and the
// owning customer is joined as c.
type OrderFilter struct {
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	CustomerID     *uuid.UUID
	CustomerName   *string
	ProductName    *string
	ProductID      *uuid.UUID
}

// SQL appends the filter predicates to b.
func (f OrderFilter) SQL(b *Builder) {
	if f.TotalAmountGte != nil {
		b.Add("o.total_amount >= $%d", *f.TotalAmountGte)
	}
	if f.TotalAmountLte != nil {
		b.Add("o.total_amount <= $%d", *f.TotalAmountLte)
	}
	if f.OrderDateGte != nil {
		b.Add("o.order_date >= $%d", *f.OrderDateGte)
	}
	if f.OrderDateLte != nil {
		b.Add("o.order_date <= $%d", *f.OrderDateLte)
	}
	if f.CustomerID != nil {
		b.Add("o.customer_id = $%d", *f.CustomerID)
	}
	if f.CustomerName != nil {
		b.Add("c.name ILIKE $%d", containsPattern(*f.CustomerName))
	}
	if f.ProductName != nil {
		b.Add(`EXISTS (
			SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND p.name ILIKE $%d)`, containsPattern(*f.ProductName))
	}
	if f.ProductID != nil {
		b.Add(`EXISTS (
			SELECT 1 FROM order_products op
			WHERE op.order_id = o.id AND op.product_id = $%d)`, *f.ProductID)
	}
}

// Match reports whether o satisfies every criterion. o must carry its customer and products.
func (f OrderFilter) Match(o *domain.Order) bool {
	if f.TotalAmountGte != nil && o.TotalAmount.LessThan(*f.TotalAmountGte) {
		return false
	}
	if f.TotalAmountLte != nil && o.TotalAmount.GreaterThan(*f.TotalAmountLte) {
		return false
	}
	if f.OrderDateGte != nil && o.OrderDate.Before(*f.OrderDateGte) {
		return false
	}
	if f.OrderDateLte != nil && o.OrderDate.After(*f.OrderDateLte) {
		return false
	}
	if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
		return false
	}
	if f.CustomerName != nil && (o.Customer == nil || !containsFold(o.Customer.Name, *f.CustomerName)) {
		return false
	}
	if f.ProductName != nil && !anyProduct(o.Products, func(p *domain.Product) bool {
		return containsFold(p.Name, *f.ProductName)
	}) {
		return false
	}
	if f.ProductID != nil && !anyProduct(o.Products, func(p *domain.Product) bool {
		return p.ID == *f.ProductID
	}) {
		return false
	}
	return true
}

func anyProduct(products []*domain.Product, fn func(*domain.Product) bool) bool {
	for _, p := range products {
		if fn(p) {
			return true
		}
	}
	return false
}
