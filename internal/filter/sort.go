package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"crm/internal/domain"
)

// Sort is a validated ordering over one whitelisted column.
type Sort struct {
	Field string
	Desc  bool
}

// Default orderings per entity.
var (
	DefaultCustomerSort = Sort{Field: "created_at", Desc: true}
	DefaultProductSort  = Sort{Field: "name"}
	DefaultOrderSort    = Sort{Field: "order_date", Desc: true}
)

var (
	customerSortFields = map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
		"createdAt":  "created_at",
	}
	productSortFields = map[string]string{
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"createdAt":  "created_at",
	}
	orderSortFields = map[string]string{
		"order_date":   "order_date",
		"orderDate":    "order_date",
		"total_amount": "total_amount",
		"totalAmount":  "total_amount",
		"created_at":   "created_at",
		"createdAt":    "created_at",
	}
)

// ParseCustomerSort parses "field" or "-field"; anything unknown yields the default.
func ParseCustomerSort(raw string) Sort {
	return parseSort(raw, customerSortFields, DefaultCustomerSort)
}

// ParseProductSort parses "field" or "-field"; anything unknown yields the default.
func ParseProductSort(raw string) Sort {
	return parseSort(raw, productSortFields, DefaultProductSort)
}

// ParseOrderSort parses "field" or "-field"; anything unknown yields the default.
func ParseOrderSort(raw string) Sort {
	return parseSort(raw, orderSortFields, DefaultOrderSort)
}

func parseSort(raw string, fields map[string]string, def Sort) Sort {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	column, ok := fields[strings.TrimPrefix(raw, "-")]
	if !ok {
		return def
	}
	return Sort{Field: column, Desc: desc}
}

// SQL renders an ORDER BY clause for the given table alias, with id as tiebreaker.
// Field must come from one of the Parse functions or defaults.
func (s Sort) SQL(alias string) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s.%s %s, %s.id ASC", alias, s.Field, dir, alias)
}

func (s Sort) apply(c int) int {
	if s.Desc {
		return -c
	}
	return c
}

// SortCustomers orders customers in place the way Sort.SQL would.
func SortCustomers(customers []*domain.Customer, s Sort) {
	slices.SortStableFunc(customers, func(a, b *domain.Customer) int {
		var c int
		switch s.Field {
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "email":
			c = strings.Compare(a.Email, b.Email)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		return cmp.Or(s.apply(c), strings.Compare(a.ID.String(), b.ID.String()))
	})
}

// SortProducts orders products in place the way Sort.SQL would.
func SortProducts(products []*domain.Product, s Sort) {
	slices.SortStableFunc(products, func(a, b *domain.Product) int {
		var c int
		switch s.Field {
		case "price":
			c = a.Price.Cmp(b.Price)
		case "stock":
			c = cmp.Compare(a.Stock, b.Stock)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		return cmp.Or(s.apply(c), strings.Compare(a.ID.String(), b.ID.String()))
	})
}

// SortOrders orders orders in place the way Sort.SQL would.
func SortOrders(orders []*domain.Order, s Sort) {
	slices.SortStableFunc(orders, func(a, b *domain.Order) int {
		var c int
		switch s.Field {
		case "total_amount":
			c = a.TotalAmount.Cmp(b.TotalAmount)
		case "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		default:
			c = a.OrderDate.Compare(b.OrderDate)
		}
		return cmp.Or(s.apply(c), strings.Compare(a.ID.String(), b.ID.String()))
	})
}
