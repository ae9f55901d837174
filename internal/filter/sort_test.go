package filter

import (
	"testing"
	"time"

	"crm/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	assert.Equal(t, DefaultProductSort, ParseProductSort(""))
	assert.Equal(t, DefaultProductSort, ParseProductSort("name; DROP TABLE products"))
	assert.Equal(t, Sort{Field: "price", Desc: true}, ParseProductSort("-price"))
	assert.Equal(t, Sort{Field: "order_date"}, ParseOrderSort("orderDate"))
	assert.Equal(t, Sort{Field: "total_amount", Desc: true}, ParseOrderSort("-totalAmount"))
	assert.Equal(t, DefaultOrderSort, ParseOrderSort("-stock"))
	assert.Equal(t, Sort{Field: "email"}, ParseCustomerSort("email"))
	assert.Equal(t, DefaultCustomerSort, ParseCustomerSort("phone"))
}

func TestSort_SQL(t *testing.T) {
	assert.Equal(t, "ORDER BY o.order_date DESC, o.id ASC", DefaultOrderSort.SQL("o"))
	assert.Equal(t, "ORDER BY p.name ASC, p.id ASC", DefaultProductSort.SQL("p"))
}

func TestSortProducts(t *testing.T) {
	products := []*domain.Product{
		{ID: uuid.New(), Name: "Mouse", Price: decimal.NewFromInt(20), Stock: 3},
		{ID: uuid.New(), Name: "Keyboard", Price: decimal.NewFromInt(50), Stock: 7},
		{ID: uuid.New(), Name: "Laptop", Price: decimal.NewFromInt(900), Stock: 1},
	}

	SortProducts(products, DefaultProductSort)
	assert.Equal(t, []string{"Keyboard", "Laptop", "Mouse"}, names(products))

	SortProducts(products, ParseProductSort("-price"))
	assert.Equal(t, []string{"Laptop", "Keyboard", "Mouse"}, names(products))

	SortProducts(products, ParseProductSort("stock"))
	assert.Equal(t, []string{"Laptop", "Mouse", "Keyboard"}, names(products))
}

func TestSortOrders_DefaultNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := &domain.Order{ID: uuid.New(), OrderDate: base}
	recent := &domain.Order{ID: uuid.New(), OrderDate: base.Add(48 * time.Hour)}
	orders := []*domain.Order{old, recent}

	SortOrders(orders, DefaultOrderSort)
	assert.Equal(t, []*domain.Order{recent, old}, orders)
}

func TestSortCustomers_DefaultNewestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &domain.Customer{ID: uuid.New(), Name: "First", CreatedAt: base}
	second := &domain.Customer{ID: uuid.New(), Name: "Second", CreatedAt: base.Add(time.Minute)}
	customers := []*domain.Customer{first, second}

	SortCustomers(customers, DefaultCustomerSort)
	assert.Equal(t, []*domain.Customer{second, first}, customers)
}

func names(products []*domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}
