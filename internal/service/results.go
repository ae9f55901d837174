package service

import (
	"time"

	"crm/internal/domain"

	"github.com/shopspring/decimal"
)

// CustomerInput carries the fields of a new customer. An empty or nil phone means none.
type CustomerInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// ProductInput carries the fields of a new product. A nil stock means zero.
type ProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

// OrderInput carries the fields of a new order. Ids are kept as received so
// that unresolvable values can be reported verbatim.
type OrderInput struct {
	CustomerID string     `json:"customerId"`
	ProductIDs []string   `json:"productIds"`
	OrderDate  *time.Time `json:"orderDate,omitempty"`
}

// CustomerResult is the outcome of CreateCustomer
type CustomerResult struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message"`
	Customer *domain.Customer `json:"customer"`
}

// BulkCustomersResult is the outcome of BulkCreateCustomers. Errors is nil when
// every entry was created.
type BulkCustomersResult struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	Customers []*domain.Customer `json:"customers"`
	Errors    []string           `json:"errors"`
}

// ProductResult is the outcome of CreateProduct
type ProductResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Product *domain.Product `json:"product"`
}

// OrderResult is the outcome of CreateOrder
type OrderResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// RestockResult is the outcome of UpdateLowStockProducts
type RestockResult struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Products []*domain.Product `json:"products"`
}
