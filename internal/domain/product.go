package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the stock level under which a product counts as low-stock.
	LowStockThreshold = 10

	// RestockAmount is added to every low-stock product by a restock sweep.
	RestockAmount = 10
)

// Product represents a product in the catalog
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ValidateProduct checks name, price and stock before persistence.
func ValidateProduct(name string, price decimal.Decimal, stock int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
