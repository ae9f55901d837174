package repository

import (
	"context"
	"testing"
	"time"

	"crm/internal/domain"
	"crm/internal/filter"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(name, price string, stock int) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, cents int64, stock int) bool {
			product := newTestProduct(name, "1", stock)
			product.Price = decimal.New(cents, -2)

			if err := repo.Create(ctx, product); err != nil {
				t.Logf("Failed to create product: %v", err)
				return false
			}

			found, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("Failed to find product: %v", err)
				return false
			}

			return found.Name == name && found.Price.Equal(product.Price) && found.Stock == stock
		},
		gen.Identifier(),
		gen.Int64Range(1, 99999999),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}

func TestProductRepository_ConstraintsRejectInvalidRows(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	assert.Error(t, repo.Create(ctx, newTestProduct("Free", "0", 1)))
	assert.Error(t, repo.Create(ctx, newTestProduct("Negative", "1.00", -1)))
}

func TestProductRepository_Restock(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	products := []*domain.Product{
		newTestProduct("Widget", "2.50", 3),
		newTestProduct("Gadget", "9.99", 9),
		newTestProduct("Doohickey", "1.00", 10),
		newTestProduct("Sprocket", "4.00", 50),
	}
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
	}

	low, err := repo.ListBelowStock(ctx, domain.LowStockThreshold)
	require.NoError(t, err)
	require.Len(t, low, 2)

	now := time.Now().UTC()
	updated, err := repo.Restock(ctx, domain.LowStockThreshold, domain.RestockAmount, now)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "Gadget", updated[0].Name)
	assert.Equal(t, 19, updated[0].Stock)
	assert.Equal(t, "Widget", updated[1].Name)
	assert.Equal(t, 13, updated[1].Stock)

	untouched, err := repo.FindByID(ctx, products[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 10, untouched.Stock, "stock at the threshold is not low")

	updated, err = repo.Restock(ctx, domain.LowStockThreshold, domain.RestockAmount, now)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestProductRepository_ListFilters(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	for _, p := range []*domain.Product{
		newTestProduct("Laptop", "999.99", 5),
		newTestProduct("Mouse", "25.00", 100),
		newTestProduct("Laptop Stand", "45.50", 20),
	} {
		require.NoError(t, repo.Create(ctx, p))
	}

	minPrice := decimal.RequireFromString("30")
	found, err := repo.List(ctx, filter.ProductFilter{PriceGte: &minPrice}, filter.ParseProductSort("-price"))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Laptop", found[0].Name)
	assert.Equal(t, "Laptop Stand", found[1].Name)

	lowStock := true
	found, err = repo.List(ctx, filter.ProductFilter{LowStock: &lowStock}, filter.DefaultProductSort)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Laptop", found[0].Name)
}

func TestProductRepository_UpdatePrice(t *testing.T) {
	resetTables(t)
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("Lamp", "10.00", 4)
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.UpdatePrice(ctx, product.ID, decimal.RequireFromString("12.25"), time.Now()))
	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("12.25")))

	assert.ErrorIs(t, repo.UpdatePrice(ctx, uuid.New(), decimal.NewFromInt(1), time.Now()), domain.ErrProductNotFound)
}
