package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crm/internal/domain"
	"crm/internal/filter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, f filter.ProductFilter, sort filter.Sort) ([]*domain.Product, error)
	ListBelowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Restock(ctx context.Context, threshold, amount int, now time.Time) ([]*domain.Product, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, now time.Time) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.name, p.price, p.stock, p.created_at, p.updated_at`

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, name, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.Stock,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching f in the given order
func (r *productRepository) List(ctx context.Context, f filter.ProductFilter, sort filter.Sort) ([]*domain.Product, error) {
	b := filter.NewBuilder()
	f.SQL(b)

	query := fmt.Sprintf(`SELECT %s FROM products p %s %s`, productColumns, b.Where(), sort.SQL("p"))

	rows, err := r.db.QueryContext(ctx, query, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return collectProducts(rows)
}

// ListBelowStock retrieves products whose stock is strictly below threshold, by name
func (r *productRepository) ListBelowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.stock < $1 ` + filter.DefaultProductSort.SQL("p")

	rows, err := r.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock products: %w", err)
	}
	return collectProducts(rows)
}

// Restock adds amount to every product below threshold in one statement and
// returns the updated products ordered by name.
func (r *productRepository) Restock(ctx context.Context, threshold, amount int, now time.Time) ([]*domain.Product, error) {
	query := `
		WITH p AS (
			UPDATE products
			SET stock = stock + $2, updated_at = $3
			WHERE stock < $1
			RETURNING id, name, price, stock, created_at, updated_at
		)
		SELECT ` + productColumns + ` FROM p ` + filter.DefaultProductSort.SQL("p")

	rows, err := r.db.QueryContext(ctx, query, threshold, amount, now)
	if err != nil {
		return nil, fmt.Errorf("failed to restock products: %w", err)
	}
	return collectProducts(rows)
}

// UpdatePrice changes the current price of a product
func (r *productRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, now time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE products SET price = $2, updated_at = $3 WHERE id = $1`, id, price, now)
	if err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
