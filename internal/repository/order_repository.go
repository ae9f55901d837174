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

// OrderRepository defines the interface for order data access.
// Orders are returned with their customer and products loaded.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	AddProducts(ctx context.Context, orderID uuid.UUID, productIDs []uuid.UUID) error
	RecalculateTotal(ctx context.Context, orderID uuid.UUID, now time.Time) (decimal.Decimal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, f filter.OrderFilter, sort filter.Sort) ([]*domain.Order, error)
}

type orderRepository struct {
	db DBTX
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db DBTX) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.total_amount, o.order_date, o.created_at, o.updated_at,
	       ` + customerColumns + `
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
`

// Create inserts the order row without products
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, total_amount, order_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		order.TotalAmount,
		order.OrderDate,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// AddProducts associates products with an order; existing associations are kept
func (r *orderRepository) AddProducts(ctx context.Context, orderID uuid.UUID, productIDs []uuid.UUID) error {
	query := `
		INSERT INTO order_products (order_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	for _, productID := range productIDs {
		if _, err := r.db.ExecContext(ctx, query, orderID, productID); err != nil {
			return fmt.Errorf("failed to associate product %s: %w", productID, err)
		}
	}

	return nil
}

// RecalculateTotal stores and returns the sum of the current prices of the order's products
func (r *orderRepository) RecalculateTotal(ctx context.Context, orderID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE orders o
		SET total_amount = (
			SELECT COALESCE(SUM(p.price), 0)
			FROM order_products op
			JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id
		), updated_at = $2
		WHERE o.id = $1
		RETURNING o.total_amount
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, orderID, now).Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, domain.ErrOrderNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to calculate order total: %w", err)
	}

	return total, nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	if err := r.loadProducts(ctx, []*domain.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// List retrieves orders matching f in the given order
func (r *orderRepository) List(ctx context.Context, f filter.OrderFilter, sort filter.Sort) ([]*domain.Order, error) {
	b := filter.NewBuilder()
	f.SQL(b)

	rows, err := r.db.QueryContext(ctx, orderSelect+b.Where()+" "+sort.SQL("o"), b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.loadProducts(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// loadProducts fills the product set of each order with one query
func (r *orderRepository) loadProducts(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Products = []*domain.Product{}
		byID[o.ID] = o
		ids = append(ids, o.ID.String())
	}

	query := `
		SELECT op.order_id, ` + productColumns + `
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = ANY($1::uuid[])
		ORDER BY p.name ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		product := &domain.Product{}
		err := rows.Scan(
			&orderID,
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order product: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Products = append(o.Products, product)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating order products: %w", err)
	}

	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	customer := &domain.Customer{}
	var phone sql.NullString
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.TotalAmount,
		&order.OrderDate,
		&order.CreatedAt,
		&order.UpdatedAt,
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		customer.Phone = &phone.String
	}
	order.Customer = customer
	return order, nil
}
