// Package memory provides an in-process repository.Store. It applies the same
// filter and sort semantics as the SQL store and is used by service and
// transport tests.
package memory

import (
	"context"
	"sync"

	"crm/internal/domain"
	"crm/internal/filter"
	"crm/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderRow struct {
	order      domain.Order
	productIDs []uuid.UUID
}

type state struct {
	customers map[uuid.UUID]domain.Customer
	products  map[uuid.UUID]domain.Product
	orders    map[uuid.UUID]*orderRow
}

func newState() *state {
	return &state{
		customers: make(map[uuid.UUID]domain.Customer),
		products:  make(map[uuid.UUID]domain.Product),
		orders:    make(map[uuid.UUID]*orderRow),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, v := range s.customers {
		c.customers[id] = v
	}
	for id, v := range s.products {
		c.products[id] = v
	}
	for id, row := range s.orders {
		c.orders[id] = &orderRow{order: row.order, productIDs: append([]uuid.UUID(nil), row.productIDs...)}
	}
	return c
}

// scope gives repositories access to a state. The root scope locks the store;
// a transaction scope already holds the lock.
type scope interface {
	view(fn func(st *state) error) error
}

// Store is an in-memory repository.Store. Transactions are serialized and
// work on a private copy that replaces the committed state on success.
type Store struct {
	mu sync.Mutex
	st *state

	customers *customerRepository
	products  *productRepository
	orders    *orderRepository
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty Store
func NewStore() *Store {
	s := &Store{st: newState()}
	s.customers = &customerRepository{sc: s}
	s.products = &productRepository{sc: s}
	s.orders = &orderRepository{sc: s}
	return s
}

func (s *Store) view(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) Customers() repository.CustomerRepository { return s.customers }
func (s *Store) Products() repository.ProductRepository   { return s.products }
func (s *Store) Orders() repository.OrderRepository       { return s.orders }

// WithinTx runs fn against a copy of the store, publishing the copy only when
// fn returns nil. A panic discards the copy and propagates.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txScope{st: s.st.clone()}
	tx.customers = &customerRepository{sc: tx}
	tx.products = &productRepository{sc: tx}
	tx.orders = &orderRepository{sc: tx}

	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

type txScope struct {
	st *state

	customers *customerRepository
	products  *productRepository
	orders    *orderRepository
}

func (t *txScope) view(fn func(st *state) error) error { return fn(t.st) }

func (t *txScope) Customers() repository.CustomerRepository { return t.customers }
func (t *txScope) Products() repository.ProductRepository   { return t.products }
func (t *txScope) Orders() repository.OrderRepository       { return t.orders }

func (t *txScope) Savepoint(_ context.Context, fn func() error) error {
	saved := t.st.clone()
	if err := fn(); err != nil {
		t.st = saved
		return err
	}
	return nil
}

// loadOrder materializes an order row with its current customer and products.
func (st *state) loadOrder(row *orderRow) *domain.Order {
	o := row.order
	if c, ok := st.customers[o.CustomerID]; ok {
		o.Customer = &c
	}
	o.Products = make([]*domain.Product, 0, len(row.productIDs))
	for _, id := range row.productIDs {
		if p, ok := st.products[id]; ok {
			o.Products = append(o.Products, &p)
		}
	}
	filter.SortProducts(o.Products, filter.DefaultProductSort)
	return &o
}

func (st *state) orderTotal(row *orderRow) decimal.Decimal {
	total := decimal.Zero
	for _, id := range row.productIDs {
		if p, ok := st.products[id]; ok {
			total = total.Add(p.Price)
		}
	}
	return total.Round(2)
}
