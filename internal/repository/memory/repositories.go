package memory

import (
	"context"
	"slices"
	"time"

	"crm/internal/domain"
	"crm/internal/filter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type customerRepository struct {
	sc scope
}

func (r *customerRepository) Create(_ context.Context, customer *domain.Customer) error {
	return r.sc.view(func(st *state) error {
		for _, c := range st.customers {
			if c.Email == customer.Email {
				return domain.ErrDuplicateEmail
			}
		}
		st.customers[customer.ID] = *customer
		return nil
	})
}

func (r *customerRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	var found *domain.Customer
	err := r.sc.view(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrCustomerNotFound
		}
		found = &c
		return nil
	})
	return found, err
}

func (r *customerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	var exists bool
	err := r.sc.view(func(st *state) error {
		for _, c := range st.customers {
			if c.Email == email {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *customerRepository) List(_ context.Context, f filter.CustomerFilter, sort filter.Sort) ([]*domain.Customer, error) {
	customers := []*domain.Customer{}
	err := r.sc.view(func(st *state) error {
		for _, c := range st.customers {
			if f.Match(&c) {
				customers = append(customers, &c)
			}
		}
		return nil
	})
	filter.SortCustomers(customers, sort)
	return customers, err
}

func (r *customerRepository) Count(_ context.Context) (int, error) {
	var total int
	err := r.sc.view(func(st *state) error {
		total = len(st.customers)
		return nil
	})
	return total, err
}

type productRepository struct {
	sc scope
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) error {
	if err := domain.ValidateProduct(product.Name, product.Price, product.Stock); err != nil {
		return err
	}
	return r.sc.view(func(st *state) error {
		p := *product
		p.Price = p.Price.Round(2)
		st.products[p.ID] = p
		return nil
	})
}

func (r *productRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	var found *domain.Product
	err := r.sc.view(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		found = &p
		return nil
	})
	return found, err
}

func (r *productRepository) List(_ context.Context, f filter.ProductFilter, sort filter.Sort) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.sc.view(func(st *state) error {
		for _, p := range st.products {
			if f.Match(&p) {
				products = append(products, &p)
			}
		}
		return nil
	})
	filter.SortProducts(products, sort)
	return products, err
}

func (r *productRepository) ListBelowStock(_ context.Context, threshold int) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.sc.view(func(st *state) error {
		for _, p := range st.products {
			if p.Stock < threshold {
				products = append(products, &p)
			}
		}
		return nil
	})
	filter.SortProducts(products, filter.DefaultProductSort)
	return products, err
}

func (r *productRepository) Restock(_ context.Context, threshold, amount int, now time.Time) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.sc.view(func(st *state) error {
		for id, p := range st.products {
			if p.Stock >= threshold {
				continue
			}
			p.Stock += amount
			p.UpdatedAt = now
			st.products[id] = p
			products = append(products, &p)
		}
		return nil
	})
	filter.SortProducts(products, filter.DefaultProductSort)
	return products, err
}

func (r *productRepository) UpdatePrice(_ context.Context, id uuid.UUID, price decimal.Decimal, now time.Time) error {
	return r.sc.view(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		p.Price = price.Round(2)
		p.UpdatedAt = now
		st.products[id] = p
		return nil
	})
}

type orderRepository struct {
	sc scope
}

func (r *orderRepository) Create(_ context.Context, order *domain.Order) error {
	return r.sc.view(func(st *state) error {
		if _, ok := st.customers[order.CustomerID]; !ok {
			return domain.ErrCustomerNotFound
		}
		row := &orderRow{order: *order}
		row.order.Customer = nil
		row.order.Products = nil
		st.orders[order.ID] = row
		return nil
	})
}

func (r *orderRepository) AddProducts(_ context.Context, orderID uuid.UUID, productIDs []uuid.UUID) error {
	return r.sc.view(func(st *state) error {
		row, ok := st.orders[orderID]
		if !ok {
			return domain.ErrOrderNotFound
		}
		for _, id := range productIDs {
			if _, ok := st.products[id]; !ok {
				return domain.ErrProductNotFound
			}
			if !slices.Contains(row.productIDs, id) {
				row.productIDs = append(row.productIDs, id)
			}
		}
		return nil
	})
}

func (r *orderRepository) RecalculateTotal(_ context.Context, orderID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.sc.view(func(st *state) error {
		row, ok := st.orders[orderID]
		if !ok {
			return domain.ErrOrderNotFound
		}
		total = st.orderTotal(row)
		row.order.TotalAmount = total
		row.order.UpdatedAt = now
		return nil
	})
	return total, err
}

func (r *orderRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	var found *domain.Order
	err := r.sc.view(func(st *state) error {
		row, ok := st.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		found = st.loadOrder(row)
		return nil
	})
	return found, err
}

func (r *orderRepository) List(_ context.Context, f filter.OrderFilter, sort filter.Sort) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	err := r.sc.view(func(st *state) error {
		for _, row := range st.orders {
			if o := st.loadOrder(row); f.Match(o) {
				orders = append(orders, o)
			}
		}
		return nil
	})
	filter.SortOrders(orders, sort)
	return orders, err
}
