package service

import (
	"context"
	"errors"
	"fmt"

	"crm/internal/domain"
	"crm/internal/filter"
	"crm/internal/repository"

	"github.com/google/uuid"
)

// HelloMessage is the liveness greeting returned by Hello
const HelloMessage = "Hello, CRM!"

// QueryService defines the read side of the API. Single-entity lookups return
// (nil, nil) when the entity does not exist.
type QueryService interface {
	Hello() string
	GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListCustomers(ctx context.Context, f filter.CustomerFilter, orderBy string) ([]*domain.Customer, error)
	ListProducts(ctx context.Context, f filter.ProductFilter, orderBy string) ([]*domain.Product, error)
	ListOrders(ctx context.Context, f filter.OrderFilter, orderBy string) ([]*domain.Order, error)
	ListLowStockProducts(ctx context.Context, threshold int) ([]*domain.Product, error)
	CountCustomers(ctx context.Context) (int, error)
}

type queryService struct {
	store repository.Repositories
}

// NewQueryService creates a new instance of QueryService
func NewQueryService(store repository.Repositories) QueryService {
	return &queryService{store: store}
}

func (s *queryService) Hello() string {
	return HelloMessage
}

func (s *queryService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.store.Customers().FindByID(ctx, id)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *queryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *queryService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListCustomers returns customers matching f. orderBy is "field" or "-field";
// unknown fields fall back to newest first.
func (s *queryService) ListCustomers(ctx context.Context, f filter.CustomerFilter, orderBy string) ([]*domain.Customer, error) {
	return s.store.Customers().List(ctx, f, filter.ParseCustomerSort(orderBy))
}

// ListProducts returns products matching f, by name unless orderBy says otherwise.
func (s *queryService) ListProducts(ctx context.Context, f filter.ProductFilter, orderBy string) ([]*domain.Product, error) {
	return s.store.Products().List(ctx, f, filter.ParseProductSort(orderBy))
}

// ListOrders returns orders matching f, newest order date first unless orderBy says otherwise.
func (s *queryService) ListOrders(ctx context.Context, f filter.OrderFilter, orderBy string) ([]*domain.Order, error) {
	return s.store.Orders().List(ctx, f, filter.ParseOrderSort(orderBy))
}

// ListLowStockProducts returns products with stock strictly below threshold.
// A threshold of zero or less means domain.LowStockThreshold.
func (s *queryService) ListLowStockProducts(ctx context.Context, threshold int) ([]*domain.Product, error) {
	if threshold <= 0 {
		threshold = domain.LowStockThreshold
	}
	return s.store.Products().ListBelowStock(ctx, threshold)
}

func (s *queryService) CountCustomers(ctx context.Context) (int, error) {
	return s.store.Customers().Count(ctx)
}
