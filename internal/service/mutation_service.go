package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm/internal/domain"
	"crm/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result messages
const (
	MsgCustomerCreated  = "Customer created successfully"
	MsgEmailExists      = "Email already exists"
	MsgInvalidPhone     = "Invalid phone format. Use formats like +1234567890 or 123-456-7890"
	MsgNameRequired     = "Name is required"
	MsgInvalidEmail     = "Invalid email format"
	MsgCustomerError    = "Error creating customer"
	MsgProductCreated   = "Product created successfully"
	MsgPriceNotPositive = "Price must be positive"
	MsgNegativeStock    = "Stock cannot be negative"
	MsgProductError     = "Error creating product"
	MsgNoProducts       = "At least one product must be provided"
	MsgOrderError       = "Error creating order"
	MsgNothingToRestock = "No products needed restocking"
	MsgRestockError     = "Error updating low-stock products"
)

// MutationService defines the write side of the API. Every method reports
// failure through its result and never returns an error.
type MutationService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) CustomerResult
	BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) BulkCustomersResult
	CreateProduct(ctx context.Context, input ProductInput) ProductResult
	CreateOrder(ctx context.Context, input OrderInput) OrderResult
	UpdateLowStockProducts(ctx context.Context) RestockResult
}

type mutationService struct {
	store repository.Store
	options
}

// NewMutationService creates a new instance of MutationService
func NewMutationService(store repository.Store, opts ...Option) MutationService {
	return &mutationService{store: store, options: newOptions(opts)}
}

// CreateCustomer validates and stores a single customer
func (s *mutationService) CreateCustomer(ctx context.Context, input CustomerInput) CustomerResult {
	exists, err := s.store.Customers().ExistsByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		s.logger.Error("Failed to check customer email", zap.Error(err))
		return CustomerResult{Message: MsgCustomerError}
	}
	if exists {
		return CustomerResult{Message: MsgEmailExists}
	}

	customer, err := s.newCustomer(input)
	if err != nil {
		return CustomerResult{Message: customerMessage(err)}
	}

	// The unique constraint still catches a concurrent insert of the same email
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			s.logger.Error("Failed to create customer", zap.Error(err))
		}
		return CustomerResult{Message: customerMessage(err)}
	}

	return CustomerResult{Success: true, Message: MsgCustomerCreated, Customer: customer}
}

// BulkCreateCustomers stores every valid entry in one transaction. Each entry
// is isolated in a savepoint so a failed entry is skipped without aborting the batch.
func (s *mutationService) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) BulkCustomersResult {
	created := []*domain.Customer{}
	var failures []string

	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		for i, input := range inputs {
			n := i + 1

			var customer *domain.Customer
			err := tx.Savepoint(ctx, func() error {
				exists, err := tx.Customers().ExistsByEmail(ctx, strings.TrimSpace(input.Email))
				if err != nil {
					return err
				}
				if exists {
					return domain.ErrDuplicateEmail
				}

				customer, err = s.newCustomer(input)
				if err != nil {
					return err
				}
				return tx.Customers().Create(ctx, customer)
			})
			if err != nil {
				if !isCustomerRejection(err) {
					s.logger.Error("Failed to create customer in bulk", zap.Int("entry", n), zap.Error(err))
				}
				failures = append(failures, bulkMessage(n, input, err))
				continue
			}
			created = append(created, customer)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Bulk customer creation failed", zap.Error(err))
		return BulkCustomersResult{
			Message:   MsgCustomerError,
			Customers: []*domain.Customer{},
			Errors:    []string{MsgCustomerError},
		}
	}

	return BulkCustomersResult{
		Success:   len(created) > 0,
		Message:   fmt.Sprintf("Created %d of %d customers", len(created), len(inputs)),
		Customers: created,
		Errors:    failures,
	}
}

// CreateProduct validates and stores a product
func (s *mutationService) CreateProduct(ctx context.Context, input ProductInput) ProductResult {
	stock := 0
	if input.Stock != nil {
		stock = *input.Stock
	}

	name := strings.TrimSpace(input.Name)
	price := input.Price.Round(2)
	if err := domain.ValidateProduct(name, price, stock); err != nil {
		return ProductResult{Message: productMessage(err)}
	}

	now := s.now()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return ProductResult{Message: MsgProductError}
	}

	return ProductResult{Success: true, Message: MsgProductCreated, Product: product}
}

// rejection is a user-facing failure raised inside a transaction
type rejection struct {
	message string
}

func (r *rejection) Error() string { return r.message }

// CreateOrder resolves the customer and every product before writing, then
// stores the order, its products and its total in one transaction.
func (s *mutationService) CreateOrder(ctx context.Context, input OrderInput) OrderResult {
	var order *domain.Order

	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		customer, err := findCustomer(ctx, tx, input.CustomerID)
		if err != nil {
			return err
		}

		if len(input.ProductIDs) == 0 {
			return &rejection{message: MsgNoProducts}
		}

		productIDs := make([]uuid.UUID, 0, len(input.ProductIDs))
		seen := make(map[uuid.UUID]bool, len(input.ProductIDs))
		for _, raw := range input.ProductIDs {
			product, err := findProduct(ctx, tx, raw)
			if err != nil {
				return err
			}
			if !seen[product.ID] {
				seen[product.ID] = true
				productIDs = append(productIDs, product.ID)
			}
		}

		now := s.now()
		orderDate := now
		if input.OrderDate != nil {
			orderDate = *input.OrderDate
		}

		order = &domain.Order{
			ID:         uuid.New(),
			CustomerID: customer.ID,
			OrderDate:  orderDate,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		if err := tx.Orders().AddProducts(ctx, order.ID, productIDs); err != nil {
			return err
		}
		if _, err := tx.Orders().RecalculateTotal(ctx, order.ID, now); err != nil {
			return err
		}

		order, err = tx.Orders().FindByID(ctx, order.ID)
		return err
	})
	if err != nil {
		var rej *rejection
		if errors.As(err, &rej) {
			return OrderResult{Message: rej.message}
		}
		s.logger.Error("Failed to create order", zap.Error(err))
		return OrderResult{Message: MsgOrderError}
	}

	return OrderResult{
		Success: true,
		Message: fmt.Sprintf("Order created successfully with total amount $%s", order.TotalAmount.StringFixed(2)),
		Order:   order,
	}
}

// UpdateLowStockProducts adds domain.RestockAmount to every product whose
// stock is below domain.LowStockThreshold.
func (s *mutationService) UpdateLowStockProducts(ctx context.Context) RestockResult {
	var updated []*domain.Product

	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		updated, err = tx.Products().Restock(ctx, domain.LowStockThreshold, domain.RestockAmount, s.now())
		return err
	})
	if err != nil {
		s.logger.Error("Failed to restock low-stock products", zap.Error(err))
		return RestockResult{Message: MsgRestockError, Products: []*domain.Product{}}
	}

	if len(updated) == 0 {
		return RestockResult{Success: true, Message: MsgNothingToRestock, Products: []*domain.Product{}}
	}

	return RestockResult{
		Success:  true,
		Message:  fmt.Sprintf("Restocked %d low-stock product(s)", len(updated)),
		Products: updated,
	}
}

func (s *mutationService) newCustomer(input CustomerInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	var phone *string
	if input.Phone != nil {
		if p := strings.TrimSpace(*input.Phone); p != "" {
			phone = &p
		}
	}

	rawPhone := ""
	if phone != nil {
		rawPhone = *phone
	}
	if err := domain.ValidateCustomer(name, email, rawPhone); err != nil {
		return nil, err
	}

	now := s.now()
	return &domain.Customer{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func findCustomer(ctx context.Context, tx repository.Tx, raw string) (*domain.Customer, error) {
	notFound := &rejection{message: fmt.Sprintf("Customer with ID %s does not exist", raw)}

	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, notFound
	}

	customer, err := tx.Customers().FindByID(ctx, id)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, notFound
	}
	return customer, err
}

func findProduct(ctx context.Context, tx repository.Tx, raw string) (*domain.Product, error) {
	notFound := &rejection{message: fmt.Sprintf("Product with ID %s does not exist", raw)}

	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, notFound
	}

	product, err := tx.Products().FindByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, notFound
	}
	return product, err
}

func customerMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return MsgEmailExists
	case errors.Is(err, domain.ErrInvalidPhone):
		return MsgInvalidPhone
	case errors.Is(err, domain.ErrInvalidName):
		return MsgNameRequired
	case errors.Is(err, domain.ErrInvalidEmail):
		return MsgInvalidEmail
	default:
		return MsgCustomerError
	}
}

// isCustomerRejection reports whether err describes bad input rather than a store failure
func isCustomerRejection(err error) bool {
	return errors.Is(err, domain.ErrDuplicateEmail) ||
		errors.Is(err, domain.ErrInvalidPhone) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidName)
}

func bulkMessage(n int, input CustomerInput, err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return fmt.Sprintf("Customer %d: Email '%s' already exists", n, input.Email)
	case errors.Is(err, domain.ErrInvalidPhone):
		phone := ""
		if input.Phone != nil {
			phone = *input.Phone
		}
		return fmt.Sprintf("Customer %d: Invalid phone format for '%s'", n, phone)
	default:
		return fmt.Sprintf("Customer %d: %s", n, customerMessage(err))
	}
}

func productMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidPrice):
		return MsgPriceNotPositive
	case errors.Is(err, domain.ErrInvalidStock):
		return MsgNegativeStock
	case errors.Is(err, domain.ErrInvalidName):
		return MsgNameRequired
	default:
		return MsgProductError
	}
}
