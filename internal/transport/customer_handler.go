package transport

import (
	"net/http"

	"crm/internal/domain"
	"crm/internal/filter"
	"crm/internal/middleware"
	"crm/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateCustomerRequest represents the customer creation payload. Fields are
// pointers so that a missing field is told apart from an empty one.
type CreateCustomerRequest struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required"`
	Phone *string `json:"phone"`
}

// BulkCreateCustomersRequest represents the bulk customer creation payload
type BulkCreateCustomersRequest struct {
	Input []CreateCustomerRequest `json:"input" validate:"required,dive"`
}

// CustomerResponse wraps a single customer, null when it does not exist
type CustomerResponse struct {
	Customer *domain.Customer `json:"customer"`
}

// CustomersResponse wraps a customer listing
type CustomersResponse struct {
	Customers []*domain.Customer `json:"customers"`
}

func (req CreateCustomerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{Name: *req.Name, Email: *req.Email, Phone: req.Phone}
}

// CustomerHandler handles HTTP requests for customer operations
type CustomerHandler struct {
	queryService    service.QueryService
	mutationService service.MutationService
	logger          *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(queryService service.QueryService, mutationService service.MutationService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		queryService:    queryService,
		mutationService: mutationService,
		logger:          logger,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.CreateCustomer)
		r.Post("/bulk", h.BulkCreateCustomers)
		r.Get("/{id}", h.GetCustomer)
	})
}

// ListCustomers handles customer listing with filters
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.CustomerFilter{
		NameContains:  queryString(q, "nameContains"),
		EmailContains: queryString(q, "emailContains"),
		CreatedAtGte:  queryTime(q, "createdAtGte"),
		CreatedAtLte:  queryTime(q, "createdAtLte"),
		PhonePrefix:   queryString(q, "phonePattern"),
	}

	customers, err := h.queryService.ListCustomers(r.Context(), f, q.Get("orderBy"))
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CustomersResponse{Customers: customers})
}

// GetCustomer handles retrieval of a single customer
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithJSON(w, http.StatusOK, CustomerResponse{})
		return
	}

	customer, err := h.queryService.GetCustomer(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get customer", zap.Error(err), zap.String("customer_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get customer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CustomerResponse{Customer: customer})
}

// CreateCustomer handles customer creation
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	result := h.mutationService.CreateCustomer(r.Context(), req.toInput())
	if result.Success {
		h.logger.Info("Customer created", zap.String("customer_id", result.Customer.ID.String()))
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// BulkCreateCustomers handles creation of several customers at once
func (h *CustomerHandler) BulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateCustomersRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	inputs := make([]service.CustomerInput, 0, len(req.Input))
	for _, entry := range req.Input {
		inputs = append(inputs, entry.toInput())
	}

	result := h.mutationService.BulkCreateCustomers(r.Context(), inputs)
	h.logger.Info("Bulk customer creation finished",
		zap.Int("created", len(result.Customers)),
		zap.Int("failed", len(result.Errors)),
	)

	middleware.RespondWithJSON(w, http.StatusOK, result)
}
