package transport

import (
	"net/http"
	"time"

	"crm/internal/domain"
	"crm/internal/filter"
	"crm/internal/middleware"
	"crm/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the order creation payload. An empty
// productIds list is accepted here and rejected with a result message.
type CreateOrderRequest struct {
	CustomerID *string    `json:"customerId" validate:"required"`
	ProductIDs []string   `json:"productIds" validate:"required"`
	OrderDate  *time.Time `json:"orderDate"`
}

// OrderResponse wraps a single order, null when it does not exist
type OrderResponse struct {
	Order *domain.Order `json:"order"`
}

// OrdersResponse wraps an order listing
type OrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	queryService    service.QueryService
	mutationService service.MutationService
	logger          *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(queryService service.QueryService, mutationService service.MutationService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		queryService:    queryService,
		mutationService: mutationService,
		logger:          logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{id}", h.GetOrder)
	})
}

// ListOrders handles order listing with filters
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.OrderFilter{
		TotalAmountGte: queryDecimal(q, "totalAmountGte"),
		TotalAmountLte: queryDecimal(q, "totalAmountLte"),
		OrderDateGte:   queryTime(q, "orderDateGte"),
		OrderDateLte:   queryTime(q, "orderDateLte"),
		CustomerID:     queryUUID(q, "customerId"),
		CustomerName:   queryString(q, "customerName"),
		ProductName:    queryString(q, "productName"),
		ProductID:      queryUUID(q, "productId"),
	}

	orders, err := h.queryService.ListOrders(r.Context(), f, q.Get("orderBy"))
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrdersResponse{Orders: orders})
}

// GetOrder handles retrieval of a single order
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{})
		return
	}

	order, err := h.queryService.GetOrder(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get order", zap.Error(err), zap.String("order_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Order: order})
}

// CreateOrder handles order creation
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	result := h.mutationService.CreateOrder(r.Context(), service.OrderInput{
		CustomerID: *req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  req.OrderDate,
	})
	if result.Success {
		h.logger.Info("Order created",
			zap.String("order_id", result.Order.ID.String()),
			zap.String("total_amount", result.Order.TotalAmount.StringFixed(2)),
		)
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}
