package transport

import (
	"net/http"

	"crm/internal/domain"
	"crm/internal/filter"
	"crm/internal/middleware"
	"crm/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload. Price accepts
// a JSON number or string.
type CreateProductRequest struct {
	Name  *string          `json:"name" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Stock *int             `json:"stock"`
}

// ProductResponse wraps a single product, null when it does not exist
type ProductResponse struct {
	Product *domain.Product `json:"product"`
}

// ProductsResponse wraps a product listing
type ProductsResponse struct {
	Products []*domain.Product `json:"products"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	queryService    service.QueryService
	mutationService service.MutationService
	logger          *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(queryService service.QueryService, mutationService service.MutationService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		queryService:    queryService,
		mutationService: mutationService,
		logger:          logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/low-stock", h.ListLowStockProducts)
		r.Post("/restock", h.UpdateLowStockProducts)
		r.Get("/{id}", h.GetProduct)
	})
}

// ListProducts handles product listing with filters
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := filter.ProductFilter{
		NameContains: queryString(q, "nameContains"),
		PriceGte:     queryDecimal(q, "priceGte"),
		PriceLte:     queryDecimal(q, "priceLte"),
		StockGte:     queryInt(q, "stockGte"),
		StockLte:     queryInt(q, "stockLte"),
		Stock:        queryInt(q, "stock"),
		LowStock:     queryBool(q, "lowStock"),
	}

	products, err := h.queryService.ListProducts(r.Context(), f, q.Get("orderBy"))
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// ListLowStockProducts handles listing of products below a stock threshold
func (h *ProductHandler) ListLowStockProducts(w http.ResponseWriter, r *http.Request) {
	threshold := domain.LowStockThreshold
	if t := queryInt(r.URL.Query(), "threshold"); t != nil {
		threshold = *t
	}

	products, err := h.queryService.ListLowStockProducts(r.Context(), threshold)
	if err != nil {
		h.logger.Error("Failed to list low-stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low-stock products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// GetProduct handles retrieval of a single product
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{})
		return
	}

	product, err := h.queryService.GetProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get product", zap.Error(err), zap.String("product_id", id.String()))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Product: product})
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	result := h.mutationService.CreateProduct(r.Context(), service.ProductInput{
		Name:  *req.Name,
		Price: *req.Price,
		Stock: req.Stock,
	})
	if result.Success {
		h.logger.Info("Product created", zap.String("product_id", result.Product.ID.String()))
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// UpdateLowStockProducts handles the restock sweep
func (h *ProductHandler) UpdateLowStockProducts(w http.ResponseWriter, r *http.Request) {
	result := h.mutationService.UpdateLowStockProducts(r.Context())
	h.logger.Info("Low-stock products restocked",
		zap.Bool("success", result.Success),
		zap.Int("updated", len(result.Products)),
	)

	middleware.RespondWithJSON(w, http.StatusOK, result)
}
