package transport

import (
	"net/http"

	"crm/internal/middleware"
	"crm/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HelloResponse represents the liveness greeting
type HelloResponse struct {
	Hello string `json:"hello"`
}

// HelloHandler serves the liveness greeting
type HelloHandler struct {
	queryService service.QueryService
}

// NewHelloHandler creates a new HelloHandler
func NewHelloHandler(queryService service.QueryService) *HelloHandler {
	return &HelloHandler{queryService: queryService}
}

// RegisterRoutes registers the greeting route
func (h *HelloHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/hello", h.Hello)
}

// Hello handles the liveness greeting
func (h *HelloHandler) Hello(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, HelloResponse{Hello: h.queryService.Hello()})
}

// decodeRequest decodes and validates a JSON body, writing the 400 response
// itself when the body is unusable.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err), zap.String("path", r.URL.Path))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A malformed id can never match an entity.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}
