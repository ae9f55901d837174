package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"crm/internal/config"
	"crm/internal/database"
	custommiddleware "crm/internal/middleware"
	"crm/internal/repository"
	"crm/internal/service"
	"crm/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthFunc reports the state of a backing dependency. A "status" other
// than "up" marks the service unavailable.
type HealthFunc func(ctx context.Context) map[string]string

// Deps are the collaborators the router is built from. Redis is optional.
type Deps struct {
	Store  repository.Store
	Redis  *redis.Client
	Health HealthFunc
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewRouter assembles middleware, handlers and the health endpoint
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Deps) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env != "production"))
	router.NotFound(custommiddleware.NotFound)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowed)

	router.Get("/health", healthHandler(deps.Health))

	queryService := service.NewQueryService(deps.Store)
	mutationService := service.NewMutationService(deps.Store, service.WithLogger(logger.Named("mutations")))

	router.Group(func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.Redis.RequestsPerWindow,
				Window:            cfg.Redis.Window,
				KeyPrefix:         "crm:ratelimit",
			}, logger))
		}

		transport.NewHelloHandler(queryService).RegisterRoutes(r)
		transport.NewCustomerHandler(queryService, mutationService, logger).RegisterRoutes(r)
		transport.NewProductHandler(queryService, mutationService, logger).RegisterRoutes(r)
		transport.NewOrderHandler(queryService, mutationService, logger).RegisterRoutes(r)
	})

	return router
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	deps := Deps{
		Store: repository.NewStore(db),
		Redis: redisClient,
		Health: func(ctx context.Context) map[string]string {
			return database.Health(ctx, db)
		},
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, deps),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func healthHandler(check HealthFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "up"})
			return
		}

		health := check(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
