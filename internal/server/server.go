package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"bazaar/internal/config"
	custommiddleware "bazaar/internal/middleware"
	"bazaar/internal/repository"
	"bazaar/internal/service"
	"bazaar/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Identity resolution: annotates the context with the merchant id when a
	// valid session token is present, leaves the request anonymous otherwise
	router.Use(custommiddleware.IdentityMiddleware(cfg.Auth.JWTSecret, logger))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: 300,
			Window:            time.Minute,
			KeyPrefix:         "ratelimit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	merchantRepo := repository.NewMerchantRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	merchantService := service.NewMerchantService(merchantRepo, cfg.Auth.JWTSecret)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, merchantService, categoryService, logger)
	merchantHandler := transport.NewMerchantHandler(merchantService, logger)
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)

	// Register routes
	productHandler.RegisterRoutes(router)
	merchantHandler.RegisterRoutes(router)
	categoryHandler.RegisterRoutes(router)

	// The cart lives in redis; without a redis connection the storefront still
	// serves the catalog, just without cart routes
	if redisClient != nil {
		cartService := service.NewCartService(redisClient)
		cartHandler := transport.NewCartHandler(cartService, productService, logger)
		cartHandler.RegisterRoutes(router)
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
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

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
