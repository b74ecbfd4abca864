package server

import (
	"context"
	"log"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealtrack/catalog-backend/config"
	"github.com/mealtrack/catalog-backend/internal/api"
	"github.com/mealtrack/catalog-backend/internal/database"
	"github.com/mealtrack/catalog-backend/internal/middleware"
	"github.com/mealtrack/catalog-backend/internal/search"
	"github.com/mealtrack/catalog-backend/internal/service"
	"github.com/mealtrack/catalog-backend/internal/store"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	store  *store.CatalogStore
	cfg    *config.Config
}

// New assembles the catalog API: store, search service, middleware, routes.
// Rate limiting is attached to the search endpoint only when Redis is
// configured and reachable.
func New(cfg *config.Config) (*Server, error) {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(cfg.DBPath)
	if err := st.Init(context.Background()); err != nil {
		return nil, err
	}
	catalog := service.NewCatalogService(st, search.DefaultWeights())

	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	var searchMiddleware []gin.HandlerFunc
	if cfg.RateLimitEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Rate limiting disabled, Redis unavailable: %v", err)
		} else {
			limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
				Window:    cfg.RateLimitWindow,
				Limit:     cfg.RateLimitRequests,
				KeyPrefix: "ratelimit:search",
			})
			searchMiddleware = append(searchMiddleware, limiter.RateLimitMiddleware())
		}
	}

	handler := api.NewFoodHandler(catalog, cfg.CatalogSource, cfg.AWSRegion)
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, searchMiddleware...)

	router.GET("/health", func(c *gin.Context) {
		count, err := catalog.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "foods": count})
	})

	return &Server{router: router, store: st, cfg: cfg}, nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the server and blocks until it stops serving.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    net.JoinHostPort(s.cfg.ServerHost, s.cfg.ServerPort),
		Handler: s.router,
	}
	log.Printf("Catalog API listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes the catalog store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.store.Close()
}
