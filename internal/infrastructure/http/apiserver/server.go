// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"net/http"

	"github.com/alchemorsel/recipebook/internal/infrastructure/config"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipebook/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipebook/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Server represents the JSON API HTTP server
type Server struct {
	config        *config.Config
	logger        *zap.Logger
	server        *http.Server
	router        *chi.Mux
	recipeService inbound.RecipeService
	health        *healthcheck.HealthCheck
	metrics       *monitoring.MetricsCollector
	openAPI       *OpenAPIHandler
}

// NewServer creates a new API server instance. metrics may be nil.
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	recipeService inbound.RecipeService,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
) (*Server, error) {
	openAPI, err := NewOpenAPIHandler(log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:        cfg,
		logger:        log.Named("api-server"),
		recipeService: recipeService,
		health:        health,
		metrics:       metrics,
		openAPI:       openAPI,
	}

	s.router = s.setupRoutes()

	var handler http.Handler = s.router
	if tracing.Enabled() {
		handler = otelhttp.NewHandler(s.router, "recipebook-api",
			otelhttp.WithTracerProvider(tracing.Provider()),
		)
	}

	s.server = &http.Server{
		Addr:           cfg.Server.Address(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s, nil
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() *chi.Mux {
	m := middleware.New(s.config, s.logger, s.metricsRecorder())
	r := chi.NewRouter()

	r.Use(m.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(m.Logger)
	r.Use(m.Recovery)
	r.Use(m.Metrics)
	r.Use(m.Security)
	r.Use(m.CORS)
	r.Use(m.RateLimit)
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	if s.config.Server.EnableCompression {
		r.Use(chimiddleware.Compress(5))
	}

	healthPath := s.config.Monitoring.HealthCheckPath
	r.Get(healthPath, s.health.Handler())
	r.Get(healthPath+"/live", s.health.LivenessHandler())
	r.Get(healthPath+"/ready", s.health.ReadinessHandler())

	if s.metrics != nil {
		r.Handle(s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.JSONOnly)

		r.Get("/openapi.yaml", s.openAPI.ServeOpenAPISpec)
		r.Get("/openapi.json", s.openAPI.ServeOpenAPIJSON)

		handlers.NewRecipeAPIHandlers(s.recipeService, s.logger).Routes(r)
	})

	return r
}

// metricsRecorder keeps a nil collector from becoming a non-nil interface
func (s *Server) metricsRecorder() middleware.HTTPMetrics {
	if s.metrics == nil {
		return nil
	}
	return s.metrics
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Server returns the underlying HTTP server instance
func (s *Server) Server() *http.Server {
	return s.server
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
