package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/profitshare/internal/adapter/http/handler"
	"github.com/iho/profitshare/internal/adapter/http/middleware"
	"github.com/iho/profitshare/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	HealthHandler         *handler.HealthHandler
	HolderHandler         *handler.HolderHandler
	PeriodHandler         *handler.PeriodHandler
	CalculationHandler    *handler.CalculationHandler
	ReconciliationHandler *handler.ReconciliationHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	RateLimiter           *middleware.RateLimiter
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/holders", func(r chi.Router) {
			r.Post("/", cfg.HolderHandler.Create)
			r.Get("/", cfg.HolderHandler.List)
			r.Get("/{id}", cfg.HolderHandler.Get)
			r.Put("/{id}", cfg.HolderHandler.Update)
			r.Delete("/{id}", cfg.HolderHandler.Deactivate)
		})

		r.Route("/periods", func(r chi.Router) {
			r.Post("/", cfg.PeriodHandler.Create)
			r.Get("/", cfg.PeriodHandler.List)
			r.Route("/{year}/{month}", func(r chi.Router) {
				r.Get("/", cfg.PeriodHandler.Get)
				r.Put("/", cfg.PeriodHandler.Update)
				r.Delete("/", cfg.PeriodHandler.Delete)
				r.Get("/calculation", cfg.CalculationHandler.Period)
				r.Get("/summary", cfg.CalculationHandler.Summary)
			})
		})

		r.Route("/calculations", func(r chi.Router) {
			r.Post("/preview", cfg.CalculationHandler.Preview)
			r.Get("/history", cfg.CalculationHandler.History)
		})

		r.Get("/carry-forwards", cfg.CalculationHandler.CarryForwards)
		r.Get("/years/{year}/grid", cfg.CalculationHandler.YearGrid)
		r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
	})

	return r
}
