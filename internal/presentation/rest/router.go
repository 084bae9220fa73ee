package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bibbank/upi-risk/internal/auth"
	"github.com/bibbank/upi-risk/internal/presentation/middleware"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Service        PredictionService
	Logger         *slog.Logger
	MetricsHandler http.Handler
	JWTService     *auth.JWTService        // nil disables authentication
	RateLimiter    *middleware.RateLimiter // per client; nil disables rate limiting
	RequestTimeout time.Duration
}

// NewRouter builds the riskd HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	health := NewHealthHandler(cfg.Service.Strategy())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	predict := NewPredictHandler(cfg.Service)
	r.Group(func(r chi.Router) {
		if cfg.JWTService != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTService, auth.PredictRoles, nil))
		}
		r.Use(middleware.RateLimitMiddleware(cfg.RateLimiter, cfg.Service.Strategy(), cfg.Logger))
		r.Post("/predict", predict.Predict)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})

	return r
}
