package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"loan-origination/logging"
)

type RouterConfig struct {
	LoanHandler               *LoanHandler
	TermRecommendationHandler *TermRecommendationHandler
	RateLimiter               *RateLimiter
	Logger                    *logging.Logger
	AllowedOrigins            []string
}

// NewRouter wires the middleware stack and the loan routes. Only the loan
// routes are rate limited.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger.WithComponent("http")))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/loans", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(RateLimitMiddleware(cfg.RateLimiter))
		}
		r.Post("/schedule", cfg.LoanHandler.Schedule)
		r.Post("/calculate", cfg.LoanHandler.CalculateLoan)
		r.Get("/calculations", cfg.LoanHandler.ListCalculations)
		r.Post("/recommend-tenure", cfg.TermRecommendationHandler.RecommendTenure)
	})

	return r
}
