package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/service"
)

// RouterConfig carries the HTTP-surface knobs.
type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware.
// The session endpoints stay public; everything under /v1/shops sits
// behind the session guard.
func NewRouter(
	ledger *service.Ledger,
	search *service.Search,
	gate *service.Gate,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(CountRequests(metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	// Operational endpoints.
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(ledger, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		// Session endpoints are reachable while logged out.
		r.Get("/session", sessionHandler(gate))
		r.Post("/session/login", loginHandler(gate, logger))
		r.Post("/session/logout", logoutHandler(gate))

		r.Get("/metrics/summary", metricsSummaryHandler(metrics))

		// Everything below requires an authenticated session.
		r.Group(func(r chi.Router) {
			r.Use(SessionGuard(gate, logger))

			r.Post("/session/password", changePasswordHandler(gate, logger))

			r.Route("/shops", func(r chi.Router) {
				r.Get("/", listShopsHandler(ledger, logger))

				r.Route("/{shopID}", func(r chi.Router) {
					r.Get("/", getShopHandler(ledger, logger))
					r.Get("/stats", getShopStatsHandler(ledger, logger))

					r.Route("/customers", func(r chi.Router) {
						r.Get("/", listCustomersHandler(ledger, logger))
						r.Get("/search", searchCustomersHandler(search, logger))
						r.Post("/", createCustomerHandler(ledger, logger))

						r.Route("/{customerID}", func(r chi.Router) {
							r.Get("/", getCustomerHandler(ledger, logger))
							r.Get("/transactions", listTransactionsHandler(ledger, logger))
							r.Post("/transactions", createTransactionHandler(ledger, logger))
						})
					})
				})
			})
		})
	})

	return r
}
