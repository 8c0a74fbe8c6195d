package api

import (
	"log/slog"
	"net/http"

	"github.com/gamma-omg/stock-analysis/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the handler into a chi router. Metrics of the router itself
// are registered with reg and everything reg gathers is served on /metrics.
func NewRouter(log *slog.Logger, h *Handler, cfg config.Server, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Use(CORSMiddleware(cfg.AllowOrigins))
	r.Use(LogMiddleware(log))
	r.Use(MetricsMiddleware(NewMetrics(reg)))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)

		r.Post("/analyze-stock", h.HandleAnalyzeStock)
		r.Post("/batch-analysis", h.HandleBatchAnalysis)
		r.Post("/forecast", h.HandleForecast)
		r.Post("/compare", h.HandleCompare)

		r.Route("/portfolio", func(r chi.Router) {
			r.Post("/create", h.HandleCreatePortfolio)
			r.Get("/{name}", h.HandleGetPortfolio)
			r.Post("/{name}/trade", h.HandleAddTrade)
		})
	})

	return r
}
