package api

import (
	"log/slog"
	"net/http"

	"dataapp-go/internal/config"
	"dataapp-go/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles middleware, CORS and every route. m may be nil.
func NewRouter(cfg *config.Config, h *Handler, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(m.Middleware)
	r.Use(middleware.Recoverer)

	// CORS - allow the dashboard frontends
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Data App Go Backend is Running"))
	})

	h.RegisterRoutes(r)

	if cfg.Metrics.Enabled && m != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, m.Handler())
	}

	return r
}
