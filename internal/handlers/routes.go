package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 60 * time.Second

// Routes builds the HTTP API. allowedOrigins feeds the CORS middleware.
func (h *Handler) Routes(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/system/install", h.InstallDatabase)

		r.Route("/ingest", func(r chi.Router) {
			r.Post("/plate-appearances", h.IngestPlateAppearances)
			r.Post("/players", h.IngestPlayers)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/search", h.SearchPlayers)
			r.Get("/{playerID}", h.GetPlayer)
		})

		r.Route("/stats/{role}/{playerID}", func(r chi.Router) {
			r.Get("/distribution", h.GetValueDistribution)
			r.Get("/deltas", h.GetDeltaDistribution)
			r.Get("/modifiers", h.GetModifierDistribution)
			r.Get("/matrix/{kind}", h.GetTransitionMatrix)
			r.Get("/history", h.GetHistory)
			r.Get("/first-values", h.GetFirstValues)
			r.Get("/sequences", h.GetGameSequences)
			r.Get("/report", h.GetPatternReport)
		})

		r.Get("/predictions/{role}/{playerID}", h.GetPrediction)
	})

	return r
}
