package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/promptstack/console-backend/internal/config"
	"github.com/promptstack/console-backend/internal/transport/middleware"
)

// NewRouter assembles the HTTP routing table with the shared middleware
// chain applied to every route.
func NewRouter(
	admin *AdminHandler,
	health *HealthHandler,
	logger *slog.Logger,
	corsCfg config.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(corsCfg),
	)
	r.Use(chain)

	r.Get("/health", health.Health)
	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/stats", admin.Stats)
		r.Get("/activity", admin.Activity)
		r.Get("/recent-signups", admin.RecentSignups)

		r.Route("/entities/{kind}", func(r chi.Router) {
			r.Get("/", admin.ListEntities)
			r.Post("/bulk-delete", admin.BulkDelete)
			r.Patch("/{id}", admin.UpdateEntity)
			r.Delete("/{id}", admin.DeleteEntity)
		})

		r.Get("/owners/{ownerId}/entities/{kind}", admin.OwnerEntities)
	})

	return r
}
