package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prepdeck/qbank-admin/internal/api/catalog"
	"github.com/prepdeck/qbank-admin/internal/api/docs"
	"github.com/prepdeck/qbank-admin/internal/api/middleware"
	"github.com/prepdeck/qbank-admin/internal/api/wizard"
	"go.uber.org/zap"
)

// SetupRouter builds the HTTP router with all middleware and routes.
func SetupRouter(
	wizardHandler *wizard.Handler,
	catalogHandler *catalog.Handler,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	docs.RegisterRoutes(r)

	wizard.RegisterRoutes(r, wizardHandler)
	catalog.RegisterRoutes(r, catalogHandler)

	return r
}
