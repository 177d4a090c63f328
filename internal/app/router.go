package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/RianNegreiros/ai-powered-task-app/internal/auth"
	"github.com/RianNegreiros/ai-powered-task-app/internal/observability"
	"github.com/RianNegreiros/ai-powered-task-app/internal/tags"
	"github.com/RianNegreiros/ai-powered-task-app/internal/tasks"
	"github.com/RianNegreiros/ai-powered-task-app/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.Middleware
	TaskHandler    *tasks.Handler
	TagHandler     *tags.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router for the task API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			params.AuthHandler.MountRoutes(r, params.AuthMiddleware)
		})
		r.Route("/tasks", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAccessToken)
			params.TaskHandler.MountRoutes(r)
		})
		r.Route("/tags", func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAccessToken)
			params.TagHandler.MountRoutes(r)
		})
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
