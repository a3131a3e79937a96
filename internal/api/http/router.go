package http

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

func NewRouter(server *Server, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", server.HealthCheck)

	r.Post("/webhooks/github", server.HandleGitHubWebhook)

	r.Post("/projects", server.HandleProjectCreate)
	r.Get("/projects/{projectID}", server.HandleProjectGet)
	r.Get("/projects/{projectID}/issues", server.HandleProjectIssues)

	return r
}
