package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// actorHeader carries the acting academy identity on every mutating route.
const actorHeader = "X-Academy-ID"

// NewRouter registers the HTTP routes.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get("/board", handler.Board)
	r.Get("/changes", handler.Changes)
	r.Post("/refresh", handler.Refresh)

	r.Route("/requests", func(r chi.Router) {
		r.Get("/", handler.Requests)
		r.Post("/", handler.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.RequestByID)
			r.Post("/accept", handler.Accept)
			r.Post("/finish", handler.Finish)
			r.Patch("/status", handler.MoveCard)
			r.Delete("/", handler.Delete)
		})
	})

	return r
}
