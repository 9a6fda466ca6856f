package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	r.Get("/status", h.ListStatus)
	r.Get("/status/{id}", h.GetStatus)
	r.Post("/enqueue", h.Enqueue)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
