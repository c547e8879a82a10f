// internal/app/features/home/routes.go
package home

import "github.com/go-chi/chi/v5"

// Routes serves / and /home-feed; mount at the root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	r.Get("/home-feed", h.ServeFeed)
	return r
}
