// internal/app/features/lessons/routes.go
package lessons

import (
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts lesson routes. Typically: r.Mount("/lessons", lessons.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleInstructor, models.RoleAdmin))

		pr.Post("/", h.HandleCreate)
		pr.Post("/{id}/upload-video", h.HandleUploadVideo)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
