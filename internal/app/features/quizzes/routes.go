// internal/app/features/quizzes/routes.go
package quizzes

import (
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts quiz routes. Typically: r.Mount("/quizzes", quizzes.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// answers hidden unless the caller can teach
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Post("/{id}/submit", h.HandleSubmit)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleInstructor, models.RoleAdmin))

		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/results", h.ServeResults)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
