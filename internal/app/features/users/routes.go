// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all user routes. Typically: r.Mount("/users", users.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	if h.Login != nil {
		r.Post("/login", h.Login)
	}

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/me", h.ServeMe)
		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeGet)
		pr.Put("/{id}", h.HandleUpdate)

		// self or admin, checked in the handlers
		pr.Post("/{id}/avatar", h.HandleUploadAvatar)
		pr.Delete("/{id}/avatar", h.HandleDeleteAvatar)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole(models.RoleAdmin))
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
