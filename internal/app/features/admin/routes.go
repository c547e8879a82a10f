// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/learnhub/internal/app/system/auth"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin area. Typically: r.Mount("/admin", admin.Routes(h))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(auth.RequireRole(models.RoleAdmin))

	// Dashboard & analytics
	r.Get("/dashboard", h.ServeDashboard)
	r.Get("/analytics/users", h.ServeUserAnalytics)
	r.Get("/analytics/courses", h.ServeCourseAnalytics)
	r.Get("/analytics/instructors", h.ServeInstructorAnalytics)

	// User management
	r.Get("/users", h.ServeUsers)
	r.Post("/users", h.HandleCreateUser)
	r.Post("/users/bulk-action", h.HandleUserBulkAction)
	r.Get("/users/{id}", h.ServeUser)
	r.Put("/users/{id}", h.HandleUpdateUser)
	r.Delete("/users/{id}", h.HandleDeleteUser)

	// Course management
	r.Get("/courses", h.ServeCourses)
	r.Post("/courses", h.HandleCreateCourse)
	r.Post("/courses/bulk-action", h.HandleCourseBulkAction)
	r.Get("/courses/{id}", h.ServeCourse)
	r.Put("/courses/{id}", h.HandleUpdateCourse)
	r.Delete("/courses/{id}", h.HandleDeleteCourse)

	// Listings
	r.Get("/enrollments", h.ServeEnrollments)
	r.Get("/payments", h.ServePayments)

	// System
	if h.SystemHealth != nil {
		r.Get("/system/health", h.SystemHealth)
	}
	r.Get("/system/stats", h.ServeSystemStats)

	// Reports & audit
	r.Get("/reports/users", h.ServeUserReport)
	r.Get("/reports/courses", h.ServeCourseReport)
	r.Get("/audit", h.ServeAudit)

	return r
}
