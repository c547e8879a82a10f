// internal/app/features/admin/dashboard.go
package admin

import (
	"net/http"
	"strconv"
	"time"

	metricsstore "github.com/dalemusser/learnhub/internal/app/store/metrics"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const (
	growthDays         = 30
	popularCourseLimit = 10
	topInstructorLimit = 5
	maxAnalyticsDays   = 365
)

type dashboardResponse struct {
	Stats                 metricsstore.Counts              `json:"stats"`
	UserGrowth            []metricsstore.DayCount          `json:"user_growth"`
	PopularCourses        []metricsstore.CourseEnrollments `json:"popular_courses"`
	InstructorPerformance []metricsstore.InstructorStats   `json:"instructor_performance"`
}

// ServeDashboard handles GET /admin/dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin dashboard")
	defer cancel()

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -growthDays)

	resp := dashboardResponse{Stats: metricsstore.FetchDashboardCounts(ctx, h.DB, now)}

	var err error
	if resp.UserGrowth, err = metricsstore.UserGrowth(ctx, h.DB, since); err != nil {
		h.Log.Error("dashboard: user growth", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if resp.PopularCourses, err = metricsstore.PopularCourses(ctx, h.DB, since, popularCourseLimit); err != nil {
		h.Log.Error("dashboard: popular courses", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if resp.InstructorPerformance, err = metricsstore.InstructorPerformance(ctx, h.DB, topInstructorLimit); err != nil {
		h.Log.Error("dashboard: instructor performance", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

// parseDays reads ?days (1..365, default 30).
func parseDays(r *http.Request) (int, bool) {
	s := query.Get(r, "days")
	if s == "" {
		return growthDays, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxAnalyticsDays {
		return 0, false
	}
	return n, true
}

// ServeUserAnalytics handles GET /admin/analytics/users?days=N.
func (h *Handler) ServeUserAnalytics(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user analytics")
	defer cancel()

	data, err := metricsstore.UserGrowth(ctx, h.DB, time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		h.Log.Error("user analytics", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"user_growth": data})
}

// ServeCourseAnalytics handles GET /admin/analytics/courses?days=N. It lists
// the ten most enrolled courses in the window.
func (h *Handler) ServeCourseAnalytics(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "days must be between 1 and 365")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "course analytics")
	defer cancel()

	data, err := metricsstore.PopularCourses(ctx, h.DB, time.Now().UTC().AddDate(0, 0, -days), popularCourseLimit)
	if err != nil {
		h.Log.Error("course analytics", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"enrollment_analytics": data})
}

// ServeInstructorAnalytics handles GET /admin/analytics/instructors.
func (h *Handler) ServeInstructorAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "instructor analytics")
	defer cancel()

	data, err := metricsstore.InstructorPerformance(ctx, h.DB, 0)
	if err != nil {
		h.Log.Error("instructor analytics", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"instructor_performance": data})
}
