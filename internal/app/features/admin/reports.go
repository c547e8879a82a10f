// internal/app/features/admin/reports.go
package admin

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type reportResponse struct {
	ReportType  string    `json:"report_type"`
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`
	Data        any       `json:"data"`
}

// reportFormat reads ?format, defaulting to json. Anything else is a 400.
func reportFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	f := strings.ToLower(query.Get(r, "format"))
	switch f {
	case "":
		return formatJSON, true
	case formatJSON, formatCSV:
		return f, true
	}
	respond.Error(w, http.StatusBadRequest, "format must be json or csv")
	return "", false
}

var (
	userReportHeader   = []string{"id", "name", "email", "role", "is_active", "total_enrollments", "created_at"}
	courseReportHeader = []string{"id", "title", "instructor", "price", "is_active", "total_lessons", "total_enrollments", "created_at"}
)

// ServeUserReport handles GET /admin/reports/users?format=json|csv.
func (h *Handler) ServeUserReport(w http.ResponseWriter, r *http.Request) {
	format, ok := reportFormat(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "user report")
	defer cancel()

	rows, _, err := adminqueries.ListUsers(ctx, h.DB, adminqueries.UserFilter{}, paging.Page{})
	if err != nil {
		h.Log.Error("user report", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	if format == formatJSON {
		respond.JSON(w, http.StatusOK, reportResponse{
			ReportType:  "users",
			GeneratedAt: time.Now().UTC(),
			Total:       len(rows),
			Data:        rows,
		})
		return
	}

	records := make([][]string, 0, len(rows))
	for _, u := range rows {
		records = append(records, []string{
			u.ID.Hex(),
			u.Name,
			u.Email,
			u.Role,
			strconv.FormatBool(u.IsActive),
			strconv.FormatInt(u.TotalEnrollments, 10),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeCSV(w, "users", userReportHeader, records)
}

// ServeCourseReport handles GET /admin/reports/courses?format=json|csv.
func (h *Handler) ServeCourseReport(w http.ResponseWriter, r *http.Request) {
	format, ok := reportFormat(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "course report")
	defer cancel()

	rows, _, err := adminqueries.ListCourses(ctx, h.DB, adminqueries.CourseFilter{}, paging.Page{})
	if err != nil {
		h.Log.Error("course report", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	if format == formatJSON {
		respond.JSON(w, http.StatusOK, reportResponse{
			ReportType:  "courses",
			GeneratedAt: time.Now().UTC(),
			Total:       len(rows),
			Data:        rows,
		})
		return
	}

	records := make([][]string, 0, len(rows))
	for _, c := range rows {
		records = append(records, []string{
			c.ID.Hex(),
			c.Title,
			c.InstructorName,
			strconv.FormatFloat(c.Price, 'f', 2, 64),
			strconv.FormatBool(c.IsActive),
			strconv.FormatInt(c.TotalLessons, 10),
			strconv.FormatInt(c.TotalEnrollments, 10),
			c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeCSV(w, "courses", courseReportHeader, records)
}

// writeCSV streams header and records as a CSV attachment named
// <kind>_report_<timestamp>.csv.
func writeCSV(w http.ResponseWriter, kind string, header []string, records [][]string) {
	filename := kind + "_report_" + time.Now().UTC().Format("20060102_150405") + ".csv"

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// UTF-8 BOM for Excel
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	_ = cw.Write(header)
	for _, rec := range records {
		for i := range rec {
			rec[i] = safeCell(rec[i])
		}
		_ = cw.Write(rec)
	}
}

// safeCell prefixes a quote to values a spreadsheet would run as a formula.
func safeCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
