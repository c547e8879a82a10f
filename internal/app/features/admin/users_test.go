package admin_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/store/queries/adminqueries"
	"github.com/dalemusser/learnhub/internal/app/system/paging"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

type userList struct {
	Users      []adminqueries.UserWithStats `json:"users"`
	Pagination paging.Pagination            `json:"pagination"`
}

func TestServeUsers(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inst := fx.CreateInstructor(ctx, "Ina Park", "ina@example.com")
	sam := fx.CreateStudent(ctx, "Sam Lee", "sam@example.com")
	fx.CreateStudent(ctx, "Sue Kim", "sue@example.com")
	fx.CreateDisabledUser(ctx, "Dee Ray", "dee@example.com")
	c := fx.CreateCourse(ctx, "Go Basics", inst.ID, 10)
	fx.CreateEnrollment(ctx, sam.ID, c.ID, 0)

	list := func(query string) userList {
		t.Helper()
		rec := testutil.NewRecorder()
		h.ServeUsers(rec, testutil.NewAuthenticatedRequest(t, "GET", "/admin/users"+query, nil, testutil.AdminUser()))
		rec.AssertStatus(t, http.StatusOK)
		var out userList
		rec.DecodeJSON(t, &out)
		return out
	}

	all := list("")
	if all.Pagination.Total != 4 || len(all.Users) != 4 || all.Pagination.Limit != paging.DefaultLimit {
		t.Errorf("unfiltered = %+v", all.Pagination)
	}

	page := list("?page=2&limit=3")
	if len(page.Users) != 1 || page.Pagination.Pages != 2 || page.Pagination.Page != 2 {
		t.Errorf("page 2 = %d users, %+v", len(page.Users), page.Pagination)
	}

	if got := list("?role=student"); got.Pagination.Total != 3 {
		t.Errorf("role=student total = %d, want 3", got.Pagination.Total)
	}
	if got := list("?is_active=false"); got.Pagination.Total != 1 || got.Users[0].Email != "dee@example.com" {
		t.Errorf("is_active=false = %+v", got.Users)
	}

	got := list("?search=SAM")
	if len(got.Users) != 1 || got.Users[0].ID != sam.ID || got.Users[0].TotalEnrollments != 1 {
		t.Errorf("search=SAM = %+v", got.Users)
	}
	if got := list("?search=.*"); got.Pagination.Total != 0 {
		t.Errorf("regex metacharacters must match literally, got %d rows", got.Pagination.Total)
	}

	for _, q := range []string{"?limit=0", "?limit=101", "?page=0", "?is_active=maybe"} {
		rec := testutil.NewRecorder()
		h.ServeUsers(rec, testutil.NewAuthenticatedRequest(t, "GET", "/admin/users"+q, nil, testutil.AdminUser()))
		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestServeUser(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")

	get := func(hex string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "GET", "/admin/users/"+hex, nil, testutil.AdminUser())
		h.ServeUser(rec, testutil.WithChiURLParam(req, "id", hex))
		return rec
	}

	rec := get(sam.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"total_enrollments":0`)
	if body := rec.Body.String(); strings.Contains(body, "password") {
		t.Errorf("password hash leaked: %s", body)
	}

	get("000000000000000000000000").AssertStatus(t, http.StatusNotFound)
	get("nope").AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreateUser(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateStudent(ctx, "Sam", "sam@example.com")

	post := func(body map[string]any) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		h.HandleCreateUser(rec, testutil.NewAuthenticatedRequest(t, "POST", "/admin/users", body, testutil.AdminUser()))
		return rec
	}

	rec := post(map[string]any{"name": "Ina", "email": "Ina@Example.com", "password": "secret1", "role": "Instructor", "is_active": false})
	rec.AssertStatus(t, http.StatusCreated)
	var created struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}
	rec.DecodeJSON(t, &created)

	var u models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"email": "ina@example.com"}).Decode(&u); err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if u.ID.Hex() != created.UserID || u.Role != models.RoleInstructor || u.IsActive {
		t.Errorf("unexpected stored user %+v", u)
	}

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"duplicate", map[string]any{"name": "Sam", "email": "SAM@example.com", "password": "secret1", "role": "student"}, "Email already registered"},
		{"short name", map[string]any{"name": "S", "email": "s@example.com", "password": "secret1", "role": "student"}, "Name must be at least 2 characters."},
		{"short password", map[string]any{"name": "Sid", "email": "s@example.com", "password": "12345", "role": "student"}, "Password must be at least 6 characters."},
		{"bad role", map[string]any{"name": "Sid", "email": "s@example.com", "password": "secret1", "role": "owner"}, "Role must be admin, instructor, or student."},
		{"bad email", map[string]any{"name": "Sid", "email": "nope", "password": "secret1", "role": "student"}, "A valid email address is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertDetail(t, tt.want)
		})
	}
}

func TestHandleUpdateUser(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")
	fx.CreateStudent(ctx, "Sue", "sue@example.com")

	put := func(hex string, body map[string]any) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "PUT", "/admin/users/"+hex, body, testutil.AdminUser())
		h.HandleUpdateUser(rec, testutil.WithChiURLParam(req, "id", hex))
		return rec
	}

	rec := put(sam.ID.Hex(), map[string]any{"role": "instructor", "name": "Samuel"})
	rec.AssertStatus(t, http.StatusOK)

	var u models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"_id": sam.ID}).Decode(&u); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if u.Role != models.RoleInstructor || u.Name != "Samuel" {
		t.Errorf("update not applied: %+v", u)
	}

	rec = put(sam.ID.Hex(), map[string]any{"email": "sue@example.com"})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Email already in use")

	rec = put(sam.ID.Hex(), map[string]any{"name": "Samuel"})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "No changes were made")

	rec = put(sam.ID.Hex(), map[string]any{})
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "No changes were made")

	put("000000000000000000000000", map[string]any{"name": "Ghost"}).AssertStatus(t, http.StatusNotFound)
}

func TestHandleDeleteUser(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	me := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	sam := fx.CreateStudent(ctx, "Sam", "sam@example.com")

	del := func(hex string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "DELETE", "/admin/users/"+hex, nil, testutil.AsUser(me))
		h.HandleDeleteUser(rec, testutil.WithChiURLParam(req, "id", hex))
		return rec
	}

	rec := del(me.ID.Hex())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Cannot delete your own account")

	del(sam.ID.Hex()).AssertStatus(t, http.StatusOK)

	var u models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"_id": sam.ID}).Decode(&u); err != nil {
		t.Fatalf("soft-deleted user should remain: %v", err)
	}
	if u.IsActive || u.DeletedAt == nil {
		t.Errorf("expected is_active=false and deleted_at set, got %+v", u)
	}

	del("000000000000000000000000").AssertStatus(t, http.StatusNotFound)
}

func TestHandleUserBulkAction(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	me := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	a := fx.CreateStudent(ctx, "Sam", "sam@example.com")
	b := fx.CreateStudent(ctx, "Sue", "sue@example.com")

	bulk := func(action string, ids ...string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		body := map[string]any{"action": action, "ids": ids}
		h.HandleUserBulkAction(rec, testutil.NewAuthenticatedRequest(t, "POST", "/admin/users/bulk-action", body, testutil.AsUser(me)))
		return rec
	}

	var resp struct {
		Message       string `json:"message"`
		AffectedCount int64  `json:"affected_count"`
	}

	rec := bulk("deactivate", a.ID.Hex(), b.ID.Hex(), me.ID.Hex())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Cannot perform bulk actions on your own account")

	var stored models.User
	if err := fx.DB().Collection("users").FindOne(ctx, bson.M{"_id": a.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload student: %v", err)
	}
	if !stored.IsActive {
		t.Error("a rejected bulk action must not touch the other users")
	}

	rec = bulk("deactivate", a.ID.Hex(), b.ID.Hex(), a.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &resp)
	if resp.AffectedCount != 2 || resp.Message != "Successfully performed deactivate on 2 users" {
		t.Errorf("unexpected deactivate response %+v", resp)
	}

	rec = bulk("activate", a.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &resp)
	if resp.AffectedCount != 1 {
		t.Errorf("activate affected %d, want 1", resp.AffectedCount)
	}

	rec = bulk("delete", b.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &resp)
	if resp.AffectedCount != 1 {
		t.Errorf("delete affected %d, want 1", resp.AffectedCount)
	}

	rec = bulk("purge", a.ID.Hex())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Action must be one of: activate, deactivate, delete.")

	rec = bulk("activate")
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "IDs must contain at least 1 items.")

	rec = bulk("delete", me.ID.Hex())
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Cannot perform bulk actions on your own account")
}

func TestHandleUserBulkAction_RejectsLegacyField(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	me := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	a := fx.CreateStudent(ctx, "Sam", "sam@example.com")

	rec := testutil.NewRecorder()
	body := map[string]any{"action": "deactivate", "user_ids": []string{a.ID.Hex()}}
	h.HandleUserBulkAction(rec, testutil.NewAuthenticatedRequest(t, "POST", "/admin/users/bulk-action", body, testutil.AsUser(me)))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, `Unknown field "user_ids"`)
}
