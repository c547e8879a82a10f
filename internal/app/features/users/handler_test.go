package users_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/features/users"
	userstore "github.com/dalemusser/learnhub/internal/app/store/users"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/learnhub/internal/app/system/filestore"
	"github.com/dalemusser/learnhub/internal/domain/models"
	"github.com/dalemusser/learnhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	files := storage.NewMemory(storage.MemoryConfig{BaseURL: "/uploads"})
	return users.NewHandler(db, files, nil, nil, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestHandleRegister(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewJSONRequest(t, "POST", "/users/register", map[string]string{
		"name":     "New Student",
		"email":    "New@Example.com",
		"password": "secret1",
	}))
	rec.AssertStatus(t, http.StatusCreated)
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not include the password hash")
	}

	var u models.User
	rec.DecodeJSON(t, &u)
	if u.Email != "new@example.com" || u.Role != models.RoleStudent || !u.IsActive {
		t.Errorf("unexpected user %+v", u)
	}

	stored, err := userstore.New(fx.DB()).GetByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if !authutil.CheckPassword("secret1", stored.PasswordHash) {
		t.Error("stored hash does not match password")
	}
}

func TestHandleRegister_Rejections(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateStudent(ctx, "Taken", "taken@example.com")

	tests := []struct {
		name   string
		body   map[string]string
		detail string
	}{
		{"duplicate", map[string]string{"name": "Dup", "email": "TAKEN@example.com", "password": "secret1"}, "Email already registered"},
		{"admin role", map[string]string{"name": "Sneaky", "email": "a@example.com", "password": "secret1", "role": "admin"}, "Cannot register as admin"},
		{"bad role", map[string]string{"name": "Odd", "email": "b@example.com", "password": "secret1", "role": "janitor"}, "Role must be admin, instructor, or student."},
		{"short password", map[string]string{"name": "Shorty", "email": "c@example.com", "password": "123"}, "Password must be at least 6 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleRegister(rec, testutil.NewJSONRequest(t, "POST", "/users/register", tt.body))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertDetail(t, tt.detail)
		})
	}
}

func TestServeMeAndGet(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateInstructor(ctx, "Ina", "ina@example.com")

	rec := testutil.NewRecorder()
	h.ServeMe(rec, testutil.NewAuthenticatedRequest(t, "GET", "/users/me", nil, testutil.AsUser(u)))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "ina@example.com")

	rec = testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(t, "GET", "/users/"+u.ID.Hex(), nil, testutil.StudentUser())
	h.ServeGet(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	missing := testutil.AdminUser().ID
	req = testutil.NewAuthenticatedRequest(t, "GET", "/users/"+missing, nil, testutil.StudentUser())
	h.ServeGet(rec, testutil.WithChiURLParam(req, "id", missing))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertDetail(t, "User not found")
}

func TestHandleUpdate(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	self := fx.CreateStudent(ctx, "Sam", "sam@example.com")
	fx.CreateStudent(ctx, "Other", "other@example.com")

	put := func(body any, as models.User) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "PUT", "/users/"+self.ID.Hex(), body, testutil.AsUser(as))
		h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", self.ID.Hex()))
		return rec
	}

	rec := put(map[string]any{}, self)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "No fields provided for update")

	rec = put(map[string]any{"email": "other@example.com"}, self)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Email already taken by another user")

	rec = put(map[string]any{"is_active": false}, self)
	rec.AssertStatus(t, http.StatusForbidden)

	rec = put(map[string]any{"name": "Samantha"}, self)
	rec.AssertStatus(t, http.StatusOK)
	var u models.User
	rec.DecodeJSON(t, &u)
	if u.Name != "Samantha" {
		t.Errorf("expected updated name, got %q", u.Name)
	}

	intruder := fx.CreateStudent(ctx, "Ivan", "ivan@example.com")
	rec = put(map[string]any{"name": "Hacked"}, intruder)
	rec.AssertStatus(t, http.StatusForbidden)

	admin := fx.CreateAdmin(ctx, "Ada", "ada@example.com")
	rec = put(map[string]any{"is_active": false}, admin)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &u)
	if u.IsActive {
		t.Error("admin should be able to deactivate")
	}
}

func TestHandleDelete(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateStudent(ctx, "Gone", "gone@example.com")

	del := func() *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "DELETE", "/users/"+u.ID.Hex(), nil, testutil.AdminUser())
		h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
		return rec
	}

	rec := del()
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "User deleted successfully")

	rec = del()
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestAvatarUploadAndDelete(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateStudent(ctx, "Pic", "pic@example.com")
	me := testutil.AsUser(u)
	target := "/users/" + u.ID.Hex() + "/avatar"

	upload := func(name, ctype string) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewUploadFieldRequest(t, "POST", target, "avatar", name, ctype, []byte("fake image bytes"), me)
		h.HandleUploadAvatar(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
		return rec
	}

	rec := upload("notes.txt", "text/plain")
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "File must be an image")

	rec = upload("face.png", "image/png")
	rec.AssertStatus(t, http.StatusOK)
	var first struct {
		AvatarURL string `json:"avatar_url"`
		Filename  string `json:"filename"`
	}
	rec.DecodeJSON(t, &first)
	if !strings.HasPrefix(first.AvatarURL, "/uploads/avatars/"+u.ID.Hex()+"_") || !strings.HasSuffix(first.Filename, ".png") {
		t.Fatalf("unexpected avatar response %+v", first)
	}
	firstKey := filestore.DirAvatars + "/" + first.Filename
	if ok, err := h.Storage.Exists(ctx, firstKey); err != nil || !ok {
		t.Fatalf("avatar file not written: %v", err)
	}

	rec = upload("face2.jpg", "image/jpeg")
	rec.AssertStatus(t, http.StatusOK)
	if ok, _ := h.Storage.Exists(ctx, firstKey); ok {
		t.Error("previous avatar should be removed")
	}

	del := func() *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(t, "DELETE", target, nil, me)
		h.HandleDeleteAvatar(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
		return rec
	}
	del().AssertStatus(t, http.StatusOK)

	rec = del()
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertDetail(t, "No avatar found")
}

func TestAvatarUpload_RequiresAvatarField(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateStudent(ctx, "Pic", "pic@example.com")
	target := "/users/" + u.ID.Hex() + "/avatar"

	rec := testutil.NewRecorder()
	req := testutil.NewUploadRequest(t, "POST", target, "face.png", "image/png", []byte("img"), testutil.AsUser(u))
	h.HandleUploadAvatar(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "A file is required")
}

func TestAvatarDelete_LeavesOtherUsersFiles(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	victim := fx.CreateStudent(ctx, "Vic", "vic@example.com")
	mallory := fx.CreateStudent(ctx, "Mal", "mal@example.com")

	victimKey := filestore.DirAvatars + "/" + filestore.Filename(victim.ID.Hex(), "face.png")
	if err := h.Storage.PutBytes(ctx, victimKey, []byte("img"), nil); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	videoKey := filestore.DirVideos + "/" + filestore.Filename(primitive.NewObjectID().Hex(), "clip.mp4")
	if err := h.Storage.PutBytes(ctx, videoKey, []byte("mp4"), nil); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}

	// Upload-root paths cannot be set through the profile update.
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(t, "PUT", "/users/"+mallory.ID.Hex(),
		map[string]any{"avatar": h.Storage.URL(victimKey)}, testutil.AsUser(mallory))
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", mallory.ID.Hex()))
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, "Avatar must be an http(s) URL.")

	// Even a stored reference to another owner's file is never removed.
	for _, key := range []string{victimKey, videoKey} {
		if err := userstore.New(fx.DB()).SetAvatar(ctx, mallory.ID, h.Storage.URL(key)); err != nil {
			t.Fatalf("SetAvatar: %v", err)
		}
		rec = testutil.NewRecorder()
		req = testutil.NewAuthenticatedRequest(t, "DELETE", "/users/"+mallory.ID.Hex()+"/avatar", nil, testutil.AsUser(mallory))
		h.HandleDeleteAvatar(rec, testutil.WithChiURLParam(req, "id", mallory.ID.Hex()))
		rec.AssertStatus(t, http.StatusOK)

		if ok, err := h.Storage.Exists(ctx, key); err != nil || !ok {
			t.Errorf("%s should survive, exists=%v err=%v", key, ok, err)
		}
	}
}

func TestHandleUpdate_ExternalAvatar(t *testing.T) {
	h, fx := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateStudent(ctx, "Sam", "sam@example.com")

	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(t, "PUT", "/users/"+u.ID.Hex(),
		map[string]any{"avatar": "https://cdn.example.com/sam.png"}, testutil.AsUser(u))
	h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", u.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var got models.User
	rec.DecodeJSON(t, &got)
	if got.Avatar != "https://cdn.example.com/sam.png" {
		t.Errorf("avatar = %q", got.Avatar)
	}
}
