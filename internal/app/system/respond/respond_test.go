package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/learnhub/internal/app/system/respond"
	"github.com/dalemusser/learnhub/internal/testutil"
)

func TestError_WritesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, http.StatusNotFound, "Course not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["detail"] != "Course not found" {
		t.Errorf("detail: got %q", body["detail"])
	}
}

func TestDecode(t *testing.T) {
	type input struct {
		Title string `json:"title"`
		Price int    `json:"price"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"title":"Go","price":10}`, ""},
		{"empty", ``, "Request body is empty"},
		{"unknown field", `{"title":"Go","bogus":1}`, `Unknown field "bogus"`},
		{"wrong type", `{"price":"ten"}`, `Field "price" has the wrong type`},
		{"two objects", `{"title":"a"}{"title":"b"}`, "Request body must contain a single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			var dst input
			err := respond.Decode(rec, req, &dst)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var be *respond.BodyError
			if !errors.As(err, &be) || be.Detail != tt.wantErr {
				t.Fatalf("error: got %v, want detail %q", err, tt.wantErr)
			}
			if msg := err.Error(); msg[0] < 'a' || msg[0] > 'z' {
				t.Errorf("error string should start lower-case: %q", msg)
			}
		})
	}
}

func TestInvalidBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"bogus":1}`))
	var dst struct{}
	err := respond.Decode(httptest.NewRecorder(), req, &dst)

	rec := testutil.NewRecorder()
	respond.InvalidBody(rec, err)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertDetail(t, `Unknown field "bogus"`)
}

func TestObjectID(t *testing.T) {
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", "507f1f77bcf86cd799439011")
	id, ok := respond.ObjectID(req, "id")
	if !ok || id.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("ObjectID: got %v, %v", id, ok)
	}

	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", "not-an-id")
	if _, ok := respond.ObjectID(req, "id"); ok {
		t.Error("expected ok=false for malformed id")
	}
}
