// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/learnhub/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"detail": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Detail: msg})
}

// Message writes {"message": msg} with 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// BodyError is returned by Decode. Detail is the message shown to clients.
type BodyError struct {
	Detail string
}

func (e *BodyError) Error() string { return "invalid request body: " + e.Detail }

func bodyError(format string, args ...any) error {
	return &BodyError{Detail: fmt.Sprintf(format, args...)}
}

// Decode reads a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return bodyError("Request body is empty")
		case errors.As(err, &syn):
			return bodyError("Malformed JSON at position %d", syn.Offset)
		case errors.As(err, &typ):
			return bodyError("Field %q has the wrong type", typ.Field)
		case errors.As(err, &tooBig):
			return bodyError("Request body is too large")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return bodyError("Unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return bodyError("Malformed JSON")
	}
	if dec.More() {
		return bodyError("Request body must contain a single JSON object")
	}
	return nil
}

// InvalidBody answers 400 for an error returned by Decode.
func InvalidBody(w http.ResponseWriter, err error) {
	var be *BodyError
	if errors.As(err, &be) {
		Error(w, http.StatusBadRequest, be.Detail)
		return
	}
	Error(w, http.StatusBadRequest, "Malformed JSON")
}

// ObjectID parses the chi URL parameter name as an ObjectID.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
