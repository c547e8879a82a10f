// internal/app/system/filestore/upload.go
package filestore

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dalemusser/learnhub/internal/app/system/limits"
)

var (
	ErrNoFile   = errors.New("no file uploaded")
	ErrTooLarge = errors.New("file is too large")
)

// Upload is a single multipart file pulled from a request.
type Upload struct {
	File        multipart.File
	Filename    string
	ContentType string
}

// Close releases the underlying file.
func (u *Upload) Close() error { return u.File.Close() }

// Is reports whether the declared content type starts with kind, e.g. "image/".
func (u *Upload) Is(kind string) bool {
	return strings.HasPrefix(strings.ToLower(u.ContentType), kind)
}

// FromRequest reads the multipart field from r, capping the body at maxBytes.
func FromRequest(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+limits.MultipartOverhead)
	if err := r.ParseMultipartForm(limits.MultipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, ErrTooLarge
		}
		return nil, ErrNoFile
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, ErrNoFile
	}
	if hdr.Size > maxBytes {
		f.Close()
		return nil, ErrTooLarge
	}
	return &Upload{
		File:        f,
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
	}, nil
}
