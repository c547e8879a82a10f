// internal/app/system/filestore/filestore.go
package filestore

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Key prefixes for uploaded objects.
const (
	DirAvatars = "avatars"
	DirVideos  = "videos"
)

// Filename builds "{owner}_{uuid}{.ext}" from the uploaded name's extension.
func Filename(owner, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" || len(ext) > 10 {
		ext = ""
	}
	return owner + "_" + uuid.NewString() + ext
}

// Save stores up as dir/name and returns the object's public URL.
func Save(ctx context.Context, store storage.Store, dir, name string, up *Upload) (string, error) {
	key := dir + "/" + name
	opts := &storage.PutOptions{
		ContentType: up.ContentType,
		IfNotExists: true,
	}
	if err := store.Put(ctx, key, up.File, opts); err != nil {
		return "", err
	}
	return store.URL(key), nil
}

// OwnedKey returns the storage key behind url when url is the public URL of
// an object Save wrote under dir for owner. External links and files that
// belong to another owner or directory are rejected.
func OwnedKey(store storage.Store, url, dir, owner string) (string, bool) {
	if url == "" || owner == "" {
		return "", false
	}
	name := path.Base(url)
	if !strings.HasPrefix(name, owner+"_") {
		return "", false
	}
	key := dir + "/" + name
	if store.URL(key) != url {
		return "", false
	}
	return key, true
}

// Remove deletes the object behind url if OwnedKey accepts it. Foreign URLs
// and objects that are already gone are not errors.
func Remove(ctx context.Context, store storage.Store, url, dir, owner string) error {
	key, ok := OwnedKey(store, url, dir, owner)
	if !ok {
		return nil
	}
	if err := store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}
