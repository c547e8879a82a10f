package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestNewUploadStore_Local(t *testing.T) {
	cfg := validAppConfig()
	cfg.UploadPath = filepath.Join(t.TempDir(), "uploads")
	cfg.UploadURL = "uploads/"

	store, prefix, err := newUploadStore(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newUploadStore: %v", err)
	}
	if prefix != "/uploads" {
		t.Errorf("prefix = %q, want /uploads", prefix)
	}
	if store.Backend() != "local" {
		t.Errorf("backend = %q", store.Backend())
	}
	if got := store.URL("avatars/a.png"); got != "/uploads/avatars/a.png" {
		t.Errorf("URL = %q", got)
	}

	ctx := context.Background()
	if err := store.PutBytes(ctx, "videos/v.mp4", []byte("mp4"), nil); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.UploadPath, "videos", "v.mp4")); err != nil {
		t.Errorf("expected file under upload_path: %v", err)
	}
}
