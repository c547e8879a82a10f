// internal/app/bootstrap/storage.go
package bootstrap

import (
	"context"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
)

// newUploadStore builds the backend for avatars and lesson videos.
// The returned prefix is the URL path the router must serve the local directory
// under; it is empty for S3, where objects are served by the bucket.
func newUploadStore(ctx context.Context, appCfg AppConfig) (storage.Store, string, error) {
	if appCfg.StorageType == "s3" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:  appCfg.StorageS3Bucket,
			Region:  appCfg.StorageS3Region,
			Prefix:  appCfg.StorageS3Prefix,
			BaseURL: appCfg.UploadURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3, "", nil
	}

	prefix := "/" + strings.Trim(appCfg.UploadURL, "/")
	local, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.UploadPath,
		BaseURL:  prefix,
	})
	if err != nil {
		return nil, "", err
	}
	return local, prefix, nil
}
