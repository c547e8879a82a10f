// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody caps a JSON request body. Uploads are multipart and
	// capped separately.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxAvatarBytes caps an avatar upload.
	MaxAvatarBytes int64 = 5 << 20 // 5 MB

	// MaxVideoBytes is the default cap on a lesson video upload.
	// The server overrides it from max_upload_mb.
	MaxVideoBytes int64 = 500 << 20 // 500 MB

	// MultipartMemory is how much of a multipart form is held in memory
	// before the rest spills to temporary files.
	MultipartMemory = 32 << 20

	// MultipartOverhead is allowed on top of a file cap for the other
	// parts and boundaries of the form.
	MultipartOverhead = 1 << 20
)
