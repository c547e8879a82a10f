// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, CORS and request body limits. Everything specific to
// LearnHub lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Driver connection pool upper bound
	MongoMinPoolSize uint64 // Driver connection pool lower bound

	// Access tokens
	JWTSecret      string        // HS256 signing key (must be strong in production)
	AccessTokenTTL time.Duration // Lifetime of tokens issued by /auth/login
	UserTokenTTL   time.Duration // Lifetime of tokens issued by /users/login

	// File storage (avatars and lesson videos)
	StorageType     string // Storage backend: "local" or "s3"
	UploadPath      string // Local directory that holds uploads
	UploadURL       string // URL prefix that serves UploadPath, or the bucket's public URL
	MaxUploadMB     int    // Request size cap for video uploads
	StorageS3Region string // AWS region
	StorageS3Bucket string // S3 bucket name
	StorageS3Prefix string // Key prefix (e.g., "learnhub/")

	// Bootstrap admin
	AdminEmail    string // Ensured to exist as an active admin on startup (blank skips)
	AdminPassword string // Password for a newly created admin (blank generates one)
	AdminName     string // Display name for a newly created admin

	// Audit logging
	AuditLogAuth  string // "all", "db", "log" or "off" for login events
	AuditLogAdmin string // "all", "db", "log" or "off" for admin events

	// Email/SMTP configuration
	MailEnabled  bool   // Send notification email when a notification is created
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Login rate limits (attempts per window)
	LoginRateIP    int
	LoginRateEmail int

	// Database operation timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
