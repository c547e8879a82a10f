// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/learnhub/internal/app/system/auditlog"
	"github.com/dalemusser/learnhub/internal/app/system/authutil"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the default signing key. It is rejected in prod.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// minProdSecretLen is the shortest signing key accepted in prod.
const minProdSecretLen = 32

// appConfigKeys defines the configuration keys for LearnHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: LEARNHUB_MONGO_URI, LEARNHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "e_learning", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Access tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 signing key for access tokens (must be strong in production)"},
	{Name: "access_token_ttl", Default: "8h", Desc: "Lifetime of tokens issued by /auth/login"},
	{Name: "user_token_ttl", Default: "30m", Desc: "Lifetime of tokens issued by /users/login"},

	// File storage
	{Name: "storage_type", Default: "local", Desc: "Upload backend: 'local' or 's3'"},
	{Name: "upload_path", Default: "./uploads", Desc: "Local directory for avatars and lesson videos"},
	{Name: "upload_url", Default: "/uploads", Desc: "URL prefix that serves upload_path (or the public base URL of the S3 bucket)"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for the upload bucket"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket for uploads (required when storage_type is s3)"},
	{Name: "storage_s3_prefix", Default: "", Desc: "Key prefix inside the upload bucket"},
	{Name: "max_upload_mb", Default: 100, Desc: "Maximum video upload size in megabytes"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin (promotes/creates on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created bootstrap admin (blank generates one)"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name for a newly created bootstrap admin"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Email/SMTP configuration
	{Name: "mail_enabled", Default: false, Desc: "Email users when a notification is created"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@learnhub.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "LearnHub", Desc: "From display name"},

	// Login rate limiting
	{Name: "login_rate_ip", Default: 10, Desc: "Login attempts allowed per IP per minute"},
	{Name: "login_rate_email", Default: 5, Desc: "Login attempts allowed per email per minute"},

	// Database timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for lists and multi-step writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for aggregations, reports and bulk actions"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LEARNHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEARNHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		// Access tokens
		JWTSecret:      appValues.String("jwt_secret"),
		AccessTokenTTL: appValues.Duration("access_token_ttl", 8*time.Hour),
		UserTokenTTL:   appValues.Duration("user_token_ttl", 30*time.Minute),

		// File storage
		StorageType:     appValues.String("storage_type"),
		UploadPath:      appValues.String("upload_path"),
		UploadURL:       appValues.String("upload_url"),
		MaxUploadMB:     appValues.Int("max_upload_mb"),
		StorageS3Region: appValues.String("storage_s3_region"),
		StorageS3Bucket: appValues.String("storage_s3_bucket"),
		StorageS3Prefix: appValues.String("storage_s3_prefix"),

		// Admin bootstrap
		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		// Email/SMTP
		MailEnabled:  appValues.Bool("mail_enabled"),
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		// Rate limits
		LoginRateIP:    appValues.Int("login_rate_ip"),
		LoginRateEmail: appValues.Int("login_rate_email"),

		// Timeouts
		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It validates the MongoDB URI format to catch configuration errors early,
// before attempting to connect, and refuses weak signing keys in prod.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must not be empty")
	}

	if coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret {
			return errors.New("jwt_secret must be changed from the development default in prod")
		}
		if len(appCfg.JWTSecret) < minProdSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d bytes in prod", minProdSecretLen)
		}
	}

	for name, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		if !auditlog.ValidSetting(v) {
			return fmt.Errorf("%s must be all, db, log, or off (got %q)", name, v)
		}
	}

	if appCfg.AdminPassword != "" {
		if err := authutil.ValidatePassword(appCfg.AdminPassword); err != nil {
			return fmt.Errorf("admin_password: %w", err)
		}
	}

	switch appCfg.StorageType {
	case "local":
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return errors.New("storage_s3_bucket is required when storage_type is s3")
		}
	default:
		return fmt.Errorf("storage_type must be local or s3 (got %q)", appCfg.StorageType)
	}

	if appCfg.MaxUploadMB < 1 {
		return errors.New("max_upload_mb must be at least 1")
	}
	if appCfg.LoginRateIP < 1 || appCfg.LoginRateEmail < 1 {
		return errors.New("login_rate_ip and login_rate_email must be at least 1")
	}

	return nil
}
