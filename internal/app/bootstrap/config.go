// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
)

// appConfigKeys defines the configuration keys for Pitlane.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: PITLANE_MONGO_URI, PITLANE_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pitlane", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	// Per-operation database deadlines (blank means built-in defaults)
	{Name: "db_timeout_ping", Default: "", Desc: "Deadline for connectivity pings (e.g., 2s)"},
	{Name: "db_timeout_short", Default: "", Desc: "Deadline for single-document reads (e.g., 5s)"},
	{Name: "db_timeout_medium", Default: "", Desc: "Deadline for writes and small queries (e.g., 10s)"},
	{Name: "db_timeout_long", Default: "", Desc: "Deadline for index builds and aggregations (e.g., 30s)"},
	{Name: "db_timeout_batch", Default: "", Desc: "Deadline for exports and bulk operations (e.g., 60s)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCD", Desc: "CSRF signing key (32 bytes)"},

	// Photo storage configuration
	{Name: "storage_type", Default: "local", Desc: "Photo storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads/photos", Desc: "Local storage path for kid photos"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3 photo storage"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name for kid photos"},

	// Photo access token signing
	{Name: "photo_token_hash_key", Default: "dev-only-photo-token-hash-key-0123456789", Desc: "HMAC key for photo access tokens (32+ bytes)"},
	{Name: "photo_token_block_key", Default: "", Desc: "Optional AES key for photo token encryption (16/24/32 bytes)"},
	{Name: "photo_token_max_age", Default: 900, Desc: "Photo access token validity in seconds"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID (blank disables Google sign-in)"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, PITLANE_* for app), and
// command-line flags, with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PITLANE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DBTimeouts: timeouts.Config{
			Ping:   appValues.Duration("db_timeout_ping", 0),
			Short:  appValues.Duration("db_timeout_short", 0),
			Medium: appValues.Duration("db_timeout_medium", 0),
			Long:   appValues.Duration("db_timeout_long", 0),
			Batch:  appValues.Duration("db_timeout_batch", 0),
		},

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),
		CSRFKey:       appValues.String("csrf_key"),

		// Photo storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),

		// Photo access tokens
		PhotoTokenHashKey:  appValues.String("photo_token_hash_key"),
		PhotoTokenBlockKey: appValues.String("photo_token_block_key"),
		PhotoTokenMaxAge:   appValues.Int("photo_token_max_age"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		// Base URL
		BaseURL: appValues.String("base_url"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Pitlane validates the MongoDB URI format and the storage settings to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.StorageType {
	case "local":
		if appCfg.StorageLocalPath == "" {
			return fmt.Errorf("storage_type 'local' requires storage_local_path")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return fmt.Errorf("storage_type 's3' requires storage_s3_bucket")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if len(appCfg.PhotoTokenHashKey) < 32 {
		return fmt.Errorf("photo_token_hash_key must be at least 32 bytes")
	}
	if n := len(appCfg.PhotoTokenBlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("photo_token_block_key must be 16, 24, or 32 bytes")
	}
	if len(appCfg.CSRFKey) < 32 {
		return fmt.Errorf("csrf_key must be at least 32 bytes")
	}

	if appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret == "" {
		return fmt.Errorf("google_client_id is set but google_client_secret is empty")
	}

	return nil
}
