// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging, CORS). AppConfig is everything specific to Pitlane: database
// connection strings, session and CSRF keys, photo storage, OAuth
// credentials, and audit logging modes. The struct is passed to most
// lifecycle hooks, so any configuration needed during startup, request
// handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Per-operation database deadlines. Zero values fall back to the
	// timeouts package defaults.
	DBTimeouts timeouts.Config

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf token signing

	// Photo storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/photos")
	StorageS3Region  string // AWS region (only used if StorageType is "s3")
	StorageS3Bucket  string // S3 bucket name

	// Photo access token signing
	PhotoTokenHashKey  string // HMAC key for photo access tokens (32+ bytes)
	PhotoTokenBlockKey string // Optional AES key for token encryption (16/24/32 bytes, blank disables)
	PhotoTokenMaxAge   int    // Token validity in seconds

	// Google OAuth configuration (blank disables Google sign-in)
	GoogleClientID     string
	GoogleClientSecret string

	// Base URL for OAuth callbacks (e.g., "https://pitlane.kartsforkids.org")
	BaseURL string

	// Audit logging settings: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
