// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds FitZone's app-level configuration.
//
// Values come from config files, FITZONE_* environment variables or flags
// (loaded in LoadConfig). WAFFLE's CoreConfig covers ports, TLS, logging
// and CORS; everything specific to the gym lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session and form protection
	SessionKey    string        // signs session cookies; at least 32 bytes
	SessionName   string        // cookie name (default: fitzone-session)
	SessionDomain string        // cookie domain (blank means current host)
	SessionMaxAge time.Duration // cookie lifetime
	CSRFKey       string        // 32-byte CSRF key; blank generates one per process

	// Identity provider
	IdentityProvider string // "local" (Mongo + bcrypt) or "toolkit"
	IdentityAPIKey   string // toolkit API key
	IdentityEndpoint string // toolkit base URL (blank means the public endpoint)
	IdentityAdminADC bool   // toolkit deletes use Application Default Credentials

	// Audit log destination: all | db | log | off
	AuditLog string

	// Bootstrap admin account, created at startup when both are set
	AdminEmail    string
	AdminPassword string

	// Display name shown in page headers and receipts
	GymName string

	// Request deadlines for store and identity calls
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
