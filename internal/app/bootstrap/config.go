// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Identity provider names accepted by identity_provider.
const (
	ProviderLocal   = "local"
	ProviderToolkit = "toolkit"
)

// appConfigKeys defines the configuration keys for FitZone.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FITZONE_MONGO_URI, FITZONE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "fitzone", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "fitzone-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 90m)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank generates a random key per process)"},

	// Identity provider
	{Name: "identity_provider", Default: ProviderLocal, Desc: "Identity provider: 'local' (MongoDB + bcrypt) or 'toolkit' (Identity Toolkit REST)"},
	{Name: "identity_api_key", Default: "", Desc: "Identity Toolkit API key (toolkit only)"},
	{Name: "identity_endpoint", Default: "", Desc: "Identity Toolkit base URL (blank means the public endpoint)"},
	{Name: "identity_admin_adc", Default: false, Desc: "Delete toolkit accounts with Google Application Default Credentials"},

	// Audit logging
	{Name: "audit_log", Default: auditlog.ModeAll, Desc: "Audit log destination: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin account ensured at startup"},
	{Name: "admin_password", Default: "", Desc: "Password of the admin account ensured at startup"},

	{Name: "gym_name", Default: "FitZone Gym", Desc: "Gym name shown in page headers and receipts"},

	// Request deadlines
	{Name: "timeout_short", Default: timeouts.DefaultShort.String(), Desc: "Deadline for single-record reads and sign-in"},
	{Name: "timeout_medium", Default: timeouts.DefaultMedium.String(), Desc: "Deadline for list loads and single writes"},
	{Name: "timeout_long", Default: timeouts.DefaultLong.String(), Desc: "Deadline for account provisioning and exports"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// FITZONE_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FITZONE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		IdentityProvider: strings.ToLower(strings.TrimSpace(appValues.String("identity_provider"))),
		IdentityAPIKey:   appValues.String("identity_api_key"),
		IdentityEndpoint: appValues.String("identity_endpoint"),
		IdentityAdminADC: appValues.Bool("identity_admin_adc"),

		AuditLog: strings.ToLower(strings.TrimSpace(appValues.String("audit_log"))),

		AdminEmail:    strings.TrimSpace(appValues.String("admin_email")),
		AdminPassword: appValues.String("admin_password"),

		GymName: appValues.String("gym_name"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	switch appCfg.IdentityProvider {
	case ProviderLocal:
	case ProviderToolkit:
		if strings.TrimSpace(appCfg.IdentityAPIKey) == "" {
			return fmt.Errorf("identity_provider %q requires identity_api_key", ProviderToolkit)
		}
	default:
		return fmt.Errorf("unknown identity_provider %q (want %q or %q)",
			appCfg.IdentityProvider, ProviderLocal, ProviderToolkit)
	}

	if !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("unknown audit_log mode %q (want all, db, log or off)", appCfg.AuditLog)
	}

	if len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 bytes")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes when set")
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}
	if appCfg.AdminEmail != "" {
		if !identity.ValidEmail(appCfg.AdminEmail) {
			return fmt.Errorf("admin_email %q is not a valid email address", appCfg.AdminEmail)
		}
		if len(appCfg.AdminPassword) < identity.MinPasswordLength {
			return fmt.Errorf("admin_password must be at least %d characters", identity.MinPasswordLength)
		}
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		logger.Warn("session_key is the development default; set FITZONE_SESSION_KEY in production")
	}

	return nil
}
