// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/fitzone/internal/app/features/admin"
	errorsfeature "github.com/dalemusser/fitzone/internal/app/features/errors"
	healthfeature "github.com/dalemusser/fitzone/internal/app/features/health"
	loginfeature "github.com/dalemusser/fitzone/internal/app/features/login"
	logoutfeature "github.com/dalemusser/fitzone/internal/app/features/logout"
	memberdashfeature "github.com/dalemusser/fitzone/internal/app/features/memberdash"
	userdashfeature "github.com/dalemusser/fitzone/internal/app/features/userdash"
	billstore "github.com/dalemusser/fitzone/internal/app/store/bills"
	logstore "github.com/dalemusser/fitzone/internal/app/store/logs"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	notificationstore "github.com/dalemusser/fitzone/internal/app/store/notifications"
	userrolestore "github.com/dalemusser/fitzone/internal/app/store/userroles"
	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/billing"
	"github.com/dalemusser/fitzone/internal/app/system/guard"
	"github.com/dalemusser/fitzone/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. FitZone initializes the template engine,
// applies session and CSRF middleware, and mounts the login flow plus one
// dashboard per role.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	csrfKey := []byte(appCfg.CSRFKey)
	if len(csrfKey) == 0 {
		csrfKey = securecookie.GenerateRandomKey(32)
		logger.Warn("csrf_key not set; generated a per-process key (forms break across restarts and replicas)")
	}
	csrfProtect := csrf.Protect(csrfKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	db := deps.FitZoneMongoDatabase
	m := deps.Metrics

	members := memberstore.New(db)
	bills := billstore.New(db)
	notes := notificationstore.New(db)
	roles := userrolestore.New(db)
	logs := logstore.New(db)

	audit := auditlog.New(logs, logger, appCfg.AuditLog, m)
	g := guard.New(roles, logger)
	acct := accounts.New(deps.Identity, roles, members, logger)
	bill := billing.New(bills, members)
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.NotFound(errLog.NotFound)

	// Health and metrics sit outside session and CSRF handling.
	healthHandler := healthfeature.NewHandler(deps.FitZoneMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(plaintextHTTP)
		}
		r.Use(csrfProtect)
		// Loads SessionUser into context when signed in.
		r.Use(sessionMgr.LoadSessionUser)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/login", http.StatusSeeOther)
		})

		loginHandler := loginfeature.NewHandler(deps.Identity, roles, sessionMgr, logger)
		loginHandler.Limiter = ratelimit.NewLoginLimiter()
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, g, audit, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		adminHandler := adminfeature.NewHandler(adminfeature.Deps{
			Members:       members,
			Bills:         bills,
			Notifications: notes,
			Roles:         roles,
			Activity:      logs,
			Accounts:      acct,
			Billing:       bill,
		}, sessionMgr, audit, m, errLog, logger)
		r.Mount("/admin", adminfeature.Routes(adminHandler, g, sessionMgr, audit))

		memberHandler := memberdashfeature.NewHandler(members, bills, notes, sessionMgr, audit, m, errLog, logger)
		r.Mount("/member", memberdashfeature.Routes(memberHandler, g, sessionMgr, audit))

		userHandler := userdashfeature.NewHandler(members, sessionMgr, audit, m, errLog, logger)
		r.Mount("/user", userdashfeature.Routes(userHandler, g, sessionMgr, audit))
	})

	logger.Info("routes mounted", zap.Bool("secure_cookies", secure))
	return r, nil
}

// plaintextHTTP tells gorilla/csrf that a request arrived over plain HTTP,
// so its origin checks accept http:// referers during local development.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}
