// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/fitzone/internal/app/resources"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	userrolestore "github.com/dalemusser/fitzone/internal/app/store/userroles"
	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	cur := timeouts.Current()
	logger.Info("request deadlines",
		zap.Duration("ping", cur.Ping),
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	viewdata.Init(appCfg.GymName)

	return ensureAdmin(ctx, appCfg, deps, logger)
}

// ensureAdmin provisions the configured admin account when it is missing.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" || appCfg.AdminPassword == "" {
		logger.Info("no admin_email configured; skipping admin bootstrap")
		return nil
	}

	db := deps.FitZoneMongoDatabase
	svc := accounts.New(deps.Identity, userrolestore.New(db), memberstore.New(db), logger)

	actx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	created, err := svc.EnsureAdmin(actx, appCfg.AdminEmail, appCfg.AdminPassword)
	if err != nil {
		logger.Error("admin bootstrap failed", zap.String("email", appCfg.AdminEmail), zap.Error(err))
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		logger.Info("admin account created", zap.String("email", appCfg.AdminEmail))
	}
	return nil
}
