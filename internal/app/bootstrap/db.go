// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	billstore "github.com/dalemusser/fitzone/internal/app/store/bills"
	logstore "github.com/dalemusser/fitzone/internal/app/store/logs"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	notificationstore "github.com/dalemusser/fitzone/internal/app/store/notifications"
	userrolestore "github.com/dalemusser/fitzone/internal/app/store/userroles"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/identity/localidp"
	"github.com/dalemusser/fitzone/internal/app/system/identity/toolkit"
	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client, verifies it with a ping and builds
// the identity provider.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize),
	)

	m := metrics.New()
	idp, err := newIdentityProvider(ctx, appCfg, db, m, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}

	return DBDeps{
		FitZoneMongoClient:   client,
		FitZoneMongoDatabase: db,
		Identity:             idp,
		Metrics:              m,
	}, nil
}

// newIdentityProvider returns the configured provider wrapped with
// metrics and logging.
func newIdentityProvider(ctx context.Context, appCfg AppConfig, db *mongo.Database, m *metrics.Metrics, logger *zap.Logger) (identity.Provider, error) {
	var next identity.Provider
	switch appCfg.IdentityProvider {
	case ProviderToolkit:
		cfg := toolkit.Config{Endpoint: appCfg.IdentityEndpoint, APIKey: appCfg.IdentityAPIKey}
		if appCfg.IdentityAdminADC {
			admin, err := toolkit.DefaultAdminClient(ctx)
			if err != nil {
				logger.Error("identity admin credentials unavailable", zap.Error(err))
				return nil, err
			}
			cfg.Admin = admin
		}
		c, err := toolkit.New(cfg)
		if err != nil {
			return nil, err
		}
		next = c
	default:
		next = localidp.New(db, 0)
	}
	logger.Info("identity provider ready",
		zap.String("provider", appCfg.IdentityProvider),
		zap.Bool("admin_adc", appCfg.IdentityAdminADC))
	return identity.NewInstrumented(next, m, logger), nil
}

type indexStep struct {
	name string
	ix   interface {
		EnsureIndexes(ctx context.Context) error
	}
}

// EnsureSchema creates the indexes every store relies on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.FitZoneMongoDatabase

	steps := []indexStep{
		{"members", memberstore.New(db)},
		{"bills", billstore.New(db)},
		{"notifications", notificationstore.New(db)},
		{"userroles", userrolestore.New(db)},
		{"logs", logstore.New(db)},
	}
	if appCfg.IdentityProvider == ProviderLocal {
		steps = append(steps, indexStep{"identities", localidp.New(db, 0)})
	}

	for _, s := range steps {
		ictx, cancel := context.WithTimeout(ctx, timeouts.Long())
		err := s.ix.EnsureIndexes(ictx)
		cancel()
		if err != nil {
			logger.Error("ensure indexes failed", zap.String("collection", s.name), zap.Error(err))
			return fmt.Errorf("ensure %s indexes: %w", s.name, err)
		}
	}
	logger.Info("indexes ensured", zap.Int("collections", len(steps)))
	return nil
}
