// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Identity is built once in ConnectDB so the toolkit client's token cache
// is shared by every handler.
type DBDeps struct {
	FitZoneMongoClient   *mongo.Client
	FitZoneMongoDatabase *mongo.Database

	Identity identity.Provider
	Metrics  *metrics.Metrics
}
