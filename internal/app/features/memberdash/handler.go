// internal/app/features/memberdash/handler.go
package memberdash

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/fitzone/internal/app/features/errors"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Members finds the signed-in member's profile by email.
type Members interface {
	GetByEmail(ctx context.Context, email string) (models.Member, error)
}

type Bills interface {
	Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error)
	ListByMember(ctx context.Context, memberID primitive.ObjectID) ([]models.Bill, error)
}

type Notifications interface {
	ListActive(ctx context.Context) ([]models.Notification, error)
}

// Handler serves the member dashboard.
type Handler struct {
	Members       Members
	Bills         Bills
	Notifications Notifications
	SessionMgr    *auth.SessionManager
	AuditLog      *auditlog.Logger
	Metrics       *metrics.Metrics
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	Render        viewdata.RenderFunc
	Now           func() time.Time
}

func NewHandler(
	members Members,
	bills Bills,
	notifications Notifications,
	sessionMgr *auth.SessionManager,
	audit *auditlog.Logger,
	m *metrics.Metrics,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Members:       members,
		Bills:         bills,
		Notifications: notifications,
		SessionMgr:    sessionMgr,
		AuditLog:      audit,
		Metrics:       m,
		ErrLog:        errLog,
		Log:           logger,
		Render:        viewdata.Render,
		Now:           time.Now,
	}
}
