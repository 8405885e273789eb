// internal/app/features/admin/handler.go
package admin

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/fitzone/internal/app/features/errors"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/billing"
	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Members is the subset of memberstore.Store the admin pages use.
type Members interface {
	List(ctx context.Context) ([]models.Member, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Member, error)
	Update(ctx context.Context, id primitive.ObjectID, u memberstore.Update) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Bills interface {
	List(ctx context.Context) ([]models.Bill, error)
	Get(ctx context.Context, id primitive.ObjectID) (models.Bill, error)
}

type Notifications interface {
	List(ctx context.Context) ([]models.Notification, error)
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// Roles lists user accounts for the users page.
type Roles interface {
	ListByRole(ctx context.Context, role models.Role) ([]models.UserRole, error)
}

// Activity reads the newest audit entries for the dashboard.
type Activity interface {
	Recent(ctx context.Context, action string, limit int64) ([]models.LogEntry, error)
}

// Handler serves every page under /admin.
type Handler struct {
	Members       Members
	Bills         Bills
	Notifications Notifications
	Roles         Roles
	Activity      Activity
	Accounts      *accounts.Service
	Billing       *billing.Service
	SessionMgr    *auth.SessionManager
	AuditLog      *auditlog.Logger
	Metrics       *metrics.Metrics
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	Render        viewdata.RenderFunc
	Now           func() time.Time
}

// Deps groups the stores and services NewHandler wires together.
type Deps struct {
	Members       Members
	Bills         Bills
	Notifications Notifications
	Roles         Roles
	Activity      Activity
	Accounts      *accounts.Service
	Billing       *billing.Service
}

func NewHandler(d Deps, sessionMgr *auth.SessionManager, audit *auditlog.Logger, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Members:       d.Members,
		Bills:         d.Bills,
		Notifications: d.Notifications,
		Roles:         d.Roles,
		Activity:      d.Activity,
		Accounts:      d.Accounts,
		Billing:       d.Billing,
		SessionMgr:    sessionMgr,
		AuditLog:      audit,
		Metrics:       m,
		ErrLog:        errLog,
		Log:           logger,
		Render:        viewdata.Render,
		Now:           time.Now,
	}
}
