// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// Action names written to the logs collection.
const (
	AdminLogin         = "ADMIN_LOGIN"
	AdminLogout        = "ADMIN_LOGOUT"
	MemberLogin        = "MEMBER_LOGIN"
	MemberLogout       = "MEMBER_LOGOUT"
	UserLogin          = "USER_LOGIN"
	UserLogout         = "USER_LOGOUT"
	MemberAdded        = "MEMBER_ADDED"
	MemberUpdated      = "MEMBER_UPDATED"
	MemberDeleted      = "MEMBER_DELETED"
	BillCreated        = "BILL_CREATED"
	BillPaid           = "BILL_PAID"
	ReceiptDownloaded  = "RECEIPT_DOWNLOADED"
	NotificationSent   = "NOTIFICATION_SENT"
	NotificationHidden = "NOTIFICATION_HIDDEN"
	MembersExported    = "MEMBERS_EXPORTED"
	BillsExported      = "BILLS_EXPORTED"
	UserCreated        = "USER_CREATED"
	UserDeleted        = "USER_DELETED"
	MemberSearch       = "MEMBER_SEARCH"
)

// LoginAction returns the <ROLE>_LOGIN action for role.
func LoginAction(role models.Role) string { return role.AuditPrefix() + "_LOGIN" }

// LogoutAction returns the <ROLE>_LOGOUT action for role.
func LogoutAction(role models.Role) string { return role.AuditPrefix() + "_LOGOUT" }

// Destination modes.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// ValidMode reports whether s is a known destination mode.
func ValidMode(s string) bool {
	switch s {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Appender persists a log entry. logstore.Store implements it.
type Appender interface {
	Append(ctx context.Context, e models.LogEntry) error
}

// Logger records audit entries. Writes are best effort: a storage failure
// is logged and counted but never returned to the caller.
type Logger struct {
	store   Appender
	zapLog  *zap.Logger
	mode    string
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a Logger. An unknown mode behaves like "all".
func New(store Appender, zapLog *zap.Logger, mode string, m *metrics.Metrics) *Logger {
	if !ValidMode(mode) {
		mode = ModeAll
	}
	return &Logger{store: store, zapLog: zapLog, mode: mode, metrics: m, now: time.Now}
}

// Log records one entry. If the logger is nil, this is a no-op.
func (l *Logger) Log(ctx context.Context, action, userID string, details map[string]any) {
	if l == nil || l.mode == ModeOff {
		return
	}

	e := models.LogEntry{
		Action:    action,
		UserID:    userID,
		Timestamp: l.now().UTC(),
		Details:   details,
	}

	if l.mode == ModeAll || l.mode == ModeLog {
		l.logToZap(e)
	}

	if (l.mode == ModeAll || l.mode == ModeDB) && l.store != nil {
		// Own deadline, detached from the request so a canceled request
		// still records its entry.
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Short())
		defer cancel()
		if err := l.store.Append(actx, e); err != nil {
			l.metrics.AuditFailure()
			l.zapLog.Error("failed to store audit entry",
				zap.Error(err),
				zap.String("action", action),
			)
		}
	}
}

func (l *Logger) logToZap(e models.LogEntry) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", e.Action),
		zap.String("user_id", e.UserID),
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.String("detail_"+k, fmt.Sprint(e.Details[k])))
	}

	l.zapLog.Info("audit event", fields...)
}
