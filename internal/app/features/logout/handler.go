// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// RoleResolver names the role being signed out. *guard.Guard implements it.
type RoleResolver interface {
	Resolve(ctx context.Context, u *auth.SessionUser) (models.Role, error)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Roles      RoleResolver
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, roles RoleResolver, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Roles:      roles,
		AuditLog:   audit,
	}
}

// ServeLogout handles POST /logout. The <ROLE>_LOGOUT entry is
// written before the session is cleared.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	role, err := h.Roles.Resolve(ctx, u)
	cancel()
	if err != nil {
		h.Log.Warn("logout: role not resolved; no audit entry", zap.String("identity_id", u.ID), zap.Error(err))
	} else {
		h.AuditLog.Log(r.Context(), auditlog.LogoutAction(role), u.ID, map[string]any{"email": u.Email})
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, "Logged out successfully")

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
