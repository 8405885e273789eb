// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/ratelimit"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// RoleLookup resolves an identity to its role record.
type RoleLookup interface {
	Get(ctx context.Context, id string) (models.UserRole, error)
}

type Handler struct {
	IDP        identity.Provider
	Roles      RoleLookup
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
	Render     viewdata.RenderFunc

	// Limiter throttles POST /login; nil disables throttling.
	Limiter *ratelimit.LoginLimiter
}

func NewHandler(idp identity.Provider, roles RoleLookup, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		IDP:        idp,
		Roles:      roles,
		SessionMgr: sessionMgr,
		Log:        logger,
		Render:     viewdata.Render,
	}
}

const (
	msgUnauthorized = "Unauthorized access. Please sign in with an account for that dashboard."
	msgNoRole       = "This account has no access assigned. Please contact the gym admin."
	msgRequired     = "Please enter your email and password."
	msgUnavailable  = "Sign-in is unavailable right now. Please try again."
)

// ServeLogin handles GET /login. A signed-in visitor with a valid role goes
// straight to their dashboard.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		ur, err := h.Roles.Get(ctx, u.ID)
		cancel()
		if err == nil && ur.Role.Valid() {
			http.Redirect(w, r, ur.Role.DashboardPath(), http.StatusSeeOther)
			return
		}
	}

	msg := ""
	if r.URL.Query().Get("error") == "unauthorized" {
		msg = msgUnauthorized
	}
	h.render(w, r, "", msg)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "", msgRequired)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.render(w, r, email, msgRequired)
		return
	}
	if h.Limiter != nil {
		if msg := h.Limiter.Check(r, email); msg != "" {
			h.Log.Warn("sign-in throttled", zap.String("ip", ratelimit.ClientIP(r)))
			h.render(w, r, email, msg)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.IDP.SignIn(ctx, email, password)
	if err != nil {
		var ae *identity.AuthError
		if !errors.As(err, &ae) {
			h.Log.Error("identity sign-in failed", zap.Error(err))
			h.render(w, r, email, msgUnavailable)
			return
		}
		h.render(w, r, email, identity.Message(err))
		return
	}

	ur, err := h.Roles.Get(ctx, id.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.Log.Info("sign-in without role record", zap.String("identity_id", id.ID))
		h.render(w, r, email, msgNoRole)
		return
	case err != nil:
		h.Log.Error("role lookup failed", zap.String("identity_id", id.ID), zap.Error(err))
		h.render(w, r, email, msgUnavailable)
		return
	case !ur.Role.Valid():
		h.render(w, r, email, msgNoRole)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{ID: id.ID, Email: id.Email}); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		h.render(w, r, email, msgUnavailable)
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(email)
	}
	http.Redirect(w, r, ur.Role.DashboardPath(), http.StatusSeeOther)
}

// PageData is the login form view model.
type PageData struct {
	viewdata.BaseVM
	Error string
	Email string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, email, msg string) {
	data := PageData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Sign in"),
		Error:  msg,
		Email:  email,
	}
	h.Render(w, r, "login", data)
}
