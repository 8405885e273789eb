// Package guard decides whether a request may enter a role's dashboard.
//
// The role is looked up from the users collection on every gated request.
// Any failure to establish the role, including a lookup error, denies entry.
package guard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// Outcome is the closed set of guard results.
type Outcome int

const (
	RedirectLogin Outcome = iota
	RedirectUnauthorized
	Proceed
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Proceed:
		return "proceed"
	}
	return "unknown"
}

// Decision is the result of Check. Role is only set when Outcome is Proceed.
type Decision struct {
	Outcome Outcome
	Role    models.Role
	Reason  string
}

// UnauthorizedURL is where denied sessions land after sign-out.
const UnauthorizedURL = "/login?error=unauthorized"

// RoleLookup loads the role record for an identity. userrolestore.Store
// implements it.
type RoleLookup interface {
	Get(ctx context.Context, id string) (models.UserRole, error)
}

type Guard struct {
	roles RoleLookup
	log   *zap.Logger
}

func New(roles RoleLookup, log *zap.Logger) *Guard {
	return &Guard{roles: roles, log: log}
}

// Resolve returns the stored role for the identity.
func (g *Guard) Resolve(ctx context.Context, u *auth.SessionUser) (models.Role, error) {
	ur, err := g.roles.Get(ctx, u.ID)
	if err != nil {
		return "", err
	}
	return models.ParseRole(string(ur.Role))
}

// Check resolves an identity against the role required by a page.
func (g *Guard) Check(ctx context.Context, u *auth.SessionUser, required models.Role) Decision {
	if u == nil || u.ID == "" {
		return Decision{Outcome: RedirectLogin, Reason: "no identity"}
	}

	role, err := g.Resolve(ctx, u)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Decision{Outcome: RedirectUnauthorized, Reason: "no role record"}
	case err != nil:
		g.log.Warn("role lookup failed; denying",
			zap.String("identity_id", u.ID),
			zap.Error(err))
		return Decision{Outcome: RedirectUnauthorized, Reason: "role lookup failed"}
	case role != required:
		return Decision{Outcome: RedirectUnauthorized, Reason: "role mismatch"}
	}
	return Decision{Outcome: Proceed, Role: role}
}

// Require gates a dashboard subtree on role. Denied sessions are signed out
// before the redirect, and no handler below runs. The first entry of each
// session writes the <ROLE>_LOGIN audit entry.
func (g *Guard) Require(sm *auth.SessionManager, audit *auditlog.Logger, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := auth.CurrentUser(r)

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
			d := g.Check(ctx, u, role)
			cancel()

			switch d.Outcome {
			case RedirectLogin:
				auth.RedirectToLogin(w, r, "/login")
				return
			case RedirectUnauthorized:
				g.log.Info("dashboard access denied",
					zap.String("identity_id", u.ID),
					zap.String("required", role.String()),
					zap.String("reason", d.Reason))
				if err := sm.SignOut(w, r); err != nil {
					g.log.Warn("sign out after denial failed", zap.Error(err))
				}
				sm.AddFlash(w, r, auth.FlashError, "Unauthorized access")
				auth.RedirectToLogin(w, r, UnauthorizedURL)
				return
			}

			if sm.FirstEntry(w, r) {
				audit.Log(r.Context(), auditlog.LoginAction(d.Role), u.ID, map[string]any{"email": u.Email})
			}
			next.ServeHTTP(w, r)
		})
	}
}
