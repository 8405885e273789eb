package admin

import (
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/billing"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"go.uber.org/zap"
)

// succeeded finishes a mutation that went through: count it, queue the
// toast and send the browser back to a freshly loaded page.
func (h *Handler) succeeded(w http.ResponseWriter, r *http.Request, action, msg, backURL string) {
	h.Metrics.Mutation(action, nil)
	h.SessionMgr.AddFlash(w, r, auth.FlashSuccess, msg)
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// failed finishes a mutation that changed nothing. Form problems are shown
// as is; anything else is logged and replaced by fallback.
func (h *Handler) failed(w http.ResponseWriter, r *http.Request, action string, err error, fallback, backURL string) {
	h.Metrics.Mutation(action, err)
	msg, known := userMessage(err)
	if !known {
		h.Log.Error("admin mutation failed", zap.String("action", action), zap.Error(err))
		msg = fallback
	} else {
		h.Log.Info("admin mutation rejected", zap.String("action", action), zap.String("reason", msg))
	}
	h.SessionMgr.AddFlash(w, r, auth.FlashError, msg)
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

// warn redirects with a warning toast and records nothing.
func (h *Handler) warn(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	h.SessionMgr.AddFlash(w, r, auth.FlashWarning, msg)
	http.Redirect(w, r, backURL, http.StatusSeeOther)
}

func userMessage(err error) (string, bool) {
	var inv *accounts.InvalidError
	var bad *billing.InputError
	var ae *identity.AuthError
	switch {
	case errors.As(err, &inv):
		return inv.Msg, true
	case errors.As(err, &bad):
		return bad.Msg, true
	case errors.As(err, &ae), errors.Is(err, identity.ErrEmailExists):
		return identity.Message(err), true
	case errors.Is(err, store.ErrNotFound):
		return "Record not found", true
	}
	return "", false
}

func actorID(r *http.Request) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.ID
	}
	return ""
}
