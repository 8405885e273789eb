package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

const usersPath = "/admin/users"

// ServeUsers handles GET /admin/users.
func (h *Handler) ServeUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roles, err := h.Roles.ListByRole(ctx, models.RoleUser)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin users: load", err, "Failed to load users.", "/admin")
		return
	}

	h.Render(w, r, "admin_users", UsersData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "User Accounts"),
		Users:  views.UserRows(roles),
	})
}

// HandleCreateUser handles POST /admin/users.
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failed(w, r, auditlog.UserCreated, &accounts.InvalidError{Msg: "Bad request"}, "", usersPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Accounts.CreateUser(ctx, accounts.UserInput{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Phone: r.PostFormValue("phone"),
	})
	if err != nil {
		h.failed(w, r, auditlog.UserCreated, err, "Failed to create user account", usersPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.UserCreated, actorID(r), map[string]any{
		"identity_id": p.IdentityID,
		"email":       p.Email,
		"name":        r.PostFormValue("name"),
	})
	h.succeeded(w, r, auditlog.UserCreated,
		"User account created! Login: "+p.Email+" | Password: "+p.Password, usersPath)
}

// HandleDeleteUser handles POST /admin/users/{id}/delete. Only role=user
// accounts can be removed here.
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Accounts.DeleteUser(ctx, id); err != nil {
		h.failed(w, r, auditlog.UserDeleted, err, "Failed to delete user account", usersPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.UserDeleted, actorID(r), map[string]any{
		"identity_id": id,
		"email":       r.PostFormValue("email"),
	})
	h.succeeded(w, r, auditlog.UserDeleted, "User account deleted successfully!", usersPath)
}
