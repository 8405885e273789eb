package admin

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	memberstore "github.com/dalemusser/fitzone/internal/app/store/members"
	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"github.com/dalemusser/fitzone/internal/app/system/roster"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const membersPath = "/admin/members"

// ServeMembers handles GET /admin/members?q=term. An empty term lists everyone.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin members: load", err, "Failed to load members.", "/admin")
		return
	}

	q := r.URL.Query().Get("q")
	res := roster.Search(members, q, roster.AdminView)

	h.Render(w, r, "admin_members", MembersData{
		BaseVM:    viewdata.NewBaseVM(w, r, h.SessionMgr, "Members"),
		Query:     q,
		NoMatches: res.NoMatches,
		Members:   views.MemberRows(res.Members),
		Packages:  views.PackageChoices(),
	})
}

// HandleCreateMember handles POST /admin/members. The generated password is
// shown to the admin once in the success toast and is never logged.
func (h *Handler) HandleCreateMember(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failed(w, r, auditlog.MemberAdded, &accounts.InvalidError{Msg: "Bad request"}, "", membersPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	p, err := h.Accounts.CreateMember(ctx, accounts.MemberInput{
		Name:        r.PostFormValue("name"),
		Email:       r.PostFormValue("email"),
		Phone:       r.PostFormValue("phone"),
		DateOfBirth: r.PostFormValue("date_of_birth"),
		Package:     models.Package(r.PostFormValue("package")),
		Photo:       r.PostFormValue("photo"),
	})
	if err != nil {
		h.failed(w, r, auditlog.MemberAdded, err, "Failed to add member", membersPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.MemberAdded, actorID(r), map[string]any{
		"member_id":   p.Member.ID.Hex(),
		"identity_id": p.IdentityID,
		"name":        p.Member.Name,
		"email":       p.Email,
		"phone":       p.Member.Phone,
		"package":     string(p.Member.Package),
	})
	h.succeeded(w, r, auditlog.MemberAdded,
		"Member added! Login: "+p.Email+" | Password: "+p.Password, membersPath)
}

// ServeEditMember handles GET /admin/members/{id}/edit.
func (h *Handler) ServeEditMember(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.ErrLog.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "admin members: load for edit", err, "Failed to load member.", membersPath)
		return
	}

	h.Render(w, r, "admin_member_edit", MemberEditData{
		BaseVM:      viewdata.NewBaseVM(w, r, h.SessionMgr, "Edit Member"),
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: m.DateOfBirth,
		Package:     string(m.Package),
		Status:      m.Status,
		Photo:       deref(m.Photo),
		Packages:    views.PackageChoices(),
		Statuses:    []string{models.MemberActive, models.MemberInactive},
	})
}

// parseMemberUpdate validates the edit form. Every editable field is
// overwritten, so all of them must be present.
func parseMemberUpdate(r *http.Request) (memberstore.Update, error) {
	u := memberstore.Update{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Phone:       strings.TrimSpace(r.PostFormValue("phone")),
		DateOfBirth: strings.TrimSpace(r.PostFormValue("date_of_birth")),
		Status:      strings.ToLower(strings.TrimSpace(r.PostFormValue("status"))),
	}
	if u.Name == "" {
		return u, &accounts.InvalidError{Msg: "Name is required"}
	}
	if !identity.ValidEmail(u.Email) {
		return u, &accounts.InvalidError{Msg: "Please enter a valid email address"}
	}
	if u.Phone == "" {
		return u, &accounts.InvalidError{Msg: "Phone is required"}
	}
	if u.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", u.DateOfBirth); err != nil {
			return u, &accounts.InvalidError{Msg: "Date of birth must be YYYY-MM-DD"}
		}
	}
	pkg, ok := models.ParsePackage(r.PostFormValue("package"))
	if !ok {
		return u, &accounts.InvalidError{Msg: "Please choose a package"}
	}
	u.Package = pkg
	if !models.ValidMemberStatus(u.Status) {
		return u, &accounts.InvalidError{Msg: "Status must be active or inactive"}
	}
	photo, err := accounts.ParsePhoto(r.PostFormValue("photo"))
	if err != nil {
		return u, err
	}
	u.Photo = photo
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HandleUpdateMember handles POST /admin/members/{id}.
func (h *Handler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	hexID := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}
	editPath := membersPath + "/" + hexID + "/edit"

	if err := r.ParseForm(); err != nil {
		h.failed(w, r, auditlog.MemberUpdated, &accounts.InvalidError{Msg: "Bad request"}, "", editPath)
		return
	}
	u, err := parseMemberUpdate(r)
	if err != nil {
		h.failed(w, r, auditlog.MemberUpdated, err, "", editPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Update(ctx, id, u); err != nil {
		h.failed(w, r, auditlog.MemberUpdated, err, "Failed to update member", editPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.MemberUpdated, actorID(r), map[string]any{
		"member_id": hexID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"package":   string(u.Package),
		"status":    u.Status,
	})
	h.succeeded(w, r, auditlog.MemberUpdated, "Member updated successfully!", membersPath)
}

// HandleDeleteMember handles POST /admin/members/{id}/delete. Bills and the
// member's login stay; the member dashboard then shows "profile not found".
func (h *Handler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	hexID := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Delete(ctx, id); err != nil {
		h.failed(w, r, auditlog.MemberDeleted, err, "Failed to delete member", membersPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.MemberDeleted, actorID(r), map[string]any{"member_id": hexID})
	h.succeeded(w, r, auditlog.MemberDeleted, "Member deleted successfully!", membersPath)
}
