package memberdash

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

// ServeDashboard handles GET /member.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := DashboardData{BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "My Dashboard")}

	member, err := h.Members.GetByEmail(ctx, u.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.Log.Info("member dashboard: no profile for identity",
			zap.String("identity_id", u.ID), zap.String("email", u.Email))
		data.NotFound = true
		h.Render(w, r, "member_dashboard", data)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "member dashboard: load profile", err, "Could not load your profile.", "/member")
		return
	}

	bills, err := h.Bills.ListByMember(ctx, member.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "member dashboard: load bills", err, "Could not load your bills.", "/member")
		return
	}

	notes, err := h.Notifications.ListActive(ctx)
	if err != nil {
		h.Log.Warn("member dashboard: load notifications", zap.Error(err))
	}

	data.Profile = views.ProfileFor(member)
	data.Package = views.PackageCardFor(member.Package)
	data.Bills = views.BillRows(bills, views.MemberNames([]models.Member{member}))
	data.PendingBills = views.PendingCount(bills)
	data.Notifications = views.Notifications(notes)

	h.Render(w, r, "member_dashboard", data)
}
