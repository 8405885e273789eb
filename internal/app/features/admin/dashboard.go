package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// recentActivity is how many audit entries the dashboard lists.
const recentActivity = 10

// ServeDashboard handles GET /admin. Members, bills and recent activity load
// concurrently; activity is optional and only logged on failure.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		members []models.Member
		bills   []models.Bill
		entries []models.LogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if members, err = h.Members.List(gctx); err != nil {
			return fmt.Errorf("load members: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if bills, err = h.Bills.List(gctx); err != nil {
			return fmt.Errorf("load bills: %w", err)
		}
		return nil
	})
	if h.Activity != nil {
		g.Go(func() error {
			e, err := h.Activity.Recent(gctx, "", recentActivity)
			if err != nil {
				h.Log.Warn("admin dashboard: recent activity", zap.Error(err))
				return nil
			}
			entries = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "admin dashboard", err, "Failed to load dashboard data.", "/admin")
		return
	}

	h.Render(w, r, "admin_dashboard", DashboardData{
		BaseVM:   viewdata.NewBaseVM(w, r, h.SessionMgr, "Admin Dashboard"),
		Stats:    views.DashboardStats(members, bills),
		Activity: views.ActivityRows(entries),
	})
}
