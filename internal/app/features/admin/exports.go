package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/download"
	"github.com/dalemusser/fitzone/internal/app/system/export"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"go.uber.org/zap"
)

// ServeMembersCSV handles GET /admin/members/export.
func (h *Handler) ServeMembersCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "members export: load", err, "Failed to export members.", membersPath)
		return
	}

	f, err := export.MembersCSV(members, h.Now())
	if errors.Is(err, export.ErrEmpty) {
		h.warn(w, r, "No members to export", membersPath)
		return
	}
	if err != nil {
		h.Metrics.Mutation(auditlog.MembersExported, err)
		h.ErrLog.LogServerError(w, r, "members export: encode", err, "Failed to export members.", membersPath)
		return
	}

	h.send(w, f)
	h.Metrics.Mutation(auditlog.MembersExported, nil)
	h.AuditLog.Log(r.Context(), auditlog.MembersExported, actorID(r), map[string]any{"count": len(members)})
}

// ServeBillsCSV handles GET /admin/bills/export.
func (h *Handler) ServeBillsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	bills, err := h.Bills.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bills export: load bills", err, "Failed to export bills.", billsPath)
		return
	}
	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "bills export: load members", err, "Failed to export bills.", billsPath)
		return
	}

	f, err := export.BillsCSV(bills, views.MemberNames(members), h.Now())
	if errors.Is(err, export.ErrEmpty) {
		h.warn(w, r, "No bills to export", billsPath)
		return
	}
	if err != nil {
		h.Metrics.Mutation(auditlog.BillsExported, err)
		h.ErrLog.LogServerError(w, r, "bills export: encode", err, "Failed to export bills.", billsPath)
		return
	}

	h.send(w, f)
	h.Metrics.Mutation(auditlog.BillsExported, nil)
	h.AuditLog.Log(r.Context(), auditlog.BillsExported, actorID(r), map[string]any{"count": len(bills)})
}

func (h *Handler) send(w http.ResponseWriter, f export.File) {
	if err := download.Send(w, f.Name, f.ContentType, f.Body); err != nil {
		h.Log.Warn("export: write failed", zap.String("file", f.Name), zap.Error(err))
	}
}
