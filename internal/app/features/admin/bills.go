package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/billing"
	"github.com/dalemusser/fitzone/internal/app/system/download"
	"github.com/dalemusser/fitzone/internal/app/system/export"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const billsPath = "/admin/bills"

// ServeBills handles GET /admin/bills.
func (h *Handler) ServeBills(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	bills, err := h.Bills.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin bills: load bills", err, "Failed to load bills.", "/admin")
		return
	}
	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin bills: load members", err, "Failed to load bills.", "/admin")
		return
	}

	h.Render(w, r, "admin_bills", BillsData{
		BaseVM:         viewdata.NewBaseVM(w, r, h.SessionMgr, "Bills"),
		Bills:          views.BillRows(bills, views.MemberNames(members)),
		MemberOptions:  views.MemberOptions(members),
		Packages:       views.PackageChoices(),
		DefaultDueDate: h.Now().AddDate(0, 0, billing.DefaultDueDays).Format("2006-01-02"),
	})
}

// HandleCreateBill handles POST /admin/bills.
func (h *Handler) HandleCreateBill(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failed(w, r, auditlog.BillCreated, &billing.InputError{Msg: "Bad request"}, "", billsPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Billing.Create(ctx, billing.Input{
		MemberID: r.PostFormValue("member_id"),
		Package:  r.PostFormValue("package"),
		Amount:   r.PostFormValue("amount"),
		DueDate:  r.PostFormValue("due_date"),
	})
	if err != nil {
		h.failed(w, r, auditlog.BillCreated, err, "Failed to create bill", billsPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.BillCreated, actorID(r), map[string]any{
		"bill_id":   b.ID.Hex(),
		"member_id": b.MemberID.Hex(),
		"package":   string(b.Package),
		"amount":    b.Amount,
		"due_date":  views.DatePtr(b.DueDate),
	})
	h.succeeded(w, r, auditlog.BillCreated, "Bill created successfully!", billsPath)
}

// HandleMarkPaid handles POST /admin/bills/{id}/paid. Paying a paid bill
// changes nothing and writes no audit entry.
func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	hexID := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	changed, err := h.Billing.MarkPaid(ctx, id)
	if err != nil {
		h.failed(w, r, auditlog.BillPaid, err, "Failed to update bill", billsPath)
		return
	}
	if !changed {
		h.SessionMgr.AddFlash(w, r, auth.FlashInfo, "Bill was already paid")
		http.Redirect(w, r, billsPath, http.StatusSeeOther)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.BillPaid, actorID(r), map[string]any{"bill_id": hexID})
	h.succeeded(w, r, auditlog.BillPaid, "Bill marked as paid!", billsPath)
}

// ServeReceipt handles GET /admin/bills/{id}/receipt for any bill.
func (h *Handler) ServeReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Bills.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.ErrLog.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "admin receipt: load bill", err, "Could not prepare the receipt.", billsPath)
		return
	}

	var member *models.Member
	m, err := h.Members.Get(ctx, b.MemberID)
	switch {
	case err == nil:
		member = &m
	case !errors.Is(err, store.ErrNotFound):
		h.ErrLog.LogServerError(w, r, "admin receipt: load member", err, "Could not prepare the receipt.", billsPath)
		return
	}

	f := export.Receipt(viewdata.SiteName(), b, member, h.Now())
	if err := download.Send(w, f.Name, f.ContentType, f.Body); err != nil {
		h.Log.Warn("admin receipt: write failed", zap.Error(err))
	}
	h.Metrics.Mutation(auditlog.ReceiptDownloaded, nil)
	h.AuditLog.Log(r.Context(), auditlog.ReceiptDownloaded, actorID(r), map[string]any{
		"bill_id":   b.ID.Hex(),
		"member_id": b.MemberID.Hex(),
	})
}
