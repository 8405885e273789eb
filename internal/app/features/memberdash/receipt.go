package memberdash

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/download"
	"github.com/dalemusser/fitzone/internal/app/system/export"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeReceipt handles GET /member/bills/{id}/receipt. Members can only
// download receipts for their own bills.
func (h *Handler) ServeReceipt(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	billID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	member, err := h.Members.GetByEmail(ctx, u.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.ErrLog.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "receipt: load profile", err, "Could not prepare the receipt.", "/member")
		return
	}

	bill, err := h.Bills.Get(ctx, billID)
	if err != nil || bill.MemberID != member.ID {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			h.ErrLog.LogServerError(w, r, "receipt: load bill", err, "Could not prepare the receipt.", "/member")
			return
		}
		h.Log.Info("receipt refused", zap.String("identity_id", u.ID), zap.String("bill_id", billID.Hex()))
		h.ErrLog.NotFound(w, r)
		return
	}

	f := export.Receipt(viewdata.SiteName(), bill, &member, h.Now())
	if err := download.Send(w, f.Name, f.ContentType, f.Body); err != nil {
		h.Log.Warn("receipt: write failed", zap.Error(err))
	}
	h.Metrics.Mutation(auditlog.ReceiptDownloaded, nil)
	h.AuditLog.Log(r.Context(), auditlog.ReceiptDownloaded, u.ID, map[string]any{
		"bill_id":   bill.ID.Hex(),
		"member_id": member.ID.Hex(),
	})
}
