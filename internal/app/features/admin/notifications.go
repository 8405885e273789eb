package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/fitzone/internal/app/system/accounts"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const notificationsPath = "/admin/notifications"

// Notification audiences offered by the send form. Delivery ignores them:
// every active notification shows on the member dashboard.
var notificationTargets = []string{"all", "members"}

func validTarget(t string) bool {
	for _, v := range notificationTargets {
		if v == t {
			return true
		}
	}
	return false
}

// ServeNotifications handles GET /admin/notifications.
func (h *Handler) ServeNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Notifications.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin notifications: load", err, "Failed to load notifications.", "/admin")
		return
	}

	h.Render(w, r, "admin_notifications", NotificationsData{
		BaseVM:        viewdata.NewBaseVM(w, r, h.SessionMgr, "Notifications"),
		Notifications: views.Notifications(list),
		Targets:       notificationTargets,
	})
}

// HandleSendNotification handles POST /admin/notifications.
func (h *Handler) HandleSendNotification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.failed(w, r, auditlog.NotificationSent, &accounts.InvalidError{Msg: "Bad request"}, "", notificationsPath)
		return
	}
	title := strings.TrimSpace(r.PostFormValue("title"))
	message := strings.TrimSpace(r.PostFormValue("message"))
	target := strings.ToLower(strings.TrimSpace(r.PostFormValue("target_role")))
	if target == "" {
		target = notificationTargets[0]
	}
	switch {
	case title == "":
		h.failed(w, r, auditlog.NotificationSent, &accounts.InvalidError{Msg: "Title is required"}, "", notificationsPath)
		return
	case message == "":
		h.failed(w, r, auditlog.NotificationSent, &accounts.InvalidError{Msg: "Message is required"}, "", notificationsPath)
		return
	case !validTarget(target):
		h.failed(w, r, auditlog.NotificationSent, &accounts.InvalidError{Msg: "Please choose who receives the notification"}, "", notificationsPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.Create(ctx, models.Notification{
		Title:      title,
		Message:    message,
		TargetRole: target,
		CreatedAt:  h.Now().UTC(),
		IsActive:   true,
	})
	if err != nil {
		h.failed(w, r, auditlog.NotificationSent, err, "Failed to send notification", notificationsPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.NotificationSent, actorID(r), map[string]any{
		"notification_id": n.ID.Hex(),
		"title":           n.Title,
		"target_role":     n.TargetRole,
	})
	h.succeeded(w, r, auditlog.NotificationSent, "Notification sent successfully!", notificationsPath)
}

// HandleHideNotification handles POST /admin/notifications/{id}/hide.
// Hidden notifications stay in the history but leave member dashboards.
func (h *Handler) HandleHideNotification(w http.ResponseWriter, r *http.Request) {
	hexID := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.SetActive(ctx, id, false); err != nil {
		h.failed(w, r, auditlog.NotificationHidden, err, "Failed to hide notification", notificationsPath)
		return
	}

	h.AuditLog.Log(r.Context(), auditlog.NotificationHidden, actorID(r), map[string]any{"notification_id": hexID})
	h.succeeded(w, r, auditlog.NotificationHidden, "Notification hidden", notificationsPath)
}
