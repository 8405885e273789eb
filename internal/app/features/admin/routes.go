package admin

import (
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/guard"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin pages behind the admin role gate.
// Typically: r.Mount("/admin", admin.Routes(h, g, sm, audit))
func Routes(h *Handler, g *guard.Guard, sm *auth.SessionManager, audit *auditlog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(g.Require(sm, audit, models.RoleAdmin))

	r.Get("/", h.ServeDashboard)

	r.Route("/members", func(mr chi.Router) {
		mr.Get("/", h.ServeMembers)
		mr.Post("/", h.HandleCreateMember)
		mr.Get("/export", h.ServeMembersCSV)
		mr.Get("/{id}/edit", h.ServeEditMember)
		mr.Post("/{id}", h.HandleUpdateMember)
		mr.Post("/{id}/delete", h.HandleDeleteMember)
	})

	r.Route("/bills", func(br chi.Router) {
		br.Get("/", h.ServeBills)
		br.Post("/", h.HandleCreateBill)
		br.Get("/export", h.ServeBillsCSV)
		br.Post("/{id}/paid", h.HandleMarkPaid)
		br.Get("/{id}/receipt", h.ServeReceipt)
	})

	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", h.ServeNotifications)
		nr.Post("/", h.HandleSendNotification)
		nr.Post("/{id}/hide", h.HandleHideNotification)
	})

	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", h.ServeUsers)
		ur.Post("/", h.HandleCreateUser)
		ur.Post("/{id}/delete", h.HandleDeleteUser)
	})

	return r
}
