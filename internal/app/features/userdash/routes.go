package userdash

import (
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/guard"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, g *guard.Guard, sm *auth.SessionManager, audit *auditlog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(g.Require(sm, audit, models.RoleUser))
	r.Get("/", h.ServeSearch)
	return r
}
