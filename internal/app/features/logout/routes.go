// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts POST /logout only, so the CSRF token is always checked.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only allow logged-in users to hit /logout.
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.ServeLogout)
	})

	return r
}
