// internal/app/features/userdash/handler.go
package userdash

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/fitzone/internal/app/features/errors"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/metrics"
	"github.com/dalemusser/fitzone/internal/app/system/roster"
	"github.com/dalemusser/fitzone/internal/app/system/timeouts"
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

type Members interface {
	List(ctx context.Context) ([]models.Member, error)
}

// Handler serves the read-only member directory for role=user accounts.
type Handler struct {
	Members    Members
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Metrics    *metrics.Metrics
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Render     viewdata.RenderFunc
}

func NewHandler(members Members, sessionMgr *auth.SessionManager, audit *auditlog.Logger, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Members:    members,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Metrics:    m,
		ErrLog:     errLog,
		Log:        logger,
		Render:     viewdata.Render,
	}
}

// SearchData is the user dashboard view model.
type SearchData struct {
	viewdata.BaseVM
	Term      string
	NeedsTerm bool
	NoMatches bool
	Results   []views.MemberRow
}

// ServeSearch handles GET /user?q=term. Without a term the page asks for
// one and loads nothing.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)
	raw := r.URL.Query().Get("q")

	data := SearchData{
		BaseVM: viewdata.NewBaseVM(w, r, h.SessionMgr, "Member Directory"),
		Term:   raw,
	}
	if roster.Normalize(raw) == "" {
		data.NeedsTerm = true
		h.Render(w, r, "user_dashboard", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "user search: load members", err, "Could not search members.", "/user")
		return
	}

	res := roster.Search(members, raw, roster.PublicView)
	data.NoMatches = res.NoMatches
	data.Results = views.MemberRows(res.Members)

	h.Metrics.Mutation(auditlog.MemberSearch, nil)
	h.AuditLog.Log(r.Context(), auditlog.MemberSearch, u.ID, map[string]any{
		"search_term":   res.Term,
		"results_count": len(res.Members),
	})

	h.Render(w, r, "user_dashboard", data)
}
