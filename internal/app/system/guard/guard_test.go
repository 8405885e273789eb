package guard_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/fitzone/internal/app/system/guard"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.uber.org/zap"
)

type fakeRoles struct {
	roles map[string]models.Role
	err   error
	calls int
}

func (f *fakeRoles) Get(_ context.Context, id string) (models.UserRole, error) {
	f.calls++
	if f.err != nil {
		return models.UserRole{}, f.err
	}
	r, ok := f.roles[id]
	if !ok {
		return models.UserRole{}, store.ErrNotFound
	}
	return models.UserRole{ID: id, Role: r}, nil
}

type memAppender struct{ entries []models.LogEntry }

func (m *memAppender) Append(_ context.Context, e models.LogEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func TestCheck(t *testing.T) {
	roles := &fakeRoles{roles: map[string]models.Role{
		"admin-1":  models.RoleAdmin,
		"member-1": models.RoleMember,
		"weird":    "owner",
	}}
	g := guard.New(roles, zap.NewNop())

	tests := []struct {
		name     string
		user     *auth.SessionUser
		required models.Role
		want     guard.Outcome
	}{
		{"no identity", nil, models.RoleAdmin, guard.RedirectLogin},
		{"no role record", &auth.SessionUser{ID: "ghost"}, models.RoleAdmin, guard.RedirectUnauthorized},
		{"wrong role", &auth.SessionUser{ID: "member-1"}, models.RoleAdmin, guard.RedirectUnauthorized},
		{"unknown stored role", &auth.SessionUser{ID: "weird"}, models.RoleUser, guard.RedirectUnauthorized},
		{"admin proceeds", &auth.SessionUser{ID: "admin-1"}, models.RoleAdmin, guard.Proceed},
		{"member proceeds", &auth.SessionUser{ID: "member-1"}, models.RoleMember, guard.Proceed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Check(context.Background(), tt.user, tt.required)
			if d.Outcome != tt.want {
				t.Errorf("outcome: got %v, want %v", d.Outcome, tt.want)
			}
			if d.Outcome == guard.Proceed && d.Role != tt.required {
				t.Errorf("role: got %q, want %q", d.Role, tt.required)
			}
		})
	}
}

func TestCheck_LookupErrorFailsClosed(t *testing.T) {
	g := guard.New(&fakeRoles{err: errors.New("connection reset")}, zap.NewNop())

	d := g.Check(context.Background(), &auth.SessionUser{ID: "admin-1"}, models.RoleAdmin)
	if d.Outcome != guard.RedirectUnauthorized {
		t.Errorf("expected RedirectUnauthorized on lookup error, got %v", d.Outcome)
	}
}

func newSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("guard-test-session-key-0123456789abcdef", "s", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

func TestRequire_DeniedSessionIsSignedOut(t *testing.T) {
	sm := newSessions(t)
	g := guard.New(&fakeRoles{roles: map[string]models.Role{"m": models.RoleMember}}, zap.NewNop())

	reached := false
	h := g.Require(sm, nil, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := auth.WithTestUser(httptest.NewRequest("GET", "/admin", nil), &auth.SessionUser{ID: "m"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if reached {
		t.Error("dashboard handler must not run for a denied session")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != guard.UnauthorizedURL {
		t.Errorf("location: got %q, want %q", loc, guard.UnauthorizedURL)
	}
}

func TestRequire_NoUserRedirectsToLogin(t *testing.T) {
	sm := newSessions(t)
	roles := &fakeRoles{}
	g := guard.New(roles, zap.NewNop())

	h := g.Require(sm, nil, models.RoleUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/user", nil))

	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("location: got %q, want /login", loc)
	}
	if roles.calls != 0 {
		t.Error("role lookup must not run without an identity")
	}
}

func TestRequire_FirstEntryWritesLoginAudit(t *testing.T) {
	sm := newSessions(t)
	g := guard.New(&fakeRoles{roles: map[string]models.Role{"a": models.RoleAdmin}}, zap.NewNop())
	store := &memAppender{}
	audit := auditlog.New(store, zap.NewNop(), auditlog.ModeDB, nil)

	h := g.Require(sm, audit, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/admin", nil), &auth.SessionUser{ID: "a", Email: "admin@gym.com"})
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Second request carries the session cookie with the entered flag.
	req2 := auth.WithTestUser(httptest.NewRequest("GET", "/admin", nil), &auth.SessionUser{ID: "a", Email: "admin@gym.com"})
	for _, c := range rec.Result().Cookies() {
		req2.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req2)

	if len(store.entries) != 1 {
		t.Fatalf("expected exactly one login entry, got %d", len(store.entries))
	}
	if store.entries[0].Action != auditlog.AdminLogin {
		t.Errorf("action: got %q", store.entries[0].Action)
	}
	if store.entries[0].Details["email"] != "admin@gym.com" {
		t.Errorf("details: got %v", store.entries[0].Details)
	}
}
