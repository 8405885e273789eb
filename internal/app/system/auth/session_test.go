package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// carry copies the cookies set on rec onto a new request.
func carry(rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewSessionManager_ShortKey(t *testing.T) {
	if _, err := auth.NewSessionManager("short", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %q", location)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin/members.csv", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/member", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestSignIn_LoadSessionUser_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(rec, req, auth.SessionUser{ID: "uid-1", Email: "john@x.com"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), carry(rec, httptest.NewRequest("GET", "/member", nil)))

	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.ID != "uid-1" || got.Email != "john@x.com" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestSignOut_ClearsIdentity(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{ID: "uid-1"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	out := httptest.NewRecorder()
	if err := sm.SignOut(out, carry(rec, httptest.NewRequest("GET", "/logout", nil))); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	var ok bool
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = auth.CurrentUser(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), carry(out, httptest.NewRequest("GET", "/admin", nil)))
	if ok {
		t.Error("expected no user after sign out")
	}
}

func TestLoadSessionUser_IgnoresForeignCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})

	called := false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for undecodable cookie")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("expected next handler to run")
	}
}

func TestFirstEntry_OncePerSession(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{ID: "uid"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	first := httptest.NewRecorder()
	if !sm.FirstEntry(first, carry(rec, httptest.NewRequest("GET", "/admin", nil))) {
		t.Error("expected first entry")
	}
	if sm.FirstEntry(httptest.NewRecorder(), carry(first, httptest.NewRequest("GET", "/admin", nil))) {
		t.Error("expected second entry to report false")
	}
}

func TestFlashes_DrainOnce(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/admin/members", nil)
	sm.AddFlash(rec, req, auth.FlashSuccess, "Member added successfully")

	drain := httptest.NewRecorder()
	flashes := sm.Flashes(drain, carry(rec, httptest.NewRequest("GET", "/admin", nil)))
	if len(flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(flashes))
	}
	if flashes[0].Kind != auth.FlashSuccess || flashes[0].Message != "Member added successfully" {
		t.Errorf("unexpected flash: %+v", flashes[0])
	}

	if again := sm.Flashes(httptest.NewRecorder(), carry(drain, httptest.NewRequest("GET", "/admin", nil))); len(again) != 0 {
		t.Errorf("expected flashes to be drained, got %d", len(again))
	}
}

func TestCurrentUser_WithTestUser(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{ID: "x", Email: "x@y.z"})
	u, ok := auth.CurrentUser(req)
	if !ok || u.ID != "x" {
		t.Errorf("expected test user, got %+v ok=%v", u, ok)
	}

	if _, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no user")
	}
}
