package auth

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	identityIDKey = "identity_id"
	emailKey      = "email"
	enteredKey    = "entered"
)

func init() {
	gob.Register(Flash{})
}

// SessionUser is the signed-in identity. The role is never cached in the
// session; it is looked up on every gated request.
type SessionUser struct {
	ID    string
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context. Tests use it to bypass
// the cookie round trip.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store and the session-backed helpers.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie store. sessionKey signs the cookie and
// must be at least 32 bytes. In production (secure=true) cookies are Secure
// and SameSite=Lax; in dev over http://localhost secure must be false.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, errors.New("session key is empty; provide >= 32 random chars")
	}
	if len(sessionKey) < 32 {
		return nil, fmt.Errorf("session key is %d bytes; at least 32 required", len(sessionKey))
	}
	if name == "" {
		name = "fitzone-session"
	}

	cs := sessions.NewCookieStore([]byte(sessionKey))
	cs.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: cs, name: name, log: logger}, nil
}

// session loads the cookie session. A cookie signed with an old key is
// treated as no session at all.
func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Debug("discarding undecodable session cookie", zap.Error(err))
		} else {
			sm.log.Warn("session load failed", zap.Error(err))
		}
	}
	return sess
}

// LoadSessionUser injects the signed-in identity into the request context.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		if id := getString(sess, identityIDKey); id != "" {
			r = WithTestUser(r, &SessionUser{ID: id, Email: getString(sess, emailKey)})
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn starts a fresh session for u.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess := sm.session(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Values[identityIDKey] = u.ID
	sess.Values[emailKey] = u.Email
	return sess.Save(r, w)
}

// SignOut clears the identity but keeps pending flashes, so the next page
// can still explain why the user landed there.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := sm.session(r)
	delete(sess.Values, identityIDKey)
	delete(sess.Values, emailKey)
	delete(sess.Values, enteredKey)
	return sess.Save(r, w)
}

// FirstEntry reports whether this is the first time the session has passed
// the dashboard gate, and marks it entered.
func (sm *SessionManager) FirstEntry(w http.ResponseWriter, r *http.Request) bool {
	sess := sm.session(r)
	if done, _ := sess.Values[enteredKey].(bool); done {
		return false
	}
	sess.Values[enteredKey] = true
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("session save failed", zap.Error(err))
	}
	return true
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		RedirectToLogin(w, r, "/login?return="+url.QueryEscape(r.URL.RequestURI()))
	})
}

// RedirectToLogin sends the client to dest using the HTMX, HTML or API
// convention for the request.
func RedirectToLogin(w http.ResponseWriter, r *http.Request, dest string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// helpers

func getString(s *sessions.Session, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	accept := r.Header.Get("Accept")
	return accept == "" || strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}
