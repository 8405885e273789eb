// Package ratelimit throttles repeated sign-in attempts per client address
// and per email.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts hits per key in fixed windows. Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	hits   map[string]*window
	limit  int
	period time.Duration
	now    func() time.Time
	swept  time.Time
}

type window struct {
	count   int
	expires time.Time
}

// New allows limit hits per key within each period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		hits:   make(map[string]*window),
		limit:  limit,
		period: period,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.hits[key]
	if !ok || !now.Before(w.expires) {
		l.hits[key] = &window{count: 1, expires: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.hits, key)
	l.mu.Unlock()
}

// sweep drops expired windows at most once per period. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.period {
		return
	}
	for k, w := range l.hits {
		if !now.Before(w.expires) {
			delete(l.hits, k)
		}
	}
	l.swept = now
}

// ClientIP returns the request's client address. chi's RealIP middleware
// has already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Messages shown when a sign-in attempt is throttled.
const (
	MsgTooManyFromAddress = "Too many sign-in attempts. Please wait a minute and try again."
	MsgTooManyForAccount  = "Too many sign-in attempts for this account. Please wait a few minutes."
)

// LoginLimiter guards the sign-in form.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewLoginLimiter allows 10 attempts per address per minute and 5 per
// email per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		byIP:    New(10, time.Minute),
		byEmail: New(5, 5*time.Minute),
	}
}

// NewLoginLimiterWith builds a LoginLimiter from explicit limiters.
func NewLoginLimiterWith(byIP, byEmail *Limiter) *LoginLimiter {
	return &LoginLimiter{byIP: byIP, byEmail: byEmail}
}

// Check records an attempt. It returns "" when allowed, otherwise the
// message to show.
func (ll *LoginLimiter) Check(r *http.Request, email string) string {
	if !ll.byIP.Allow(ClientIP(r)) {
		return MsgTooManyFromAddress
	}
	if key := emailKey(email); key != "" && !ll.byEmail.Allow(key) {
		return MsgTooManyForAccount
	}
	return ""
}

// Succeeded clears the email's counter after a good sign-in.
func (ll *LoginLimiter) Succeeded(email string) {
	if key := emailKey(email); key != "" {
		ll.byEmail.Reset(key)
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
