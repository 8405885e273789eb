package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/ratelimit"
	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLimiter_WindowExpires(t *testing.T) {
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	l := ratelimit.New(2, time.Minute).WithClock(c.now)

	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	assert.True(t, l.Allow("other"))

	c.t = c.t.Add(time.Minute)
	assert.True(t, l.Allow("k"))
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Hour)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
	l.Reset("k")
	assert.True(t, l.Allow("k"))
}

func TestLoginLimiter(t *testing.T) {
	ll := ratelimit.NewLoginLimiterWith(ratelimit.New(3, time.Hour), ratelimit.New(1, time.Hour))

	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "10.0.0.1:5000"

	assert.Equal(t, "", ll.Check(r, "Jane@X.com"))
	assert.Equal(t, ratelimit.MsgTooManyForAccount, ll.Check(r, " jane@x.com"))

	ll.Succeeded("jane@x.com")
	assert.Equal(t, "", ll.Check(r, "jane@x.com"))

	assert.Equal(t, ratelimit.MsgTooManyFromAddress, ll.Check(r, "someone@x.com"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.9:443"
	assert.Equal(t, "192.168.1.9", ratelimit.ClientIP(r))

	r.RemoteAddr = "192.168.1.9"
	assert.Equal(t, "192.168.1.9", ratelimit.ClientIP(r))
}
