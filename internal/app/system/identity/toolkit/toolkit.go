// Package toolkit is an identity provider that talks to the Identity Toolkit
// REST API (the backend behind Firebase email/password auth).
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultEndpoint is the public Identity Toolkit v1 base URL.
const DefaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// AdminScopes are requested when deletes run with service credentials.
var AdminScopes = []string{
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/cloud-platform",
}

// tokenTTL bounds how long a fresh sign-up's id token is kept for
// self-deletion when no admin credentials are configured.
const tokenTTL = 10 * time.Minute

type Config struct {
	Endpoint string
	APIKey   string
	// HTTP is used for API-key calls. Defaults to a client with a 15s timeout.
	HTTP *http.Client
	// Admin, when set, authorizes deletes of any account by localId.
	Admin *http.Client
}

type Client struct {
	endpoint string
	key      string
	http     *http.Client
	admin    *http.Client

	mu     sync.Mutex
	recent map[string]recentToken
	now    func() time.Time
}

type recentToken struct {
	idToken string
	at      time.Time
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("toolkit: api key is required")
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	hc := cfg.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		endpoint: endpoint,
		key:      cfg.APIKey,
		http:     hc,
		admin:    cfg.Admin,
		recent:   make(map[string]recentToken),
		now:      time.Now,
	}, nil
}

// AdminClient wraps a token source in an authorized HTTP client.
func AdminClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	return oauth2.NewClient(ctx, ts)
}

// DefaultAdminClient uses Application Default Credentials.
func DefaultAdminClient(ctx context.Context) (*http.Client, error) {
	ts, err := google.DefaultTokenSource(ctx, AdminScopes...)
	if err != nil {
		return nil, fmt.Errorf("toolkit: default credentials: %w", err)
	}
	return AdminClient(ctx, ts), nil
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	var out authResponse
	err := c.post(ctx, c.http, "accounts:signUp", true, credentialsRequest{
		Email:             identity.NormalizeEmail(email),
		Password:          password,
		ReturnSecureToken: true,
	}, &out)
	if err != nil {
		return identity.Identity{}, err
	}
	c.remember(out.LocalID, out.IDToken)
	return identity.Identity{ID: out.LocalID, Email: out.Email}, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	var out authResponse
	err := c.post(ctx, c.http, "accounts:signInWithPassword", true, credentialsRequest{
		Email:             identity.NormalizeEmail(email),
		Password:          password,
		ReturnSecureToken: true,
	}, &out)
	if err != nil {
		return identity.Identity{}, err
	}
	return identity.Identity{ID: out.LocalID, Email: out.Email}, nil
}

// Delete removes an account. With admin credentials any account can be
// deleted; without them only accounts created by this process in the last
// few minutes can, using the id token returned at sign-up.
func (c *Client) Delete(ctx context.Context, id string) error {
	if c.admin != nil {
		err := c.post(ctx, c.admin, "accounts:delete", false, map[string]string{"localId": id}, nil)
		if err == nil {
			c.forget(id)
		}
		return err
	}

	tok, ok := c.token(id)
	if !ok {
		return fmt.Errorf("toolkit: deleting %s requires admin credentials", id)
	}
	err := c.post(ctx, c.http, "accounts:delete", true, map[string]string{"idToken": tok}, nil)
	if err == nil {
		c.forget(id)
	}
	return err
}

func (c *Client) post(ctx context.Context, hc *http.Client, method string, withKey bool, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	u := c.endpoint + "/" + method
	if withKey {
		u += "?key=" + url.QueryEscape(c.key)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("toolkit: %s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("toolkit: %s: read body: %w", method, err)
	}

	if resp.StatusCode >= 300 {
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Error.Message != "" {
			return identity.FromCode(er.Error.Message, resp.Status)
		}
		return fmt.Errorf("toolkit: %s: unexpected status %s", method, resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("toolkit: %s: decode: %w", method, err)
	}
	return nil
}

func (c *Client) remember(id, tok string) {
	if id == "" || tok == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, v := range c.recent {
		if now.Sub(v.at) > tokenTTL {
			delete(c.recent, k)
		}
	}
	c.recent[id] = recentToken{idToken: tok, at: now}
}

func (c *Client) token(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.recent[id]
	if !ok || c.now().Sub(v.at) > tokenTTL {
		return "", false
	}
	return v.idToken, true
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.recent, id)
	c.mu.Unlock()
}
