package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/fitzone/internal/app/features/health"
	"github.com/dalemusser/fitzone/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

func serve(t *testing.T, p health.Pinger) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	h := health.NewHandler(p, zap.NewNop())
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, body
}

func TestServe_DatabaseConnected(t *testing.T) {
	rec, body := serve(t, pinger{})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if body["status"] != "ok" || body["database"] != "connected" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	rec, body := serve(t, pinger{err: errors.New("no reachable servers")})

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body["status"] != "error" || body["database"] != "disconnected" {
		t.Errorf("unexpected body %v", body)
	}
	if body["error"] != "no reachable servers" {
		t.Errorf("error: got %q", body["error"])
	}
}

func TestServe_LiveMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)

	rec, _ := serve(t, db.Client())
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
