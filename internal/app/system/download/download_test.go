package download_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/fitzone/internal/app/system/download"
	"github.com/dalemusser/fitzone/internal/app/system/export"
)

func TestSend(t *testing.T) {
	rec := httptest.NewRecorder()
	err := download.Send(rec, "members_2026-05-01.csv", export.ContentTypeCSV, []byte("Name\nJohn\n"))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=members_2026-05-01.csv` {
		t.Errorf("Content-Disposition: got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != export.ContentTypeCSV {
		t.Errorf("Content-Type: got %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "10" {
		t.Errorf("Content-Length: got %q", got)
	}
	if rec.Body.String() != "Name\nJohn\n" {
		t.Errorf("body: got %q", rec.Body.String())
	}
}
