package userdash_test

import (
	"context"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/fitzone/internal/app/features/errors"
	"github.com/dalemusser/fitzone/internal/app/features/userdash"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/dalemusser/fitzone/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*userdash.Handler, *viewdata.Capture, *testutil.MemLogs) {
	t.Helper()
	members := testutil.NewMemMembers(nil)
	for _, m := range []models.Member{
		{Name: "John Smith", Email: "john@x.com", Phone: "9876543210"},
		{Name: "Priya Shah", Email: "priya@x.com", Phone: "9123456780"},
	} {
		if _, err := members.Create(context.Background(), m); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	capture := &viewdata.Capture{}
	logs := testutil.NewMemLogs()
	audit := auditlog.New(logs, zap.NewNop(), auditlog.ModeDB, nil)
	errLog := &uierrors.ErrorLogger{Log: zap.NewNop(), Render: capture.Func()}
	h := userdash.NewHandler(members, nil, audit, nil, errLog, zap.NewNop())
	h.Render = capture.Func()
	return h, capture, logs
}

func search(t *testing.T, h *userdash.Handler, capture *viewdata.Capture, target string) userdash.SearchData {
	t.Helper()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.NewTestUser("viewer@x.com"))
	h.ServeSearch(testutil.NewRecorder(), req)
	if capture.Name != "user_dashboard" {
		t.Fatalf("template: got %q", capture.Name)
	}
	return capture.Data.(userdash.SearchData)
}

func TestServeSearch_EmptyTermAsksForOne(t *testing.T) {
	h, capture, logs := setup(t)

	data := search(t, h, capture, "/user?q=%20%20")
	if !data.NeedsTerm {
		t.Error("expected the enter-a-term state")
	}
	if len(data.Results) != 0 {
		t.Errorf("no results expected, got %d", len(data.Results))
	}
	if len(logs.Actions()) != 0 {
		t.Error("an empty search is not audited")
	}
}

func TestServeSearch_CaseInsensitive(t *testing.T) {
	h, capture, logs := setup(t)

	data := search(t, h, capture, "/user?q=SMITH")
	if len(data.Results) != 1 || data.Results[0].Name != "John Smith" {
		t.Fatalf("results: got %+v", data.Results)
	}

	e, ok := logs.Find(auditlog.MemberSearch)
	if !ok {
		t.Fatal("expected MEMBER_SEARCH entry")
	}
	if e.Details["search_term"] != "smith" || e.Details["results_count"] != 1 {
		t.Errorf("details: got %v", e.Details)
	}
}

func TestServeSearch_ByPhoneAndNoMatches(t *testing.T) {
	h, capture, _ := setup(t)

	if data := search(t, h, capture, "/user?q=91234"); len(data.Results) != 1 || data.Results[0].Email != "priya@x.com" {
		t.Errorf("phone search: got %+v", data.Results)
	}
	if data := search(t, h, capture, "/user?q=zzz"); !data.NoMatches {
		t.Error("expected the no-matches state")
	}
}
