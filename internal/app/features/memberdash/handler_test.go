package memberdash_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/fitzone/internal/app/features/errors"
	"github.com/dalemusser/fitzone/internal/app/features/memberdash"
	"github.com/dalemusser/fitzone/internal/app/system/auditlog"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/dalemusser/fitzone/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	h       *memberdash.Handler
	members *testutil.MemMembers
	bills   *testutil.MemBills
	notes   *testutil.MemNotifications
	logs    *testutil.MemLogs
	capture *viewdata.Capture
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		members: testutil.NewMemMembers(nil),
		bills:   testutil.NewMemBills(),
		notes:   testutil.NewMemNotifications(),
		logs:    testutil.NewMemLogs(),
		capture: &viewdata.Capture{},
	}
	errLog := &uierrors.ErrorLogger{Log: zap.NewNop(), Render: f.capture.Func()}
	audit := auditlog.New(f.logs, zap.NewNop(), auditlog.ModeDB, nil)
	f.h = memberdash.NewHandler(f.members, f.bills, f.notes, nil, audit, nil, errLog, zap.NewNop())
	f.h.Render = f.capture.Func()
	f.h.Now = func() time.Time { return time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) member(t *testing.T, name, email string) models.Member {
	t.Helper()
	m, err := f.members.Create(context.Background(), models.Member{Name: name, Email: email, Phone: "555", Package: models.PackagePremium})
	if err != nil {
		t.Fatalf("Create member: %v", err)
	}
	return m
}

func (f *fixture) bill(t *testing.T, m models.Member, created time.Time) models.Bill {
	t.Helper()
	b, err := f.bills.Create(context.Background(), models.Bill{MemberID: m.ID, Package: m.Package, Amount: 3000, CreatedAt: created})
	if err != nil {
		t.Fatalf("Create bill: %v", err)
	}
	return b
}

func (f *fixture) dashboard(t *testing.T) memberdash.DashboardData {
	t.Helper()
	if f.capture.Name != "member_dashboard" {
		t.Fatalf("template: got %q, want member_dashboard", f.capture.Name)
	}
	return f.capture.Data.(memberdash.DashboardData)
}

func TestServeDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jane := f.member(t, "Jane Roe", "jane@fitzone.test")
	other := f.member(t, "Other", "other@fitzone.test")

	older := f.bill(t, jane, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := f.bill(t, jane, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	f.bill(t, other, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC))
	if _, err := f.bills.MarkPaid(ctx, older.ID, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	hidden, _ := f.notes.Create(ctx, models.Notification{Title: "Old", Message: "gone", CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)})
	_ = f.notes.SetActive(ctx, hidden.ID, false)
	_, _ = f.notes.Create(ctx, models.Notification{Title: "Holiday hours", Message: "Closed **Monday**", CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)})

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/member", testutil.NewTestUser("JANE@fitzone.test"))
	f.h.ServeDashboard(testutil.NewRecorder(), req)

	data := f.dashboard(t)
	if data.NotFound {
		t.Fatal("profile should be found case-insensitively by email")
	}
	if data.Profile.Name != "Jane Roe" {
		t.Errorf("profile name: got %q", data.Profile.Name)
	}
	if data.Package.Name != "Premium" {
		t.Errorf("package: got %q", data.Package.Name)
	}
	if len(data.Bills) != 2 {
		t.Fatalf("bills: got %d, want 2", len(data.Bills))
	}
	if data.Bills[0].ID != newer.ID.Hex() {
		t.Error("bills should be newest first")
	}
	if data.PendingBills != 1 {
		t.Errorf("pending: got %d, want 1", data.PendingBills)
	}
	if len(data.Notifications) != 1 || data.Notifications[0].Title != "Holiday hours" {
		t.Errorf("notifications: got %+v", data.Notifications)
	}
	if !strings.Contains(string(data.Notifications[0].Body), "<strong>Monday</strong>") {
		t.Errorf("notification body not rendered: %q", data.Notifications[0].Body)
	}
}

func TestServeDashboard_NoProfile(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/member", testutil.NewTestUser("nobody@fitzone.test"))
	f.h.ServeDashboard(testutil.NewRecorder(), req)

	if data := f.dashboard(t); !data.NotFound {
		t.Error("expected the not-found state")
	}
}

func TestServeReceipt(t *testing.T) {
	f := newFixture(t)
	jane := f.member(t, "Jane Roe", "jane@fitzone.test")
	b := f.bill(t, jane, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	user := testutil.NewTestUser("jane@fitzone.test")

	rec := testutil.NewRecorder()
	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/member/bills/x/receipt", user), "id", b.ID.Hex())
	f.h.ServeReceipt(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "FITZONE GYM - PAYMENT RECEIPT")
	rec.AssertContains(t, "Name: Jane Roe")
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=receipt_"+b.ID.Hex()+".txt" {
		t.Errorf("Content-Disposition: got %q", got)
	}
	e, ok := f.logs.Find(auditlog.ReceiptDownloaded)
	if !ok || e.UserID != user.ID || e.Details["bill_id"] != b.ID.Hex() {
		t.Errorf("expected RECEIPT_DOWNLOADED entry, got %+v", e)
	}
}

func TestServeReceipt_OtherMembersBill(t *testing.T) {
	f := newFixture(t)
	f.member(t, "Jane Roe", "jane@fitzone.test")
	other := f.member(t, "Other", "other@fitzone.test")
	b := f.bill(t, other, time.Now())

	rec := testutil.NewRecorder()
	req := testutil.WithChiURLParam(
		testutil.NewAuthenticatedRequest(http.MethodGet, "/member/bills/x/receipt", testutil.NewTestUser("jane@fitzone.test")),
		"id", b.ID.Hex())
	f.h.ServeReceipt(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
	if len(f.logs.Actions()) != 0 {
		t.Errorf("no audit entry expected, got %v", f.logs.Actions())
	}
}
