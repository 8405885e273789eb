package views_test

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAvatar_Deterministic(t *testing.T) {
	want := "https://ui-avatars.com/api/?name=John%20Smith&background=FF6B35&color=fff"
	assert.Equal(t, want, views.Avatar("John Smith"))
	assert.Equal(t, views.Avatar("John Smith"), views.Avatar("John Smith"))
	assert.Equal(t, want+"&size=150", views.AvatarLarge("John Smith"))

	// Characters that would break the query string are escaped.
	assert.Contains(t, views.Avatar("A&B=C"), "name=A%26B%3DC&")
	// Same literals as encodeURIComponent.
	assert.Contains(t, views.Avatar("O'Brien (Jr)!*"), "name=O'Brien%20(Jr)!*&")
	assert.Contains(t, views.Avatar("Zoë"), "name=Zo%C3%AB&")
}

func TestMemberRows_PhotoFallback(t *testing.T) {
	photo := "https://cdn.example.com/ann.jpg"
	rows := views.MemberRows([]models.Member{
		{ID: primitive.NewObjectID(), Name: "Ann", Photo: &photo, Status: models.MemberActive},
		{ID: primitive.NewObjectID(), Name: "Bob", Status: models.MemberInactive},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, photo, rows[0].Photo)
	assert.Equal(t, views.Avatar("Bob"), rows[1].Photo)
	assert.Equal(t, "status-active", rows[0].StatusClass)
	assert.Equal(t, "status-inactive", rows[1].StatusClass)
	assert.Equal(t, views.NotAvailable, rows[1].DateOfBirth)
	assert.Equal(t, views.NotAvailable, rows[1].JoinDate)
}

func TestBillRows_UnknownMemberAndMissingDates(t *testing.T) {
	known := models.Member{ID: primitive.NewObjectID(), Name: "John Smith"}
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{ID: primitive.NewObjectID(), MemberID: known.ID, Package: models.PackageStandard, Amount: 2000, Status: models.BillPending, CreatedAt: created},
		{ID: primitive.NewObjectID(), MemberID: primitive.NewObjectID(), Package: models.PackageBasic, Amount: 999.5, Status: models.BillPaid},
	}

	rows := views.BillRows(bills, views.MemberNames([]models.Member{known}))
	require.Len(t, rows, 2)
	assert.Equal(t, "John Smith", rows[0].MemberName)
	assert.Equal(t, "₹2000", rows[0].Amount)
	assert.Equal(t, "May 1, 2026", rows[0].CreatedDate)
	assert.Equal(t, views.NotAvailable, rows[0].DueDate)
	assert.False(t, rows[0].IsPaid)

	assert.Equal(t, views.UnknownMember, rows[1].MemberName)
	assert.Equal(t, "₹999.5", rows[1].Amount)
	assert.Equal(t, views.NotAvailable, rows[1].PaidDate)
	assert.True(t, rows[1].IsPaid)
}

func TestDashboardStats(t *testing.T) {
	var members []models.Member
	for i := 0; i < 7; i++ {
		status := models.MemberActive
		if i%3 == 0 {
			status = models.MemberInactive
		}
		members = append(members, models.Member{ID: primitive.NewObjectID(), Name: string(rune('A' + i)), Status: status})
	}
	bills := []models.Bill{
		{Status: models.BillPending}, {Status: models.BillPaid}, {Status: models.BillPending},
	}

	s := views.DashboardStats(members, bills)
	assert.Equal(t, 7, s.TotalMembers)
	assert.Equal(t, 4, s.ActiveMembers)
	assert.Equal(t, 3, s.TotalBills)
	assert.Equal(t, 2, s.PendingBills)
	require.Len(t, s.Recent, views.RecentMembers)
	assert.Equal(t, "A", s.Recent[0].Name)

	empty := views.DashboardStats(nil, nil)
	assert.Equal(t, 0, empty.TotalMembers)
	assert.Empty(t, empty.Recent)
}

func TestUserRows_OnlyUsers(t *testing.T) {
	phone := "555"
	rows := views.UserRows([]models.UserRole{
		{ID: "a", Email: "admin@x.com", Role: models.RoleAdmin},
		{ID: "u", Email: "desk@x.com", Role: models.RoleUser, Name: "Desk", Phone: &phone},
		{ID: "m", Email: "m@x.com", Role: models.RoleMember},
		{ID: "v", Email: "v@x.com", Role: models.RoleUser},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "Desk", rows[0].Name)
	assert.Equal(t, "555", rows[0].Phone)
	assert.Equal(t, views.NotAvailable, rows[1].Phone)
}

func TestProfileFor(t *testing.T) {
	p := views.ProfileFor(models.Member{Name: "John Smith", Status: models.MemberActive})
	assert.Equal(t, views.NotProvided, p.DateOfBirth)
	assert.Equal(t, views.AvatarLarge("John Smith"), p.Photo)

	p = views.ProfileFor(models.Member{Name: "John", DateOfBirth: "1990-04-12"})
	assert.Equal(t, "Apr 12, 1990", p.DateOfBirth)
}

func TestPackageCardFor(t *testing.T) {
	card := views.PackageCardFor(models.PackagePremium)
	assert.Equal(t, "Premium", card.Name)
	assert.Equal(t, "₹3000", card.Price)
	assert.Contains(t, card.Features, "Priority booking")

	fallback := views.PackageCardFor("Platinum")
	assert.Equal(t, "Basic", fallback.Name)
	assert.Equal(t, "₹1000", fallback.Price)
}

func TestNotifications_RendersMarkdown(t *testing.T) {
	items := views.Notifications([]models.Notification{
		{ID: primitive.NewObjectID(), Title: "Holiday", Message: "Closed **Monday**", IsActive: true},
	})
	require.Len(t, items, 1)
	assert.True(t, strings.Contains(string(items[0].Body), "<strong>Monday</strong>"))
}

func TestMemberOptions(t *testing.T) {
	opts := views.MemberOptions([]models.Member{{ID: primitive.NewObjectID(), Name: "John Smith", Email: "john@x.com"}})
	require.Len(t, opts, 1)
	assert.Equal(t, "John Smith - john@x.com", opts[0].Label)
}

func TestActivityRows(t *testing.T) {
	rows := views.ActivityRows([]models.LogEntry{
		{
			Action:    "BILL_PAID",
			UserID:    "admin-1",
			Timestamp: time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC),
			Details:   map[string]any{"bill_id": "b1", "amount": 2000},
		},
		{Action: "ADMIN_LOGIN"},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "amount=2000, bill_id=b1", rows[0].Details)
	assert.Equal(t, "May 1, 2026 14:30", rows[0].When)
	assert.Equal(t, "", rows[1].Details)
	assert.Equal(t, views.NotAvailable, rows[1].When)
}
