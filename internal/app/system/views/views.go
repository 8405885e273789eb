// Package views builds template view models from stored records.
// Every function here is pure: lists are loaded by the handler per request
// and passed in.
package views

import (
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// RecentMembers is how many members the admin dashboard shows.
	RecentMembers = 5

	NotAvailable  = "N/A"
	UnknownMember = "Unknown"
	NotProvided   = "Not provided"

	displayDate    = "Jan 2, 2006"
	avatarBase     = "https://ui-avatars.com/api/"
	avatarColors   = "&background=FF6B35&color=fff"
	avatarLargeArg = "&size=150"
)

// componentEscaper undoes the QueryEscape cases that encodeURIComponent
// leaves literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Avatar is the placeholder image URL for a member without a photo.
func Avatar(name string) string {
	return avatarBase + "?name=" + componentEscaper.Replace(url.QueryEscape(name)) + avatarColors
}

// AvatarLarge is Avatar at profile size.
func AvatarLarge(name string) string {
	return Avatar(name) + avatarLargeArg
}

func photoOr(m models.Member, fallback func(string) string) string {
	if m.Photo != nil && *m.Photo != "" {
		return *m.Photo
	}
	return fallback(m.Name)
}

// Date formats t for display; the zero time is "N/A".
func Date(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Format(displayDate)
}

// DatePtr is Date for optional timestamps.
func DatePtr(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}
	return Date(*t)
}

// Amount renders a rupee amount without trailing zeros: 2000 -> "₹2000".
func Amount(a float64) string {
	return "₹" + strconv.FormatFloat(a, 'f', -1, 64)
}

func statusClass(active bool) string {
	if active {
		return "status-active"
	}
	return "status-inactive"
}

// MemberRow is one line of the members table.
type MemberRow struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Package     string
	Status      string
	StatusClass string
	JoinDate    string
	Photo       string
}

func memberRow(m models.Member) MemberRow {
	dob := m.DateOfBirth
	if dob == "" {
		dob = NotAvailable
	}
	return MemberRow{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: dob,
		Package:     string(m.Package),
		Status:      m.Status,
		StatusClass: statusClass(m.IsActive()),
		JoinDate:    Date(m.JoinDate),
		Photo:       photoOr(m, Avatar),
	}
}

// MemberRows maps members to table rows, keeping order.
func MemberRows(members []models.Member) []MemberRow {
	out := make([]MemberRow, 0, len(members))
	for _, m := range members {
		out = append(out, memberRow(m))
	}
	return out
}

// MemberOption is an entry of the bill form's member select.
type MemberOption struct {
	ID    string
	Label string
}

func MemberOptions(members []models.Member) []MemberOption {
	out := make([]MemberOption, 0, len(members))
	for _, m := range members {
		out = append(out, MemberOption{ID: m.ID.Hex(), Label: m.Name + " - " + m.Email})
	}
	return out
}

// BillRow is one line of a bills table.
type BillRow struct {
	ID          string
	MemberName  string
	Package     string
	Amount      string
	DueDate     string
	Status      string
	StatusClass string
	CreatedDate string
	PaidDate    string
	IsPaid      bool
}

// MemberNames indexes member names by id for bill rows.
func MemberNames(members []models.Member) map[primitive.ObjectID]string {
	out := make(map[primitive.ObjectID]string, len(members))
	for _, m := range members {
		out[m.ID] = m.Name
	}
	return out
}

// BillRows maps bills to rows. A bill whose member is gone shows "Unknown".
func BillRows(bills []models.Bill, names map[primitive.ObjectID]string) []BillRow {
	out := make([]BillRow, 0, len(bills))
	for _, b := range bills {
		name, ok := names[b.MemberID]
		if !ok {
			name = UnknownMember
		}
		out = append(out, BillRow{
			ID:          b.ID.Hex(),
			MemberName:  name,
			Package:     string(b.Package),
			Amount:      Amount(b.Amount),
			DueDate:     DatePtr(b.DueDate),
			Status:      b.Status,
			StatusClass: "status-" + b.Status,
			CreatedDate: Date(b.CreatedAt),
			PaidDate:    DatePtr(b.PaidDate),
			IsPaid:      b.IsPaid(),
		})
	}
	return out
}

// PendingCount counts unpaid bills.
func PendingCount(bills []models.Bill) int {
	n := 0
	for _, b := range bills {
		if b.Status == models.BillPending {
			n++
		}
	}
	return n
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalMembers  int
	ActiveMembers int
	TotalBills    int
	PendingBills  int
	Recent        []MemberRow
}

// DashboardStats summarizes the loaded lists. Recent takes the first
// RecentMembers members in list order.
func DashboardStats(members []models.Member, bills []models.Bill) Stats {
	s := Stats{
		TotalMembers: len(members),
		TotalBills:   len(bills),
		PendingBills: PendingCount(bills),
	}
	for _, m := range members {
		if m.IsActive() {
			s.ActiveMembers++
		}
	}
	n := len(members)
	if n > RecentMembers {
		n = RecentMembers
	}
	s.Recent = MemberRows(members[:n])
	return s
}

// UserRow is one line of the user accounts table.
type UserRow struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Created string
}

// UserRows keeps only role=user records.
func UserRows(roles []models.UserRole) []UserRow {
	out := make([]UserRow, 0, len(roles))
	for _, ur := range roles {
		if ur.Role != models.RoleUser {
			continue
		}
		phone := NotAvailable
		if ur.Phone != nil && *ur.Phone != "" {
			phone = *ur.Phone
		}
		name := ur.Name
		if name == "" {
			name = NotAvailable
		}
		out = append(out, UserRow{
			ID:      ur.ID,
			Name:    name,
			Email:   ur.Email,
			Phone:   phone,
			Created: Date(ur.CreatedAt),
		})
	}
	return out
}

// NotificationItem is a rendered notification.
type NotificationItem struct {
	ID       string
	Title    string
	Body     template.HTML
	Target   string
	Created  string
	IsActive bool
}

func Notifications(list []models.Notification) []NotificationItem {
	out := make([]NotificationItem, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationItem{
			ID:       n.ID.Hex(),
			Title:    n.Title,
			Body:     htmlsanitize.Markdown(n.Message),
			Target:   n.TargetRole,
			Created:  Date(n.CreatedAt),
			IsActive: n.IsActive,
		})
	}
	return out
}

// Profile is the member dashboard's profile card.
type Profile struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	JoinDate    string
	Package     string
	Status      string
	StatusClass string
	Photo       string
}

func ProfileFor(m models.Member) Profile {
	dob := NotProvided
	if m.DateOfBirth != "" {
		if t, err := time.Parse("2006-01-02", m.DateOfBirth); err == nil {
			dob = t.Format(displayDate)
		} else {
			dob = m.DateOfBirth
		}
	}
	return Profile{
		ID:          m.ID.Hex(),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: dob,
		JoinDate:    Date(m.JoinDate),
		Package:     string(m.Package),
		Status:      m.Status,
		StatusClass: statusClass(m.IsActive()),
		Photo:       photoOr(m, AvatarLarge),
	}
}

// PackageCard shows a plan with its price and features. Unknown plans show
// the Basic entry.
type PackageCard struct {
	Name     string
	Price    string
	Features []string
}

func PackageCardFor(p models.Package) PackageCard {
	info := p.Info()
	return PackageCard{
		Name:     string(info.Name),
		Price:    Amount(info.Price),
		Features: info.Features,
	}
}

// PackageChoice is an option of the package select.
type PackageChoice struct {
	Value string
	Label string
}

// PackageChoices lists the plans with their prices.
func PackageChoices() []PackageChoice {
	out := make([]PackageChoice, 0, 3)
	for _, p := range models.Packages() {
		out = append(out, PackageChoice{Value: string(p), Label: string(p) + " (" + Amount(p.Price()) + ")"})
	}
	return out
}

// ActivityRow is one line of the admin dashboard's recent activity.
type ActivityRow struct {
	Action  string
	UserID  string
	When    string
	Details string
}

// ActivityRows renders entries in the given order. Details are shown as
// key=value pairs sorted by key.
func ActivityRows(entries []models.LogEntry) []ActivityRow {
	out := make([]ActivityRow, 0, len(entries))
	for _, e := range entries {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		when := NotAvailable
		if !e.Timestamp.IsZero() {
			when = e.Timestamp.Format("Jan 2, 2006 15:04")
		}
		out = append(out, ActivityRow{
			Action:  e.Action,
			UserID:  e.UserID,
			When:    when,
			Details: strings.Join(parts, ", "),
		})
	}
	return out
}
