// internal/app/features/admin/types.go
package admin

import (
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
	"github.com/dalemusser/fitzone/internal/app/system/views"
)

// DashboardData is the /admin overview.
type DashboardData struct {
	viewdata.BaseVM
	Stats    views.Stats
	Activity []views.ActivityRow
}

// MembersData is the members table plus the add form.
type MembersData struct {
	viewdata.BaseVM
	Query     string
	NoMatches bool
	Members   []views.MemberRow
	Packages  []views.PackageChoice
}

// MemberEditData is the edit form for one member.
type MemberEditData struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Email       string
	Phone       string
	DateOfBirth string
	Package     string
	Status      string
	Photo       string
	Packages    []views.PackageChoice
	Statuses    []string
}

// BillsData is the bills table plus the create form.
type BillsData struct {
	viewdata.BaseVM
	Bills          []views.BillRow
	MemberOptions  []views.MemberOption
	Packages       []views.PackageChoice
	DefaultDueDate string
}

// NotificationsData is the send form plus history.
type NotificationsData struct {
	viewdata.BaseVM
	Notifications []views.NotificationItem
	Targets       []string
}

// UsersData lists read-only user accounts.
type UsersData struct {
	viewdata.BaseVM
	Users []views.UserRow
}
