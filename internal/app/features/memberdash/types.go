package memberdash

import (
	"github.com/dalemusser/fitzone/internal/app/system/views"
	"github.com/dalemusser/fitzone/internal/app/system/viewdata"
)

// DashboardData is the member dashboard view model. When the signed-in
// identity has no profile, NotFound is set and the other sections are empty.
type DashboardData struct {
	viewdata.BaseVM
	NotFound      bool
	Profile       views.Profile
	Package       views.PackageCard
	Bills         []views.BillRow
	PendingBills  int
	Notifications []views.NotificationItem
}
