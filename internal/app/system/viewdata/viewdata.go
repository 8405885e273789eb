// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/dalemusser/fitzone/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is shown until Init sets the configured gym name.
const DefaultSiteName = "FitZone Gym"

var (
	mu       sync.RWMutex
	siteName = DefaultSiteName
)

// Init sets the gym name used in page titles and receipts.
// Call this once at startup from bootstrap.
func Init(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	siteName = name
	mu.Unlock()
}

// SiteName returns the configured gym name.
func SiteName() string {
	mu.RLock()
	defer mu.RUnlock()
	return siteName
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(w, r, h.Sessions, "Page Title"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Email      string

	// Page context
	Title       string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// One-shot toasts queued by the previous request.
	Flashes []auth.Flash
}

// NewBaseVM builds the BaseVM for a page and drains pending flashes.
// sm may be nil when the page has no session (error pages in tests).
func NewBaseVM(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, title string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName(),
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.Email = u.Email
	}
	if sm != nil {
		vm.Flashes = sm.Flashes(w, r)
	}
	return vm
}

// RenderFunc renders the named template with data.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// Render is the production RenderFunc backed by the WAFFLE template engine.
func Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// Capture records the last render. Handler tests use it instead of the
// template engine.
type Capture struct {
	Name string
	Data any
}

// Func returns a RenderFunc that records into c and writes the template name.
func (c *Capture) Func() RenderFunc {
	return func(w http.ResponseWriter, _ *http.Request, name string, data any) {
		c.Name = name
		c.Data = data
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(name))
	}
}
