// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
)

// SiteName is shown in the layout header and page titles.
const SiteName = "Karts for Kids"

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
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM builds the common view model for a request.
func NewBaseVM(r *http.Request, title, backURL string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     backURL,
		CurrentPath: r.URL.Path,
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok && u != nil {
		vm.IsLoggedIn = true
		vm.Role = u.Role
		vm.UserName = u.Name
	}
	return vm
}
