// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type homeData struct {
	viewdata.BaseVM
}

// ServeHome handles GET /. Signed-in users go straight to their dashboard.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "home", homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	})
}
