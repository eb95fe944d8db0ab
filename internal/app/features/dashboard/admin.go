// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type adminData struct {
	viewdata.BaseVM
	KidCount      int
	PendingKids   int
	TeamCount     int
	OpenFormCount int
	ReadyKarts    int
	UpcomingCount int
}

// ServeAdmin renders the admin landing page: program-wide counts.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := adminData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	}

	if kids, err := h.Kids.List(ctx, kidstore.ListFilter{}); err == nil {
		data.KidCount = len(kids)
		for _, k := range kids {
			if k.FormStatus == models.FormStatusPending {
				data.PendingKids++
			}
		}
	} else {
		h.Log.Warn("dashboard: list kids failed", zap.Error(err))
	}

	if teams, err := h.Teams.List(ctx, true); err == nil {
		data.TeamCount = len(teams)
	}
	if forms, err := h.Forms.ListOpen(ctx); err == nil {
		data.OpenFormCount = len(forms)
	}
	if karts, err := h.Vehicles.Ready(ctx); err == nil {
		data.ReadyKarts = len(karts)
	}
	if events, err := h.Events.Upcoming(ctx, time.Now()); err == nil {
		data.UpcomingCount = len(events)
	}

	templates.Render(w, r, "dashboard_admin", data)
}
