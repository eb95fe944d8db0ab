// internal/app/features/dashboard/host.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type eventSummary struct {
	ID       string
	Name     string
	Date     string
	Location string
}

type hostData struct {
	viewdata.BaseVM
	Events []eventSummary
}

// ServeHost renders the host landing page: the race events they host.
func (h *Handler) ServeHost(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := hostData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	}

	events, err := h.Events.ListByHost(ctx, uid)
	if err != nil {
		h.Log.Warn("dashboard: list host events failed", zap.Error(err))
	}
	for _, e := range events {
		data.Events = append(data.Events, eventSummary{
			ID:       e.ID.Hex(),
			Name:     e.Name,
			Date:     e.Date.Format(time.DateOnly),
			Location: e.Location,
		})
	}

	templates.Render(w, r, "dashboard_host", data)
}
