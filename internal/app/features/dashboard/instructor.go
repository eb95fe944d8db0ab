// internal/app/features/dashboard/instructor.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type teamSummary struct {
	ID     string
	Name   string
	Roster int64
}

type instructorData struct {
	viewdata.BaseVM
	Teams []teamSummary
}

// ServeInstructor renders the instructor landing page: their teams and
// roster sizes.
func (h *Handler) ServeInstructor(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := instructorData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	}

	teams, err := h.Teams.ListByInstructor(ctx, uid)
	if err != nil {
		h.Log.Warn("dashboard: list instructor teams failed", zap.Error(err))
	}
	for _, t := range teams {
		roster, _ := h.Kids.CountByTeam(ctx, t.ID)
		data.Teams = append(data.Teams, teamSummary{
			ID:     t.ID.Hex(),
			Name:   t.Name,
			Roster: roster,
		})
	}

	templates.Render(w, r, "dashboard_instructor", data)
}
