// internal/app/features/teams/list.go
package teams

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type teamRow struct {
	ID         string
	Name       string
	Instructor string
	Status     string
	KidCount   int64
}

type listData struct {
	viewdata.BaseVM
	Rows []teamRow
}

// ServeList handles GET /teams.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	teamsList, err := h.Teams.List(ctx, false)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list teams failed", err, "A server error occurred.", "/dashboard")
		return
	}

	instructors, err := h.Users.Instructors(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list instructors failed", err, "A server error occurred.", "/dashboard")
		return
	}
	names := make(map[string]string, len(instructors))
	for _, u := range instructors {
		names[u.ID.Hex()] = u.FullName
	}

	data := listData{BaseVM: viewdata.NewBaseVM(r, "Teams", "/dashboard")}
	for _, t := range teamsList {
		row := teamRow{
			ID:     t.ID.Hex(),
			Name:   t.Name,
			Status: t.Status,
		}
		if t.InstructorID != nil {
			row.Instructor = names[t.InstructorID.Hex()]
		}
		if n, err := h.Kids.CountByTeam(ctx, t.ID); err == nil {
			row.KidCount = n
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "teams_list", data)
}
