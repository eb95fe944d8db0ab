// internal/app/features/teams/view.go
package teams

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type rosterRow struct {
	ID          string
	RacerNumber int
	Name        string
	FormStatus  string
}

type viewData struct {
	viewdata.BaseVM
	Team           models.Team
	InstructorName string
	Roster         []rosterRow
}

// ServeView handles GET /teams/{id}/view: the team and its roster.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad team id", err, "That team does not exist.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := h.Teams.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "team not found", err, "That team does not exist.", "/teams")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load team failed", err, "A server error occurred.", "/teams")
		return
	}

	data := viewData{
		BaseVM: viewdata.NewBaseVM(r, team.Name, "/teams"),
		Team:   *team,
	}

	if team.InstructorID != nil {
		if u, err := h.Users.GetByID(ctx, *team.InstructorID); err == nil {
			data.InstructorName = u.FullName
		}
	}

	roster, err := h.Kids.List(ctx, kidstore.ListFilter{TeamID: &id})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load roster failed", err, "A server error occurred.", "/teams")
		return
	}
	for _, k := range roster {
		data.Roster = append(data.Roster, rosterRow{
			ID:          k.ID.Hex(),
			RacerNumber: k.RacerNumber,
			Name:        k.FirstName + " " + k.LastName,
			FormStatus:  k.FormStatus,
		})
	}

	templates.Render(w, r, "team_view", data)
}
