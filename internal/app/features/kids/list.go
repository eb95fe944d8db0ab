// internal/app/features/kids/list.go
package kids

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"

	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type kidRow struct {
	ID          string
	RacerNumber int
	Name        string
	BirthDate   string
	Team        string
	FormStatus  string
	Signed      bool
}

type teamOption struct {
	ID   string
	Name string
}

type listData struct {
	viewdata.BaseVM
	Search     string
	FormStatus string
	TeamID     string
	Teams      []teamOption
	Rows       []kidRow
	Shown      int
}

// ServeList handles GET /kids with search, paperwork-status, and team
// filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	teamHex := strings.TrimSpace(r.URL.Query().Get("team"))

	filter := kidstore.ListFilter{Search: search}
	if models.ValidFormStatus(status) {
		filter.FormStatus = status
	}
	if teamHex != "" {
		if tid, err := primitive.ObjectIDFromHex(teamHex); err == nil {
			filter.TeamID = &tid
		}
	}

	kidsList, err := h.Kids.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list kids failed", err, "A server error occurred.", "/dashboard")
		return
	}

	teamNames, err := h.Teams.NameMap(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load team names failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Kids", "/dashboard"),
		Search:     search,
		FormStatus: filter.FormStatus,
		TeamID:     teamHex,
	}

	teams, err := h.Teams.List(ctx, true)
	if err == nil {
		for _, t := range teams {
			data.Teams = append(data.Teams, teamOption{ID: t.ID.Hex(), Name: t.Name})
		}
	}

	for _, k := range kidsList {
		team := ""
		if k.TeamID != nil {
			team = teamNames[k.TeamID.Hex()]
		}
		data.Rows = append(data.Rows, kidRow{
			ID:          k.ID.Hex(),
			RacerNumber: k.RacerNumber,
			Name:        k.FirstName + " " + k.LastName,
			BirthDate:   k.BirthDate,
			Team:        team,
			FormStatus:  k.FormStatus,
			Signed:      k.DeclarationSigned,
		})
	}
	data.Shown = len(data.Rows)

	templates.Render(w, r, "kids_list", data)
}
