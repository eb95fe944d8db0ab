// internal/app/features/kids/assign.go
package kids

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type assignData struct {
	viewdata.BaseVM
	Kid       models.Kid
	Teams     []teamOption
	CurrentID string
}

// ServeAssign handles GET /kids/{id}/assign.
func (h *Handler) ServeAssign(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/kids")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	kid, err := h.Kids.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "kid not found", err, "That kid record does not exist.", "/kids")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load kid failed", err, "A server error occurred.", "/kids")
		return
	}

	data := assignData{
		BaseVM: viewdata.NewBaseVM(r, "Assign to team", "/kids/"+id.Hex()+"/view"),
		Kid:    *kid,
	}
	if kid.TeamID != nil {
		data.CurrentID = kid.TeamID.Hex()
	}

	teams, err := h.Teams.List(ctx, true)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list teams failed", err, "A server error occurred.", "/kids")
		return
	}
	for _, t := range teams {
		data.Teams = append(data.Teams, teamOption{ID: t.ID.Hex(), Name: t.Name})
	}

	templates.Render(w, r, "kid_assign", data)
}

// HandleAssign handles POST /kids/{id}/assign. The team's instructor is
// carried onto the kid; an empty team clears both.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/kids")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse assign form failed", err, "Invalid form data.", "/kids")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	teamHex := r.FormValue("team_id")
	details := map[string]string{}

	var teamID, instructorID *primitive.ObjectID
	if teamHex != "" {
		tid, err := primitive.ObjectIDFromHex(teamHex)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad team id", err, "That team does not exist.", "/kids/"+id.Hex()+"/assign")
			return
		}

		team, err := h.Teams.GetByID(ctx, tid)
		if err == mongo.ErrNoDocuments {
			h.ErrLog.LogNotFound(w, r, "team not found", err, "That team does not exist.", "/kids/"+id.Hex()+"/assign")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load team failed", err, "A server error occurred.", "/kids")
			return
		}

		teamID = &team.ID
		instructorID = team.InstructorID
		details["team"] = team.Name
	} else {
		details["team"] = ""
	}

	if err := h.Kids.Assign(ctx, id, teamID, instructorID); err != nil {
		if err == mongo.ErrNoDocuments {
			h.ErrLog.LogNotFound(w, r, "kid not found", err, "That kid record does not exist.", "/kids")
			return
		}
		h.ErrLog.LogServerError(w, r, "assign kid failed", err, "A server error occurred.", "/kids")
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidAssigned, actorID, id, details)

	http.Redirect(w, r, "/kids/"+id.Hex()+"/view", http.StatusSeeOther)
}
