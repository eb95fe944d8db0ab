// internal/app/features/teams/edit.go
package teams

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeEdit handles GET /teams/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad team id", err, "That team does not exist.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit team", "/teams"),
		Team:   *team,
		Action: "/teams/" + id.Hex() + "/edit",
		IsEdit: true,
	}
	if team.InstructorID != nil {
		data.InstructorID = team.InstructorID.Hex()
	}
	if err := h.loadInstructors(ctx, &data); err != nil {
		h.ErrLog.LogServerError(w, r, "list instructors failed", err, "A server error occurred.", "/teams")
		return
	}

	templates.Render(w, r, "team_form", data)
}

// HandleEdit handles POST /teams/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad team id", err, "That team does not exist.", "/teams")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse team form failed", err, "Invalid form data.", "/teams")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upd := teamstore.Update{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
	}
	instructorHex := r.FormValue("instructor_id")
	if instructorHex != "" {
		if iid, perr := primitive.ObjectIDFromHex(instructorHex); perr == nil {
			upd.InstructorID = &iid
		}
	}

	err = h.Teams.Update(ctx, id, upd)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "team not found", err, "That team does not exist.", "/teams")
		return
	}
	if err != nil {
		t := models.Team{ID: id, Name: upd.Name, Description: upd.Description, Status: upd.Status, InstructorID: upd.InstructorID}
		h.renderFormError(w, r, t, instructorHex, "/teams/"+id.Hex()+"/edit", true, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeamUpdated, actorID, nil, nil,
		map[string]string{"team": upd.Name})

	http.Redirect(w, r, "/teams/"+id.Hex()+"/view", http.StatusSeeOther)
}

// HandleDelete handles POST /teams/{id}/delete. Kids assigned to the
// team are unassigned first so no kid points at a missing team.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

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

	if _, err := h.Kids.UnassignTeam(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "unassign kids failed", err, "A server error occurred.", "/teams")
		return
	}
	if _, err := h.Teams.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete team failed", err, "A server error occurred.", "/teams")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeamDeleted, actorID, nil, nil,
		map[string]string{"team": team.Name})

	http.Redirect(w, r, "/teams", http.StatusSeeOther)
}
