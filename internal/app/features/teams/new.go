// internal/app/features/teams/new.go
package teams

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type instructorOption struct {
	ID   string
	Name string
}

type formData struct {
	viewdata.BaseVM
	Team         models.Team
	InstructorID string
	Instructors  []instructorOption
	Error        string
	Action       string
	IsEdit       bool
}

// ServeNew handles GET /teams/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "New team", "/teams"),
		Action: "/teams",
	}
	if err := h.loadInstructors(ctx, &data); err != nil {
		h.ErrLog.LogServerError(w, r, "list instructors failed", err, "A server error occurred.", "/teams")
		return
	}

	templates.Render(w, r, "team_form", data)
}

// HandleCreate handles POST /teams.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse team form failed", err, "Invalid form data.", "/teams/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t := models.Team{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
	}
	instructorHex := r.FormValue("instructor_id")
	if instructorHex != "" {
		if iid, err := primitive.ObjectIDFromHex(instructorHex); err == nil {
			t.InstructorID = &iid
		}
	}

	created, err := h.Teams.Create(ctx, t)
	if err != nil {
		h.renderFormError(w, r, t, instructorHex, "/teams", false, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeamCreated, actorID, nil, nil,
		map[string]string{"team": created.Name})

	http.Redirect(w, r, "/teams/"+created.ID.Hex()+"/view", http.StatusSeeOther)
}

// loadInstructors fills the instructor dropdown options.
func (h *Handler) loadInstructors(ctx context.Context, data *formData) error {
	instructors, err := h.Users.Instructors(ctx)
	if err != nil {
		return err
	}
	for _, u := range instructors {
		data.Instructors = append(data.Instructors, instructorOption{ID: u.ID.Hex(), Name: u.FullName})
	}
	return nil
}

// renderFormError re-renders the team form with a message for expected
// rejections.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, t models.Team, instructorHex, action string, isEdit bool, err error) {
	var msg string
	switch {
	case stderrors.Is(err, teamstore.ErrNameRequired):
		msg = "Team name is required."
	case stderrors.Is(err, teamstore.ErrDuplicateName):
		msg = "A team with this name already exists."
	default:
		h.ErrLog.LogServerError(w, r, "save team failed", err, "A server error occurred.", "/teams")
		return
	}

	title := "New team"
	if isEdit {
		title = "Edit team"
	}
	data := formData{
		BaseVM:       viewdata.NewBaseVM(r, title, "/teams"),
		Team:         t,
		InstructorID: instructorHex,
		Error:        msg,
		Action:       action,
		IsEdit:       isEdit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if lerr := h.loadInstructors(ctx, &data); lerr != nil {
		h.Log.Warn("list instructors failed", zap.Error(lerr))
	}

	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "team_form", data)
}
