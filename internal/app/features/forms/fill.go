// internal/app/features/forms/fill.go
package forms

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	substore "github.com/kartsforkids/pitlane/internal/app/store/submissions"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type kidOption struct {
	ID   string
	Name string
}

type fillData struct {
	viewdata.BaseVM
	Form    models.Form
	Kids    []kidOption
	Answers map[string]string
	KidID   string
	Error   string
}

// ServeFill handles GET /forms/{id}/fill. Parents pick which of their
// kids the response is about; other roles can submit without one.
func (h *Handler) ServeFill(w http.ResponseWriter, r *http.Request) {
	form, ok := h.loadOpenForm(w, r)
	if !ok {
		return
	}

	data := fillData{
		BaseVM:  viewdata.NewBaseVM(r, form.Title, "/forms/open"),
		Form:    *form,
		Answers: map[string]string{},
	}
	if !h.loadKidOptions(w, r, &data) {
		return
	}

	templates.Render(w, r, "form_fill", data)
}

// HandleSubmit handles POST /forms/{id}/submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	form, ok := h.loadOpenForm(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse fill form failed", err, "Invalid form data.", "/forms/open")
		return
	}

	answers := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		if field.Type == models.FieldCheckbox {
			// Unchecked boxes post nothing; record an explicit false.
			if r.FormValue(field.Key) == "" {
				answers[field.Key] = "false"
			} else {
				answers[field.Key] = "true"
			}
			continue
		}
		answers[field.Key] = r.FormValue(field.Key)
	}

	var kidID *primitive.ObjectID
	kidHex := r.FormValue("kid_id")
	if kidHex != "" {
		kid, perr := primitive.ObjectIDFromHex(kidHex)
		if perr != nil {
			h.ErrLog.LogBadRequest(w, r, "bad kid id", perr, "That kid record does not exist.", "/forms/open")
			return
		}
		kidID = &kid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sub, err := h.Submissions.Submit(ctx, form, uid, kidID, answers)
	if err != nil {
		switch {
		case stderrors.Is(err, substore.ErrFormNotOpen):
			h.ErrLog.LogBadRequest(w, r, "form not open", err, "This form is no longer accepting responses.", "/forms/open")
		case stderrors.Is(err, substore.ErrMissingAnswer), stderrors.Is(err, substore.ErrBadAnswer):
			data := fillData{
				BaseVM:  viewdata.NewBaseVM(r, form.Title, "/forms/open"),
				Form:    *form,
				Answers: answers,
				KidID:   kidHex,
				Error:   err.Error(),
			}
			if !h.loadKidOptions(w, r, &data) {
				return
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			templates.Render(w, r, "form_fill", data)
		default:
			h.ErrLog.LogServerError(w, r, "submit form failed", err, "A server error occurred.", "/forms/open")
		}
		return
	}

	details := map[string]string{"form": form.Title}
	h.AuditLog.AdminAction(ctx, r, audit.EventFormSubmitted, uid, nil, sub.KidID, details)

	templates.Render(w, r, "form_submitted", fillData{
		BaseVM: viewdata.NewBaseVM(r, "Response received", "/dashboard"),
		Form:   *form,
	})
}

// loadOpenForm parses {id} and loads the form, writing the error page
// on failure.
func (h *Handler) loadOpenForm(w http.ResponseWriter, r *http.Request) (*models.Form, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms/open")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	form, err := h.Forms.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "form not found", err, "That form does not exist.", "/forms/open")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load form failed", err, "A server error occurred.", "/forms/open")
		return nil, false
	}
	return form, true
}

// loadKidOptions fills the kid dropdown for parents. Reports false if
// it already wrote an error response.
func (h *Handler) loadKidOptions(w http.ResponseWriter, r *http.Request, data *fillData) bool {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok || role != models.RoleParent {
		return true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	kids, err := h.Kids.ListByParent(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list kids failed", err, "A server error occurred.", "/dashboard")
		return false
	}
	for _, k := range kids {
		data.Kids = append(data.Kids, kidOption{ID: k.ID.Hex(), Name: k.FirstName + " " + k.LastName})
	}
	return true
}
