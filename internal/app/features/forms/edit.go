// internal/app/features/forms/edit.go
package forms

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	formstore "github.com/kartsforkids/pitlane/internal/app/store/forms"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeEdit handles GET /forms/{id}/edit. Field rows are locked once
// the form has been opened; submissions are keyed to the field set.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	form, err := h.Forms.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "form not found", err, "That form does not exist.", "/forms")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load form failed", err, "A server error occurred.", "/forms")
		return
	}

	templates.Render(w, r, "form_builder", builderData{
		BaseVM:     viewdata.NewBaseVM(r, "Edit form", "/forms"),
		Form:       *form,
		Rows:       builderRows(form.Fields),
		FieldTypes: fieldTypes,
		Action:     "/forms/" + id.Hex() + "/edit",
		IsEdit:     true,
		Editable:   form.Status == models.FormDraft,
	})
}

// HandleEdit handles POST /forms/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form builder failed", err, "Invalid form data.", "/forms")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	title := strings.TrimSpace(r.FormValue("title"))
	description := r.FormValue("description")
	fields := fieldsFromForm(r.PostForm)

	err = h.Forms.Update(ctx, id, title, description, fields)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "form not found", err, "That form does not exist.", "/forms")
		return
	}
	if err != nil {
		f := models.Form{ID: id, Title: title, Description: description, Fields: fields}
		h.renderBuilderError(w, r, f, "/forms/"+id.Hex()+"/edit", true, true, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventFormUpdated, actorID, nil, nil,
		map[string]string{"form": title})

	http.Redirect(w, r, "/forms", http.StatusSeeOther)
}

// HandleStatus handles POST /forms/{id}/status: draft→open, open→closed,
// closed→open.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/forms")
		return
	}
	next := r.FormValue("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Forms.SetStatus(ctx, id, next)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "form not found", err, "That form does not exist.", "/forms")
		return
	}
	if stderrors.Is(err, formstore.ErrBadTransition) {
		h.ErrLog.LogBadRequest(w, r, "bad form transition", err, "That status change is not allowed.", "/forms")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "set form status failed", err, "A server error occurred.", "/forms")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventFormUpdated, actorID, nil, nil,
		map[string]string{"status": next})

	http.Redirect(w, r, "/forms", http.StatusSeeOther)
}

// HandleDelete handles POST /forms/{id}/delete. Only drafts can be
// deleted; anything opened keeps its submission history.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Forms.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete form failed", err, "A server error occurred.", "/forms")
		return
	}
	if deleted == 0 {
		h.ErrLog.LogBadRequest(w, r, "form not deletable", nil, "Only draft forms can be deleted.", "/forms")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventFormDeleted, actorID, nil, nil,
		map[string]string{"form_id": id.Hex()})

	http.Redirect(w, r, "/forms", http.StatusSeeOther)
}
