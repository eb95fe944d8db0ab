// internal/app/features/kids/edit.go
package kids

import (
	"context"
	"net/http"
	"strconv"

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

// ServeEdit handles GET /kids/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	data := formData{
		BaseVM:   viewdata.NewBaseVM(r, "Edit kid", "/kids"),
		Kid:      *kid,
		Statuses: models.FormStatuses,
		Action:   "/kids/" + id.Hex() + "/edit",
		IsEdit:   true,
	}
	if _, _, uid, ok := authz.UserCtx(r); ok && kid.PhotoKey != "" {
		if token, err := h.Tokens.Issue(kid.PhotoKey, uid.Hex()); err == nil {
			data.PhotoURL = "/kids/photo?t=" + token
		}
	}

	templates.Render(w, r, "kid_form", data)
}

// HandleEdit handles POST /kids/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/kids")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse kid form failed", err, "Invalid form data.", "/kids")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	kid := kidFromForm(r)
	updated, err := h.Kids.Update(ctx, id, kid)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "kid not found", err, "That kid record does not exist.", "/kids")
		return
	}
	if err != nil {
		h.renderFormError(w, r, kid, err, "/kids/"+id.Hex()+"/edit", true)
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidUpdated, actorID, id,
		map[string]string{"racer_number": strconv.Itoa(updated.RacerNumber)})

	dest := "/kids/" + id.Hex() + "/view"
	if !h.attachPhoto(ctx, r, id, actorID) {
		dest += "?photo_warn=1"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// HandleFormStatus handles POST /kids/{id}/status: move the paperwork
// status along pending/completed/needs_review/cancelled.
func (h *Handler) HandleFormStatus(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/kids")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/kids")
		return
	}
	status := r.FormValue("form_status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Kids.SetFormStatus(ctx, id, status); err != nil {
		h.ErrLog.LogBadRequest(w, r, "set form status failed", err, "Invalid paperwork status.", "/kids/"+id.Hex()+"/view")
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidUpdated, actorID, id,
		map[string]string{"form_status": status})

	http.Redirect(w, r, "/kids/"+id.Hex()+"/view", http.StatusSeeOther)
}
