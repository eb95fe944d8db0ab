// internal/app/features/kids/family.go
package kids

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// Parents may correct their own contact details and leave a parent
// comment. Everything else on the kid record is staff-only.

type familyData struct {
	viewdata.BaseVM
	Kid    models.Kid
	Errors map[string]string
}

// ServeFamily handles GET /kids/{id}/family.
func (h *Handler) ServeFamily(w http.ResponseWriter, r *http.Request) {
	kid, ok := h.loadOwnKid(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "kid_family", familyData{
		BaseVM: viewdata.NewBaseVM(r, "Family details", "/kids/"+kid.ID.Hex()+"/view"),
		Kid:    *kid,
	})
}

// HandleFamily handles POST /kids/{id}/family.
func (h *Handler) HandleFamily(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	kid, ok := h.loadOwnKid(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse family form failed", err, "Invalid form data.", "/dashboard")
		return
	}

	updated := *kid
	updated.Parent.FullName = r.FormValue("parent_name")
	updated.Parent.Email = r.FormValue("parent_email")
	updated.Parent.Phone = r.FormValue("parent_phone")
	updated.Parent.GrandparentName = r.FormValue("grandparent_name")
	updated.Parent.GrandparentPhone = r.FormValue("grandparent_phone")
	updated.Comments.Parent = r.FormValue("comment_parent")

	second := models.ParentInfo{
		FullName:         r.FormValue("second_parent_name"),
		Email:            r.FormValue("second_parent_email"),
		Phone:            r.FormValue("second_parent_phone"),
		GrandparentName:  r.FormValue("second_grandparent_name"),
		GrandparentPhone: r.FormValue("second_grandparent_phone"),
	}
	if second.Empty() {
		updated.SecondParent = nil
	} else {
		updated.SecondParent = &second
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Kids.Update(ctx, kid.ID, updated)
	if err != nil {
		var verr *kidstore.ValidationError
		if errors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			templates.Render(w, r, "kid_family", familyData{
				BaseVM: viewdata.NewBaseVM(r, "Family details", "/kids/"+kid.ID.Hex()+"/view"),
				Kid:    updated,
				Errors: verr.Fields,
			})
			return
		}
		h.ErrLog.LogServerError(w, r, "save family details failed", err, "A server error occurred.", "/dashboard")
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidUpdated, actorID, saved.ID,
		map[string]string{"scope": "family"})

	http.Redirect(w, r, "/kids/"+saved.ID.Hex()+"/view", http.StatusSeeOther)
}

// loadOwnKid loads the kid in the URL and verifies the signed-in user
// is one of its parents.
func (h *Handler) loadOwnKid(w http.ResponseWriter, r *http.Request) (*models.Kid, bool) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/dashboard")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	kid, err := h.Kids.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "kid not found", err, "That kid record does not exist.", "/dashboard")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load kid failed", err, "A server error occurred.", "/dashboard")
		return nil, false
	}

	if !isParentOf(kid, uid) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return nil, false
	}
	return kid, true
}
