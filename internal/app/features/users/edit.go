// internal/app/features/users/edit.go
package users

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
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeEdit handles GET /users/{id}/edit. Email is shown read-only.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "That user does not exist.", "/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "user not found", err, "That user does not exist.", "/users")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A server error occurred.", "/users")
		return
	}

	templates.Render(w, r, "user_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit user", "/users"),
		User:   *u,
		Roles:  models.Roles,
		Action: "/users/" + id.Hex() + "/edit",
		IsEdit: true,
	})
}

// HandleEdit handles POST /users/{id}/edit. The stored email never
// changes here.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "That user does not exist.", "/users")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse user form failed", err, "Invalid form data.", "/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upd := userstore.Update{
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		FullName:    strings.TrimSpace(r.FormValue("full_name")),
		Phone:       r.FormValue("phone"),
		Role:        r.FormValue("role"),
		Status:      r.FormValue("status"),
	}

	err = h.Users.Update(ctx, id, upd)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "user not found", err, "That user does not exist.", "/users")
		return
	}
	if err != nil {
		var verr *userstore.ValidationError
		if !stderrors.As(err, &verr) {
			h.ErrLog.LogServerError(w, r, "update user failed", err, "A server error occurred.", "/users")
			return
		}

		current, gerr := h.Users.GetByID(ctx, id)
		if gerr != nil {
			h.ErrLog.LogServerError(w, r, "load user failed", gerr, "A server error occurred.", "/users")
			return
		}
		shown := *current
		shown.DisplayName = upd.DisplayName
		shown.FullName = upd.FullName
		shown.Phone = upd.Phone
		shown.Role = upd.Role
		shown.Status = upd.Status

		w.WriteHeader(http.StatusUnprocessableEntity)
		templates.Render(w, r, "user_form", formData{
			BaseVM: viewdata.NewBaseVM(r, "Edit user", "/users"),
			User:   shown,
			Errors: verr.Fields,
			Roles:  models.Roles,
			Action: "/users/" + id.Hex() + "/edit",
			IsEdit: true,
		})
		return
	}

	h.AuditLog.UserChanged(ctx, r, audit.EventUserUpdated, actorID, id,
		map[string]string{"role": upd.Role, "status": upd.Status})

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
