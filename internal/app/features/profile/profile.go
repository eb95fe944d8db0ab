// internal/app/features/profile/profile.go
package profile

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"

	credstore "github.com/kartsforkids/pitlane/internal/app/store/credentials"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type kidLink struct {
	ID   string
	Name string
}

type profileData struct {
	viewdata.BaseVM
	User    models.User
	Kids    []kidLink // parents only
	Errors  map[string]string
	Error   string
	Changed bool
	Saved   bool
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	h.renderProfile(w, r, profileData{
		Changed: r.URL.Query().Get("changed") == "1",
		Saved:   r.URL.Query().Get("saved") == "1",
	})
}

// HandleUpdateProfile handles POST /profile. Email is fixed; the role is
// carried over from the stored record so it cannot be self-assigned.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse profile form failed", err, "Invalid form data.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A server error occurred.", "/dashboard")
		return
	}

	err = h.Users.Update(ctx, uid, userstore.Update{
		DisplayName: r.FormValue("display_name"),
		FullName:    r.FormValue("full_name"),
		Phone:       r.FormValue("phone"),
		Role:        u.Role,
	})
	if err != nil {
		var verr *userstore.ValidationError
		if stderrors.As(err, &verr) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderProfile(w, r, profileData{Errors: verr.Fields})
			return
		}
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "A server error occurred.", "/profile")
		return
	}

	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

// HandleChangePassword handles POST /profile/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse password form failed", err, "Invalid form data.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A server error occurred.", "/dashboard")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if next != r.FormValue("confirm_password") {
		h.renderProfileError(w, r, "New passwords do not match.")
		return
	}

	err = h.Credentials.ChangePassword(ctx, u.Email, current, next)
	switch {
	case err == nil:
		h.AuditLog.PasswordChanged(ctx, r, uid, u.Email)
		http.Redirect(w, r, "/profile?changed=1", http.StatusSeeOther)
	case stderrors.Is(err, credstore.ErrWrongPassword), stderrors.Is(err, credstore.ErrNotFound):
		h.renderProfileError(w, r, "Your current password is incorrect.")
	case stderrors.Is(err, credstore.ErrWeakPassword):
		h.renderProfileError(w, r, "New password must be at least 8 characters.")
	default:
		h.ErrLog.LogServerError(w, r, "change password failed", err, "A server error occurred.", "/profile")
	}
}

func (h *Handler) renderProfileError(w http.ResponseWriter, r *http.Request, msg string) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	h.renderProfile(w, r, profileData{Error: msg})
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, data profileData) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err == mongo.ErrNoDocuments {
		http.Redirect(w, r, "/logout", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data.BaseVM = viewdata.NewBaseVM(r, "My profile", "/dashboard")
	data.User = *u

	if role == models.RoleParent {
		kids, err := h.Kids.ListByParent(ctx, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list kids failed", err, "A server error occurred.", "/dashboard")
			return
		}
		for _, k := range kids {
			data.Kids = append(data.Kids, kidLink{ID: k.ID.Hex(), Name: k.FirstName + " " + k.LastName})
		}
	}

	templates.Render(w, r, "profile", data)
}
