// internal/app/features/users/new.go
package users

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	credstore "github.com/kartsforkids/pitlane/internal/app/store/credentials"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type formData struct {
	viewdata.BaseVM
	User   models.User
	Errors map[string]string
	Roles  []string
	Action string
	IsEdit bool
}

// ServeNew handles GET /users/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "user_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "New user", "/users"),
		Roles:  models.Roles,
		Action: "/users",
	})
}

// HandleCreate handles POST /users. The credential is written first;
// if the profile insert then fails the credential is revoked so the
// account never exists half-made.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse user form failed", err, "Invalid form data.", "/users/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u := models.User{
		DisplayName: strings.TrimSpace(r.FormValue("display_name")),
		FullName:    strings.TrimSpace(r.FormValue("full_name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		Phone:       r.FormValue("phone"),
		Role:        r.FormValue("role"),
		Status:      r.FormValue("status"),
	}
	password := r.FormValue("password")

	cred, err := h.Credentials.Create(ctx, u.Email, password)
	if err != nil {
		h.renderFormError(w, r, u, credentialFieldErrors(err), err)
		return
	}

	created, err := h.Users.Create(ctx, u)
	if err != nil {
		if _, rerr := h.Credentials.Revoke(ctx, cred.Email); rerr != nil {
			h.Log.Error("credential rollback failed", zap.Error(rerr), zap.String("email", cred.Email))
		}

		var verr *userstore.ValidationError
		switch {
		case stderrors.As(err, &verr):
			h.renderFormError(w, r, u, verr.Fields, nil)
		case stderrors.Is(err, userstore.ErrDuplicateEmail):
			h.renderFormError(w, r, u, map[string]string{"email": "a user with this email already exists"}, nil)
		default:
			h.ErrLog.LogServerError(w, r, "create user failed", err, "A server error occurred.", "/users")
		}
		return
	}

	h.AuditLog.UserChanged(ctx, r, audit.EventUserCreated, actorID, created.ID,
		map[string]string{"email": created.Email, "role": created.Role})

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// credentialFieldErrors maps credential store errors onto form fields.
func credentialFieldErrors(err error) map[string]string {
	switch {
	case stderrors.Is(err, credstore.ErrInvalidEmail):
		return map[string]string{"email": "enter a valid email address"}
	case stderrors.Is(err, credstore.ErrEmailInUse):
		return map[string]string{"email": "an account with this email already exists"}
	case stderrors.Is(err, credstore.ErrWeakPassword):
		return map[string]string{"password": "password must be at least 8 characters"}
	}
	return nil
}

// renderFormError re-renders the user form. If fields is nil the error
// is unexpected and becomes a server error page.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, u models.User, fields map[string]string, err error) {
	if fields == nil {
		h.ErrLog.LogServerError(w, r, "save user failed", err, "A server error occurred.", "/users")
		return
	}

	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "user_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "New user", "/users"),
		User:   u,
		Errors: fields,
		Roles:  models.Roles,
		Action: "/users",
	})
}
