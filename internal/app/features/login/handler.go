// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/kartsforkids/pitlane/internal/app/features/errors"
	credstore "github.com/kartsforkids/pitlane/internal/app/store/credentials"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type Handler struct {
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
	Users         *userstore.Store
	Credentials   *credstore.Store
	GoogleEnabled bool
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, googleEnabled bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		ErrLog:        errLog,
		AuditLog:      audit,
		Users:         userstore.New(db),
		Credentials:   credstore.New(db),
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

// HandleLoginPost handles POST /login: verify the password against the
// credentials collection, then load the profile and create the session.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cred, err := h.Credentials.Verify(ctx, email, password)
	switch {
	case errors.Is(err, credstore.ErrNotFound):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.renderFormWithError(w, r, "No account found for that email.", email)
		return
	case errors.Is(err, credstore.ErrWrongPassword):
		if u, lookupErr := h.Users.GetByEmail(ctx, email); lookupErr == nil {
			h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		}
		h.renderFormWithError(w, r, "Incorrect password. Please try again.", email)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "verify credentials failed", err, "A server error occurred.", "/login")
		return
	}

	u, err := h.Users.GetByEmail(ctx, cred.Email)
	if err != nil {
		// Credential exists without a profile; treat as no account.
		h.Log.Warn("credential without matching user profile", zap.String("email", cred.Email), zap.Error(err))
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.renderFormWithError(w, r, "No account found for that email.", email)
		return
	}

	if u.Status == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		h.renderFormWithError(w, r, "Your account is currently disabled. Please contact an administrator.", email)
		return
	}

	if err := h.Users.StampLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("stamp last login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	err = auth.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.DisplayName,
		Email: u.Email,
		Role:  u.Role,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.", "/login")
		return
	}

	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, u.Email)

	dest := urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}
