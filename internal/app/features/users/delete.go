// internal/app/features/users/delete.go
package users

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
)

// HandleDelete handles POST /users/{id}/delete. The credential is
// revoked before the profile is removed, so the account stops signing
// in even if the second step fails. Admins cannot delete themselves.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad user id", err, "That user does not exist.", "/users")
		return
	}

	if id == actorID {
		h.ErrLog.LogBadRequest(w, r, "self-delete rejected", nil, "You cannot delete your own account.", "/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	if _, err := h.Credentials.Revoke(ctx, u.Email); err != nil {
		h.ErrLog.LogServerError(w, r, "revoke credential failed", err, "A server error occurred.", "/users")
		return
	}
	if _, err := h.Users.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "A server error occurred.", "/users")
		return
	}

	h.AuditLog.UserChanged(ctx, r, audit.EventUserDeleted, actorID, id,
		map[string]string{"email": u.Email, "role": u.Role})

	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
