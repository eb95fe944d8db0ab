// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsInstructor reports whether the current request's user is an instructor.
func IsInstructor(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleInstructor
}

// IsParent reports whether the current request's user is a parent.
func IsParent(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleParent
}

// IsHost reports whether the current request's user is a host.
func IsHost(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleHost
}

// HasAnyRole reports whether the current user's role is one of the given
// roles. Comparison is case-insensitive on both sides.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// CanManageKids reports whether the user may create, edit, and assign kid
// records. Admins and instructors can; parents and hosts cannot.
func CanManageKids(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleInstructor)
}

// CanExportRoster reports whether the user may download roster CSVs.
func CanExportRoster(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleInstructor, models.RoleHost)
}
