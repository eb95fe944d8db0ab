// internal/app/features/kids/view.go
package kids

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type viewData struct {
	viewdata.BaseVM
	Kid            models.Kid
	TeamName       string
	InstructorName string
	PhotoURL       string
	PhotoWarn      bool
	CanManage      bool
}

// ServeView handles GET /kids/{id}/view. Staff can see every kid;
// parents only their own.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

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

	canManage := authz.CanManageKids(r)
	if !canManage && !isParentOf(kid, uid) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, kid.FirstName+" "+kid.LastName, "/kids"),
		Kid:       *kid,
		PhotoWarn: r.URL.Query().Get("photo_warn") == "1",
		CanManage: canManage,
	}

	if kid.TeamID != nil {
		if t, err := h.Teams.GetByID(ctx, *kid.TeamID); err == nil {
			data.TeamName = t.Name
		}
	}
	if kid.InstructorID != nil {
		if u, err := h.Users.GetByID(ctx, *kid.InstructorID); err == nil {
			data.InstructorName = u.FullName
		}
	}

	if kid.PhotoKey != "" {
		token, err := h.Tokens.Issue(kid.PhotoKey, uid.Hex())
		if err != nil {
			h.Log.Warn("issue photo token failed", zap.Error(err), zap.String("kid_id", kid.ID.Hex()))
		} else {
			data.PhotoURL = "/kids/photo?t=" + token
		}
	}

	templates.Render(w, r, "kid_view", data)
}

// isParentOf reports whether the user id appears in the kid's parent
// references (including the legacy singular field).
func isParentOf(kid *models.Kid, uid primitive.ObjectID) bool {
	hex := uid.Hex()
	if kid.ParentID == hex {
		return true
	}
	for _, id := range kid.ParentIDs {
		if id == hex {
			return true
		}
	}
	return false
}
