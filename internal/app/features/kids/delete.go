// internal/app/features/kids/delete.go
package kids

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
)

// HandleDelete handles POST /kids/{id}/delete. The stored photo goes
// with the record.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad kid id", err, "That kid record does not exist.", "/kids")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	if _, err := h.Kids.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete kid failed", err, "A server error occurred.", "/kids")
		return
	}

	if kid.PhotoKey != "" {
		if err := h.Photos.Delete(ctx, kid.PhotoKey); err != nil {
			h.Log.Warn("delete kid photo failed", zap.Error(err), zap.String("key", kid.PhotoKey))
		}
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidDeleted, actorID, id,
		map[string]string{"name": kid.FirstName + " " + kid.LastName})

	http.Redirect(w, r, "/kids", http.StatusSeeOther)
}
