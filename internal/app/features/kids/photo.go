// internal/app/features/kids/photo.go
package kids

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/photostore"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
)

// ServePhoto handles GET /kids/photo?t=<token>. The token binds a
// storage key to the user it was issued for, so a URL cannot be shared
// across accounts.
func (h *Handler) ServePhoto(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token := query.Get(r, "t")
	if token == "" {
		h.ErrLog.LogBadRequest(w, r, "missing photo token", nil, "That photo link is not valid.", "/dashboard")
		return
	}

	key, userID, err := h.Tokens.Verify(token)
	if err != nil || userID != u.ID {
		h.ErrLog.LogBadRequest(w, r, "photo token rejected", err, "That photo link is not valid.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Backends that can sign download URLs (S3) serve the photo
	// directly; the local backend streams through the handler.
	if signer, ok := h.Photos.(photostore.URLSigner); ok {
		signed, err := signer.PresignedURL(ctx, key, 5*time.Minute)
		if err == nil {
			http.Redirect(w, r, signed, http.StatusFound)
			return
		}
		h.Log.Warn("presign photo url failed", zap.Error(err), zap.String("key", key))
	}

	exists, err := h.Photos.Exists(ctx, key)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check photo failed", err, "A server error occurred.", "/dashboard")
		return
	}
	if !exists {
		h.ErrLog.LogNotFound(w, r, "photo missing", nil, "That photo is no longer available.", "/dashboard")
		return
	}

	rc, err := h.Photos.Get(ctx, key)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open photo failed", err, "A server error occurred.", "/dashboard")
		return
	}
	defer rc.Close()

	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("stream photo failed", zap.Error(err), zap.String("key", key))
	}
}

// HandlePhotoDelete handles POST /kids/{id}/photo/delete.
func (h *Handler) HandlePhotoDelete(w http.ResponseWriter, r *http.Request) {
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

	if kid.PhotoKey == "" {
		http.Redirect(w, r, "/kids/"+id.Hex()+"/view", http.StatusSeeOther)
		return
	}

	if err := h.Photos.Delete(ctx, kid.PhotoKey); err != nil {
		h.Log.Warn("delete photo object failed", zap.Error(err), zap.String("key", kid.PhotoKey))
	}

	if err := h.Kids.SetPhotoKey(ctx, id, ""); err != nil {
		h.ErrLog.LogServerError(w, r, "clear photo key failed", err, "A server error occurred.", "/kids")
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventPhotoDeleted, actorID, id, nil)

	http.Redirect(w, r, "/kids/"+id.Hex()+"/view", http.StatusSeeOther)
}
