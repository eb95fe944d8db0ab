// internal/app/features/kids/new.go
package kids

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type formData struct {
	viewdata.BaseVM
	Kid      models.Kid
	Errors   map[string]string
	Error    string
	Statuses []string
	Action   string
	IsEdit   bool
	PhotoURL string
}

// ServeNew handles GET /kids/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "kid_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, "Register a kid", "/kids"),
		Statuses: models.FormStatuses,
		Action:   "/kids",
	})
}

// HandleCreate handles POST /kids. The record is created first; a photo
// upload failure never loses the registration.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse kid form failed", err, "Invalid form data.", "/kids/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	kid := kidFromForm(r)
	created, err := h.Kids.Create(ctx, kid)
	if err != nil {
		h.renderFormError(w, r, kid, err, "/kids", false)
		return
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventKidCreated, actorID, created.ID,
		map[string]string{"racer_number": strconv.Itoa(created.RacerNumber)})

	dest := "/kids/" + created.ID.Hex() + "/view"
	if !h.attachPhoto(ctx, r, created.ID, actorID) {
		dest += "?photo_warn=1"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// attachPhoto stores an uploaded photo if one was posted. Upload
// problems are logged and skipped; the kid record always survives.
// Returns false when a photo was posted but could not be saved, so
// the caller can warn the user on the next page.
func (h *Handler) attachPhoto(ctx context.Context, r *http.Request, kidID, actorID primitive.ObjectID) bool {
	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return true
	}
	if err != nil {
		h.Log.Warn("photo upload skipped", zap.Error(err), zap.String("kid_id", kidID.Hex()))
		return false
	}
	defer file.Close()

	key, err := h.Photos.Put(ctx, kidID.Hex(), header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		h.Log.Warn("photo store failed", zap.Error(err), zap.String("kid_id", kidID.Hex()))
		return false
	}

	if err := h.Kids.SetPhotoKey(ctx, kidID, key); err != nil {
		h.Log.Warn("photo key save failed", zap.Error(err), zap.String("kid_id", kidID.Hex()))
		return false
	}

	h.AuditLog.KidChanged(ctx, r, audit.EventPhotoUploaded, actorID, kidID,
		map[string]string{"filename": header.Filename})
	return true
}

// renderFormError re-renders the registration form with field errors.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, kid models.Kid, err error, action string, isEdit bool) {
	title := "Register a kid"
	if isEdit {
		title = "Edit kid"
	}
	data := formData{
		BaseVM:   viewdata.NewBaseVM(r, title, "/kids"),
		Kid:      kid,
		Statuses: models.FormStatuses,
		Action:   action,
		IsEdit:   isEdit,
	}

	var verr *kidstore.ValidationError
	switch {
	case errors.As(err, &verr):
		data.Errors = verr.Fields
	case errors.Is(err, kidstore.ErrDuplicateRacerNumber):
		data.Errors = map[string]string{"racer_number": "this racer number is already taken"}
	default:
		h.ErrLog.LogServerError(w, r, "save kid failed", err, "A server error occurred.", "/kids")
		return
	}

	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "kid_form", data)
}
