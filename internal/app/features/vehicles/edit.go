// internal/app/features/vehicles/edit.go
package vehicles

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeEdit handles GET /vehicles/{id}/edit. The painted-on number is
// shown read-only.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad vehicle id", err, "That kart does not exist.", "/vehicles")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "vehicle not found", err, "That kart does not exist.", "/vehicles")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load vehicle failed", err, "A server error occurred.", "/vehicles")
		return
	}

	templates.Render(w, r, "vehicle_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, "Edit kart", "/vehicles"),
		Vehicle:  *v,
		Statuses: vehicleStatuses,
		Action:   "/vehicles/" + id.Hex() + "/edit",
		IsEdit:   true,
	})
}

// HandleEdit handles POST /vehicles/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad vehicle id", err, "That kart does not exist.", "/vehicles")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse vehicle form failed", err, "Invalid form data.", "/vehicles")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	nickname := strings.TrimSpace(r.FormValue("nickname"))
	status := r.FormValue("status")
	notes := strings.TrimSpace(r.FormValue("notes"))

	err = h.Vehicles.Update(ctx, id, nickname, status, notes)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "vehicle not found", err, "That kart does not exist.", "/vehicles")
		return
	}
	if err != nil {
		v := models.Vehicle{ID: id, Nickname: nickname, Status: status, Notes: notes}
		if cur, gerr := h.Vehicles.GetByID(ctx, id); gerr == nil {
			v.Number = cur.Number
		}
		h.renderFormError(w, r, v, "/vehicles/"+id.Hex()+"/edit", true, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventVehicleUpdated, actorID, nil, nil,
		map[string]string{"status": status})

	http.Redirect(w, r, "/vehicles", http.StatusSeeOther)
}

// HandleDelete handles POST /vehicles/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad vehicle id", err, "That kart does not exist.", "/vehicles")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	v, err := h.Vehicles.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "vehicle not found", err, "That kart does not exist.", "/vehicles")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load vehicle failed", err, "A server error occurred.", "/vehicles")
		return
	}

	if _, err := h.Vehicles.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete vehicle failed", err, "A server error occurred.", "/vehicles")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventVehicleDeleted, actorID, nil, nil,
		map[string]string{"number": strconv.Itoa(v.Number)})

	http.Redirect(w, r, "/vehicles", http.StatusSeeOther)
}
