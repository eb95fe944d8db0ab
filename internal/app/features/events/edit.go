// internal/app/features/events/edit.go
package events

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	eventstore "github.com/kartsforkids/pitlane/internal/app/store/events"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeEdit handles GET /events/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, "That event does not exist.", "/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "event not found", err, "That event does not exist.", "/events")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "A server error occurred.", "/events")
		return
	}

	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit event", "/events"),
		Event:  *event,
		Date:   event.Date.Format(time.DateOnly),
		Action: "/events/" + id.Hex() + "/edit",
		IsEdit: true,
	}
	if event.HostID != nil {
		data.HostID = event.HostID.Hex()
	}
	if err := h.loadHosts(ctx, &data); err != nil {
		h.ErrLog.LogServerError(w, r, "list hosts failed", err, "A server error occurred.", "/events")
		return
	}

	templates.Render(w, r, "event_form", data)
}

// HandleEdit handles POST /events/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, "That event does not exist.", "/events")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse event form failed", err, "Invalid form data.", "/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	upd := eventstore.Update{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Date:     parseEventDate(r.FormValue("date")),
		Location: strings.TrimSpace(r.FormValue("location")),
		Status:   r.FormValue("status"),
	}
	hostHex := r.FormValue("host_id")
	if hostHex != "" {
		if hid, perr := primitive.ObjectIDFromHex(hostHex); perr == nil {
			upd.HostID = &hid
		}
	}

	err = h.Events.Update(ctx, id, upd)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "event not found", err, "That event does not exist.", "/events")
		return
	}
	if err != nil {
		e := models.Event{ID: id, Name: upd.Name, Date: upd.Date, Location: upd.Location, HostID: upd.HostID, Status: upd.Status}
		h.renderFormError(w, r, e, hostHex, "/events/"+id.Hex()+"/edit", true, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventEventUpdated, actorID, nil, nil,
		map[string]string{"event": upd.Name})

	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

// HandleDelete handles POST /events/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, "That event does not exist.", "/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "event not found", err, "That event does not exist.", "/events")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "A server error occurred.", "/events")
		return
	}

	if _, err := h.Events.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete event failed", err, "A server error occurred.", "/events")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventEventDeleted, actorID, nil, nil,
		map[string]string{"event": event.Name})

	http.Redirect(w, r, "/events", http.StatusSeeOther)
}
