// internal/app/features/events/new.go
package events

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	eventstore "github.com/kartsforkids/pitlane/internal/app/store/events"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// ServeNew handles GET /events/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := formData{
		BaseVM: viewdata.NewBaseVM(r, "New event", "/events"),
		Action: "/events",
	}
	if err := h.loadHosts(ctx, &data); err != nil {
		h.ErrLog.LogServerError(w, r, "list hosts failed", err, "A server error occurred.", "/events")
		return
	}

	templates.Render(w, r, "event_form", data)
}

// HandleCreate handles POST /events.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse event form failed", err, "Invalid form data.", "/events/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e := models.Event{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Date:     parseEventDate(r.FormValue("date")),
		Location: strings.TrimSpace(r.FormValue("location")),
		Status:   r.FormValue("status"),
	}
	hostHex := r.FormValue("host_id")
	if hostHex != "" {
		if hid, perr := primitive.ObjectIDFromHex(hostHex); perr == nil {
			e.HostID = &hid
		}
	}

	created, err := h.Events.Create(ctx, e)
	if err != nil {
		h.renderFormError(w, r, e, hostHex, "/events", false, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventEventCreated, actorID, nil, nil,
		map[string]string{"event": created.Name, "date": created.Date.Format(time.DateOnly)})

	http.Redirect(w, r, "/events", http.StatusSeeOther)
}

// renderFormError re-renders the event form with a message for expected
// rejections.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, e models.Event, hostHex, action string, isEdit bool, err error) {
	var msg string
	switch {
	case stderrors.Is(err, eventstore.ErrNameRequired):
		msg = "Event name is required."
	case stderrors.Is(err, eventstore.ErrDateRequired):
		msg = "Enter a valid event date."
	default:
		h.ErrLog.LogServerError(w, r, "save event failed", err, "A server error occurred.", "/events")
		return
	}

	title := "New event"
	if isEdit {
		title = "Edit event"
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, title, "/events"),
		Event:  e,
		HostID: hostHex,
		Error:  msg,
		Action: action,
		IsEdit: isEdit,
	}
	if !e.Date.IsZero() {
		data.Date = e.Date.Format(time.DateOnly)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if lerr := h.loadHosts(ctx, &data); lerr != nil {
		h.Log.Warn("list hosts failed", zap.Error(lerr))
	}

	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "event_form", data)
}
