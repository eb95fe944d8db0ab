// internal/app/features/vehicles/new.go
package vehicles

import (
	"context"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	vehiclestore "github.com/kartsforkids/pitlane/internal/app/store/vehicles"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type formData struct {
	viewdata.BaseVM
	Vehicle  models.Vehicle
	Statuses []string
	Error    string
	Action   string
	IsEdit   bool
}

// ServeNew handles GET /vehicles/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "vehicle_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, "New kart", "/vehicles"),
		Statuses: vehicleStatuses,
		Action:   "/vehicles",
	})
}

// HandleCreate handles POST /vehicles.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse vehicle form failed", err, "Invalid form data.", "/vehicles/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	number, _ := strconv.Atoi(r.FormValue("number"))
	v := models.Vehicle{
		Number:   number,
		Nickname: strings.TrimSpace(r.FormValue("nickname")),
		Status:   r.FormValue("status"),
		Notes:    strings.TrimSpace(r.FormValue("notes")),
	}

	created, err := h.Vehicles.Create(ctx, v)
	if err != nil {
		h.renderFormError(w, r, v, "/vehicles", false, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventVehicleCreated, actorID, nil, nil,
		map[string]string{"number": strconv.Itoa(created.Number)})

	http.Redirect(w, r, "/vehicles", http.StatusSeeOther)
}

// renderFormError re-renders the kart form with a message for expected
// rejections.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, v models.Vehicle, action string, isEdit bool, err error) {
	var msg string
	switch {
	case stderrors.Is(err, vehiclestore.ErrNumberRequired):
		msg = "Enter a kart number greater than zero."
	case stderrors.Is(err, vehiclestore.ErrDuplicateNumber):
		msg = "A kart with this number already exists."
	case stderrors.Is(err, vehiclestore.ErrBadStatus):
		msg = "Pick a valid kart status."
	default:
		h.ErrLog.LogServerError(w, r, "save vehicle failed", err, "A server error occurred.", "/vehicles")
		return
	}

	title := "New kart"
	if isEdit {
		title = "Edit kart"
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "vehicle_form", formData{
		BaseVM:   viewdata.NewBaseVM(r, title, "/vehicles"),
		Vehicle:  v,
		Statuses: vehicleStatuses,
		Error:    msg,
		Action:   action,
		IsEdit:   isEdit,
	})
}
