// internal/app/features/vehicles/list.go
package vehicles

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var vehicleStatuses = []string{models.VehicleReady, models.VehicleMaintenance, models.VehicleRetired}

type vehicleRow struct {
	ID       string
	Number   int
	Nickname string
	Status   string
	Notes    string
}

type listData struct {
	viewdata.BaseVM
	Status   string
	Statuses []string
	Rows     []vehicleRow
}

// ServeList handles GET /vehicles with an optional status filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	status := r.URL.Query().Get("status")
	switch status {
	case models.VehicleReady, models.VehicleMaintenance, models.VehicleRetired:
	default:
		status = ""
	}

	fleet, err := h.Vehicles.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list vehicles failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, "Karts", "/dashboard"),
		Status:   status,
		Statuses: vehicleStatuses,
	}
	for _, v := range fleet {
		data.Rows = append(data.Rows, vehicleRow{
			ID:       v.ID.Hex(),
			Number:   v.Number,
			Nickname: v.Nickname,
			Status:   v.Status,
			Notes:    v.Notes,
		})
	}

	templates.Render(w, r, "vehicles_list", data)
}
