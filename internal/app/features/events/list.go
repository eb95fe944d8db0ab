// internal/app/features/events/list.go
package events

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type eventRow struct {
	ID       string
	Name     string
	Date     string
	Location string
	Host     string
	Status   string
	Past     bool
}

type listData struct {
	viewdata.BaseVM
	Rows []eventRow
}

// ServeList handles GET /events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	eventsList, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, "A server error occurred.", "/dashboard")
		return
	}

	hostNames, err := h.hostNames(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list hosts failed", err, "A server error occurred.", "/dashboard")
		return
	}

	now := time.Now()
	data := listData{BaseVM: viewdata.NewBaseVM(r, "Events", "/dashboard")}
	for _, e := range eventsList {
		row := eventRow{
			ID:       e.ID.Hex(),
			Name:     e.Name,
			Date:     e.Date.Format(time.DateOnly),
			Location: e.Location,
			Status:   e.Status,
			Past:     e.Date.Before(now),
		}
		if e.HostID != nil {
			row.Host = hostNames[e.HostID.Hex()]
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "events_list", data)
}

// hostNames returns active host display names keyed by ObjectID hex.
func (h *Handler) hostNames(ctx context.Context) (map[string]string, error) {
	hosts, err := h.Users.List(ctx, hostFilter())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(hosts))
	for _, u := range hosts {
		names[u.ID.Hex()] = u.FullName
	}
	return names, nil
}
