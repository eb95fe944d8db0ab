// internal/app/features/events/form.go
package events

import (
	"context"
	"time"

	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type hostOption struct {
	ID   string
	Name string
}

type formData struct {
	viewdata.BaseVM
	Event  models.Event
	Date   string // yyyy-mm-dd for the date input
	HostID string
	Hosts  []hostOption
	Error  string
	Action string
	IsEdit bool
}

func hostFilter() userstore.ListFilter {
	return userstore.ListFilter{Role: models.RoleHost, Status: models.StatusActive}
}

// loadHosts fills the host dropdown options.
func (h *Handler) loadHosts(ctx context.Context, data *formData) error {
	hosts, err := h.Users.List(ctx, hostFilter())
	if err != nil {
		return err
	}
	for _, u := range hosts {
		data.Hosts = append(data.Hosts, hostOption{ID: u.ID.Hex(), Name: u.FullName})
	}
	return nil
}

// parseEventDate accepts the yyyy-mm-dd value from a date input. A zero
// time signals a missing or malformed value; the store rejects it.
func parseEventDate(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
