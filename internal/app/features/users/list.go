// internal/app/features/users/list.go
package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"

	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type userRow struct {
	ID        string
	FullName  string
	Email     string
	Role      string
	Status    string
	LastLogin string
}

type listData struct {
	viewdata.BaseVM
	Search string
	Role   string
	Status string
	Roles  []string
	Rows   []userRow
}

// ServeList handles GET /users with name search plus role and status
// filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	role := r.URL.Query().Get("role")
	status := r.URL.Query().Get("status")

	filter := userstore.ListFilter{Search: search}
	if models.ValidRole(role) {
		filter.Role = role
	}
	if status == models.StatusActive || status == models.StatusDisabled {
		filter.Status = status
	}

	usersList, err := h.Users.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/dashboard"),
		Search: search,
		Role:   filter.Role,
		Status: filter.Status,
		Roles:  models.Roles,
	}
	for _, u := range usersList {
		row := userRow{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			Email:    u.Email,
			Role:     u.Role,
			Status:   u.Status,
		}
		if u.LastLoginAt != nil {
			row.LastLogin = u.LastLoginAt.Format(time.DateTime)
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "users_list", data)
}
