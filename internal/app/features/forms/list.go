// internal/app/features/forms/list.go
package forms

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type formRow struct {
	ID          string
	Title       string
	Status      string
	FieldCount  int
	Submissions int64
	Created     string
}

type listData struct {
	viewdata.BaseVM
	Status string
	Rows   []formRow
}

// ServeList handles GET /forms with an optional status filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	status := r.URL.Query().Get("status")
	switch status {
	case models.FormDraft, models.FormOpen, models.FormClosed:
	default:
		status = ""
	}

	formsList, err := h.Forms.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list forms failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Forms", "/dashboard"),
		Status: status,
	}
	for _, f := range formsList {
		row := formRow{
			ID:         f.ID.Hex(),
			Title:      f.Title,
			Status:     f.Status,
			FieldCount: len(f.Fields),
			Created:    f.CreatedAt.Format(time.DateOnly),
		}
		if n, err := h.Submissions.CountByForm(ctx, f.ID); err == nil {
			row.Submissions = n
		}
		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "forms_list", data)
}

// ServeOpen handles GET /forms/open: the forms currently accepting
// responses, for parents.
func (h *Handler) ServeOpen(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	open, err := h.Forms.ListOpen(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list open forms failed", err, "A server error occurred.", "/dashboard")
		return
	}

	data := listData{BaseVM: viewdata.NewBaseVM(r, "Open forms", "/dashboard")}
	for _, f := range open {
		data.Rows = append(data.Rows, formRow{
			ID:         f.ID.Hex(),
			Title:      f.Title,
			Status:     f.Status,
			FieldCount: len(f.Fields),
		})
	}

	templates.Render(w, r, "forms_open", data)
}
