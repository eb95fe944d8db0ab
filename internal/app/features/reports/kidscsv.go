// internal/app/features/reports/kidscsv.go
package reports

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/csvutil"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type teamOption struct {
	ID   string
	Name string
}

type reportData struct {
	viewdata.BaseVM
	Teams    []teamOption
	Statuses []string
}

// ServeKidsReport handles GET /reports/kids: the export options page.
func (h *Handler) ServeKidsReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := reportData{
		BaseVM:   viewdata.NewBaseVM(r, "Export kid roster", "/dashboard"),
		Statuses: models.FormStatuses,
	}

	teams, err := h.Teams.List(ctx, false)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list teams failed", err, "A server error occurred.", "/dashboard")
		return
	}
	for _, t := range teams {
		data.Teams = append(data.Teams, teamOption{ID: t.ID.Hex(), Name: t.Name})
	}

	templates.Render(w, r, "kids_report", data)
}

// optsFromQuery reads the export options. With no include_* parameters
// at all, every column group is included, so a bare download link still
// produces the full roster.
func optsFromQuery(r *http.Request) csvutil.ExportOptions {
	q := r.URL.Query()

	opts := csvutil.ExportOptions{
		Status: q.Get("status"),
		TeamID: q.Get("team"),
		Lang:   q.Get("lang"),
	}
	if !models.ValidFormStatus(opts.Status) {
		opts.Status = ""
	}

	if len(q["include"]) == 0 {
		opts.IncludePersonal = true
		opts.IncludeParents = true
		opts.IncludeTeam = true
		opts.IncludeInstructor = true
		opts.IncludeTimestamps = true
		return opts
	}
	for _, group := range q["include"] {
		switch group {
		case "personal":
			opts.IncludePersonal = true
		case "parents":
			opts.IncludeParents = true
		case "team":
			opts.IncludeTeam = true
		case "instructor":
			opts.IncludeInstructor = true
		case "timestamps":
			opts.IncludeTimestamps = true
		}
	}
	return opts
}

// ServeKidsCSV handles GET /reports/kids.csv: the actual download.
func (h *Handler) ServeKidsCSV(w http.ResponseWriter, r *http.Request) {
	role, _, actorID, ok := authz.UserCtx(r)
	if !ok || !authz.CanExportRoster(r) {
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
		return
	}

	opts := optsFromQuery(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	kids, err := h.Kids.List(ctx, kidstore.ListFilter{Limit: 10000})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load kids for export failed", err, "A server error occurred.", "/reports/kids")
		return
	}

	teamNames, err := h.Teams.NameMap(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load team names failed", err, "A server error occurred.", "/reports/kids")
		return
	}

	instructors, err := h.Users.Instructors(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load instructors failed", err, "A server error occurred.", "/reports/kids")
		return
	}
	instructorNames := make(map[string]string, len(instructors))
	for _, u := range instructors {
		instructorNames[u.ID.Hex()] = u.FullName
	}

	now := time.Now()
	filename := csvutil.Filename(role, opts, now)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+url.PathEscape(filename)+`"`)

	if err := csvutil.WriteKids(w, kids, teamNames, instructorNames, opts, now); err != nil {
		// Headers are already sent; just record the broken download.
		h.Log.Error("write roster csv failed", zap.Error(err))
		return
	}

	h.AuditLog.RosterExported(ctx, r, actorID, filename)
}
