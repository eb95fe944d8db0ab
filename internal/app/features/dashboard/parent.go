// internal/app/features/dashboard/parent.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
)

type kidSummary struct {
	ID          string
	Name        string
	RacerNumber int
	FormStatus  string
}

type openFormSummary struct {
	ID    string
	Title string
}

type parentData struct {
	viewdata.BaseVM
	Kids      []kidSummary
	OpenForms []openFormSummary
}

// ServeParent renders the parent landing page: their kids and any forms
// currently open for submission.
func (h *Handler) ServeParent(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := parentData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	}

	kids, err := h.Kids.ListByParent(ctx, uid)
	if err != nil {
		h.Log.Warn("dashboard: list parent kids failed", zap.Error(err))
	}
	for _, k := range kids {
		data.Kids = append(data.Kids, kidSummary{
			ID:          k.ID.Hex(),
			Name:        k.FirstName + " " + k.LastName,
			RacerNumber: k.RacerNumber,
			FormStatus:  k.FormStatus,
		})
	}

	if forms, err := h.Forms.ListOpen(ctx); err == nil {
		for _, f := range forms {
			data.OpenForms = append(data.OpenForms, openFormSummary{
				ID:    f.ID.Hex(),
				Title: f.Title,
			})
		}
	}

	templates.Render(w, r, "dashboard_parent", data)
}
