// internal/app/features/forms/submissions.go
package forms

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type answerPair struct {
	Label string
	Value string
}

type submissionRow struct {
	ID        string
	Submitter string
	Kid       string
	Status    string
	Submitted string
	Answers   []answerPair
}

type submissionsData struct {
	viewdata.BaseVM
	Form     models.Form
	Rows     []submissionRow
	Statuses []string
}

// ServeSubmissions handles GET /forms/{id}/submissions: every response
// to the form with answers shown against their field labels.
func (h *Handler) ServeSubmissions(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad form id", err, "That form does not exist.", "/forms")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	form, err := h.Forms.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "form not found", err, "That form does not exist.", "/forms")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load form failed", err, "A server error occurred.", "/forms")
		return
	}

	subs, err := h.Submissions.ListByForm(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions failed", err, "A server error occurred.", "/forms")
		return
	}

	data := submissionsData{
		BaseVM:   viewdata.NewBaseVM(r, form.Title+" responses", "/forms"),
		Form:     *form,
		Statuses: models.FormStatuses,
	}

	for _, sub := range subs {
		row := submissionRow{
			ID:        sub.ID.Hex(),
			Status:    sub.Status,
			Submitted: sub.CreatedAt.Format(time.DateTime),
		}

		if u, uerr := h.Users.GetByID(ctx, sub.UserID); uerr == nil {
			row.Submitter = u.FullName
		} else {
			row.Submitter = sub.UserID.Hex()
		}
		if sub.KidID != nil {
			if k, kerr := h.Kids.GetByID(ctx, *sub.KidID); kerr == nil {
				row.Kid = k.FirstName + " " + k.LastName
			} else {
				h.Log.Warn("submission kid lookup failed", zap.Error(kerr), zap.String("kid_id", sub.KidID.Hex()))
			}
		}

		for _, field := range form.Fields {
			if v, ok := sub.Answers[field.Key]; ok {
				row.Answers = append(row.Answers, answerPair{Label: field.Label, Value: v})
			}
		}

		data.Rows = append(data.Rows, row)
	}

	templates.Render(w, r, "form_submissions", data)
}

// HandleSubmissionStatus handles POST /forms/submissions/{sid}/status.
func (h *Handler) HandleSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	sid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sid"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad submission id", err, "That submission does not exist.", "/forms")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse status form failed", err, "Invalid form data.", "/forms")
		return
	}
	status := r.FormValue("status")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Submissions.SetStatus(ctx, sid, status)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.LogNotFound(w, r, "submission not found", err, "That submission does not exist.", "/forms")
		return
	}
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "set submission status failed", err, "Invalid submission status.", "/forms")
		return
	}

	sub, err := h.Submissions.GetByID(ctx, sid)
	if err == nil {
		http.Redirect(w, r, "/forms/"+sub.FormID.Hex()+"/submissions", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/forms", http.StatusSeeOther)
}
