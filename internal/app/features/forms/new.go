// internal/app/features/forms/new.go
package forms

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	formstore "github.com/kartsforkids/pitlane/internal/app/store/forms"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
	"github.com/kartsforkids/pitlane/internal/app/system/timeouts"
	"github.com/kartsforkids/pitlane/internal/app/system/viewdata"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// fieldRow is one builder row shown in the form editor.
type fieldRow struct {
	Key      string
	Label    string
	Type     string
	Required bool
	Options  string
}

type builderData struct {
	viewdata.BaseVM
	Form       models.Form
	Rows       []fieldRow
	FieldTypes []string
	Error      string
	Action     string
	IsEdit     bool
	Editable   bool // field rows are only editable while the form is a draft
}

var fieldTypes = []string{
	models.FieldText,
	models.FieldTextarea,
	models.FieldCheckbox,
	models.FieldSelect,
	models.FieldDate,
}

func builderRows(fields []models.FormField) []fieldRow {
	rows := make([]fieldRow, 0, len(fields)+3)
	for _, f := range fields {
		rows = append(rows, fieldRow{
			Key:      f.Key,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  optionsValue(f),
		})
	}
	// A few blank rows so new questions can be added without scripting.
	for len(rows) < len(fields)+3 {
		rows = append(rows, fieldRow{Type: models.FieldText})
	}
	return rows
}

// ServeNew handles GET /forms/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "form_builder", builderData{
		BaseVM:     viewdata.NewBaseVM(r, "New form", "/forms"),
		Rows:       builderRows(nil),
		FieldTypes: fieldTypes,
		Action:     "/forms",
		Editable:   true,
	})
}

// HandleCreate handles POST /forms. New forms always start as drafts.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, _ := authz.UserCtx(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form builder failed", err, "Invalid form data.", "/forms/new")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f := models.Form{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		Fields:      fieldsFromForm(r.PostForm),
	}

	created, err := h.Forms.Create(ctx, f)
	if err != nil {
		h.renderBuilderError(w, r, f, "/forms", false, true, err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventFormCreated, actorID, nil, nil,
		map[string]string{"form": created.Title})

	http.Redirect(w, r, "/forms", http.StatusSeeOther)
}

// renderBuilderError re-renders the builder with a message for expected
// rejections.
func (h *Handler) renderBuilderError(w http.ResponseWriter, r *http.Request, f models.Form, action string, isEdit, editable bool, err error) {
	var msg string
	switch {
	case stderrors.Is(err, formstore.ErrTitleRequired):
		msg = "Form title is required."
	case stderrors.Is(err, formstore.ErrBadFields):
		msg = "Check the field rows: " + err.Error()
	default:
		h.ErrLog.LogServerError(w, r, "save form failed", err, "A server error occurred.", "/forms")
		return
	}

	title := "New form"
	if isEdit {
		title = "Edit form"
	}
	w.WriteHeader(http.StatusUnprocessableEntity)
	templates.Render(w, r, "form_builder", builderData{
		BaseVM:     viewdata.NewBaseVM(r, title, "/forms"),
		Form:       f,
		Rows:       builderRows(f.Fields),
		FieldTypes: fieldTypes,
		Error:      msg,
		Action:     action,
		IsEdit:     isEdit,
		Editable:   editable,
	})
}
