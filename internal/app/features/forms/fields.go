// internal/app/features/forms/fields.go
package forms

import (
	"strings"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// fieldsFromForm decodes the form-builder rows. The builder posts
// parallel arrays: field_key, field_label, field_type, field_required,
// field_options (comma-separated, select fields only). Rows with a
// blank key and label are skipped so trailing empty rows cost nothing.
func fieldsFromForm(values map[string][]string) []models.FormField {
	keys := values["field_key"]
	labels := values["field_label"]
	types := values["field_type"]
	required := values["field_required"]
	options := values["field_options"]

	at := func(list []string, i int) string {
		if i < len(list) {
			return list[i]
		}
		return ""
	}

	var fields []models.FormField
	for i := range keys {
		key := strings.TrimSpace(at(keys, i))
		label := strings.TrimSpace(at(labels, i))
		if key == "" && label == "" {
			continue
		}

		f := models.FormField{
			Key:      key,
			Label:    label,
			Type:     at(types, i),
			Required: at(required, i) == "true",
		}
		if f.Type == models.FieldSelect {
			for _, opt := range strings.Split(at(options, i), ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					f.Options = append(f.Options, opt)
				}
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// optionsValue renders a field's options back into the builder's
// comma-separated input format.
func optionsValue(f models.FormField) string {
	return strings.Join(f.Options, ", ")
}
