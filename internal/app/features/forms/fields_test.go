package forms

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

func TestFieldsFromForm_DecodesRows(t *testing.T) {
	values := url.Values{
		"field_key":      {"shirt_size", "notes"},
		"field_label":    {"Shirt size", "Anything else?"},
		"field_type":     {models.FieldSelect, models.FieldTextarea},
		"field_required": {"true", "false"},
		"field_options":  {"S, M, L", ""},
	}

	got := fieldsFromForm(values)
	want := []models.FormField{
		{Key: "shirt_size", Label: "Shirt size", Type: models.FieldSelect, Required: true, Options: []string{"S", "M", "L"}},
		{Key: "notes", Label: "Anything else?", Type: models.FieldTextarea},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fieldsFromForm:\ngot:  %+v\nwant: %+v", got, want)
	}
}

func TestFieldsFromForm_SkipsBlankRows(t *testing.T) {
	values := url.Values{
		"field_key":      {"consent", "", "  "},
		"field_label":    {"Photo consent", "", ""},
		"field_type":     {models.FieldCheckbox, models.FieldText, models.FieldText},
		"field_required": {"true", "false", "false"},
		"field_options":  {"", "", ""},
	}

	got := fieldsFromForm(values)
	if len(got) != 1 {
		t.Fatalf("expected 1 field, got %d", len(got))
	}
	if got[0].Key != "consent" {
		t.Errorf("kept wrong row: %+v", got[0])
	}
}

func TestFieldsFromForm_RaggedArrays(t *testing.T) {
	// A truncated post must not panic; missing cells read as blank.
	values := url.Values{
		"field_key":   {"a", "b"},
		"field_label": {"A"},
		"field_type":  {models.FieldText},
	}

	got := fieldsFromForm(values)
	if len(got) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got))
	}
	if got[1].Label != "" || got[1].Type != "" {
		t.Errorf("missing cells should be blank: %+v", got[1])
	}
}

func TestFieldsFromForm_OptionsOnlyForSelect(t *testing.T) {
	values := url.Values{
		"field_key":      {"age"},
		"field_label":    {"Age"},
		"field_type":     {models.FieldText},
		"field_required": {"false"},
		"field_options":  {"1, 2, 3"},
	}

	got := fieldsFromForm(values)
	if len(got) != 1 {
		t.Fatalf("expected 1 field, got %d", len(got))
	}
	if got[0].Options != nil {
		t.Errorf("non-select field kept options: %v", got[0].Options)
	}
}

func TestOptionsValue_RoundTrip(t *testing.T) {
	f := models.FormField{Options: []string{"S", "M", "L"}}
	if got := optionsValue(f); got != "S, M, L" {
		t.Errorf("optionsValue: %q", got)
	}
	if got := optionsValue(models.FormField{}); got != "" {
		t.Errorf("optionsValue of empty: %q", got)
	}
}
