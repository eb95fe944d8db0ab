package formstore

import (
	"errors"
	"testing"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

func TestPrepareFields_Valid(t *testing.T) {
	fields, err := prepareFields([]models.FormField{
		{Key: " allergies ", Label: "  Allergies ", Type: models.FieldText, Options: []string{"junk"}},
		{Key: "shirt", Label: "Shirt size", Type: models.FieldSelect, Options: []string{"S", "M"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fields[0].Key != "allergies" || fields[0].Label != "Allergies" {
		t.Errorf("field not trimmed: %+v", fields[0])
	}
	if fields[0].Options != nil {
		t.Error("options should be cleared on non-select fields")
	}
	if len(fields[1].Options) != 2 {
		t.Errorf("select options lost: %+v", fields[1])
	}
}

func TestPrepareFields_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		fields []models.FormField
	}{
		{"missing key", []models.FormField{{Label: "Allergies", Type: models.FieldText}}},
		{"missing label", []models.FormField{{Key: "allergies", Type: models.FieldText}}},
		{"duplicate key", []models.FormField{
			{Key: "allergies", Label: "Allergies", Type: models.FieldText},
			{Key: "allergies", Label: "Again", Type: models.FieldText},
		}},
		{"select without options", []models.FormField{{Key: "shirt", Label: "Shirt", Type: models.FieldSelect}}},
		{"unknown type", []models.FormField{{Key: "x", Label: "X", Type: "slider"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := prepareFields(tt.fields); !errors.Is(err, ErrBadFields) {
				t.Errorf("expected ErrBadFields, got %v", err)
			}
		})
	}
}

func TestValidTransitions(t *testing.T) {
	allows := func(from, to string) bool {
		for _, next := range validTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	if !allows(models.FormDraft, models.FormOpen) {
		t.Error("draft should open")
	}
	if !allows(models.FormOpen, models.FormClosed) {
		t.Error("open should close")
	}
	if !allows(models.FormClosed, models.FormOpen) {
		t.Error("closed should reopen")
	}
	if allows(models.FormDraft, models.FormClosed) {
		t.Error("draft should not close directly")
	}
	if allows(models.FormOpen, models.FormDraft) {
		t.Error("open should not revert to draft")
	}
}
