package inputval

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

func validKid() models.Kid {
	return models.Kid{
		RacerNumber: 7,
		FirstName:   "Noam",
		LastName:    "Levi",
		BirthDate:   "2015-06-09",
		Parent: models.ParentInfo{
			FullName: "Dana Levi",
			Email:    "dana@example.com",
			Phone:    "0501234567",
		},
	}
}

func TestValidateKid_Valid(t *testing.T) {
	errs := ValidateKid(validKid())
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateKid_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Kid)
		field  string
	}{
		{"missing racer number", func(k *models.Kid) { k.RacerNumber = 0 }, "racer_number"},
		{"missing first name", func(k *models.Kid) { k.FirstName = "" }, "first_name"},
		{"missing last name", func(k *models.Kid) { k.LastName = "  " }, "last_name"},
		{"missing birth date", func(k *models.Kid) { k.BirthDate = "" }, "birth_date"},
		{"missing parent name", func(k *models.Kid) { k.Parent.FullName = "" }, "parent_name"},
		{"missing parent email", func(k *models.Kid) { k.Parent.Email = "" }, "parent_email"},
		{"missing parent phone", func(k *models.Kid) { k.Parent.Phone = "" }, "parent_phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := validKid()
			tt.mutate(&k)
			errs := ValidateKid(k)
			if errs[tt.field] == "" {
				t.Errorf("expected error keyed by %q, got %v", tt.field, errs)
			}
		})
	}
}

// The prefix checks run before the length check; which message fires for
// doubly-malformed input is load-bearing behavior.
func TestValidateKid_PhonePrecedence(t *testing.T) {
	tests := []struct {
		phone   string
		want    string // substring the message must mention
		exclude string // substring the message must NOT mention
	}{
		{"1234567890", "must start with 05", ""},
		{"0511234567", "050, 052, 053, 054, 055, 058", "10 digits"},
		{"051123", "050, 052, 053, 054, 055, 058", "10 digits"},
		{"05012345", "10 digits", ""},
		{"0501234567", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			k := validKid()
			k.Parent.Phone = tt.phone
			got := ValidateKid(k)["parent_phone"]
			if tt.want == "" {
				if got != "" {
					t.Errorf("expected valid, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("error %q does not mention %q", got, tt.want)
			}
			if tt.exclude != "" && strings.Contains(got, tt.exclude) {
				t.Errorf("error %q must not mention %q", got, tt.exclude)
			}
		})
	}
}

func TestValidateKid_BirthDate(t *testing.T) {
	now := time.Now()

	k := validKid()
	k.BirthDate = "2030-01-01"
	if got := ValidateKid(k)["birth_date"]; !strings.Contains(got, "must be in the past") {
		t.Errorf("future date: got %q", got)
	}

	k = validKid()
	k.BirthDate = fmt.Sprintf("%04d-01-01", now.Year()-21)
	if got := ValidateKid(k)["birth_date"]; !strings.Contains(got, "under 20") {
		t.Errorf("21-year-old: got %q", got)
	}

	k = validKid()
	k.BirthDate = "garbage"
	if got := ValidateKid(k)["birth_date"]; got == "" {
		t.Error("unparseable date accepted")
	}

	// Ten years old is comfortably inside the program age band.
	k = validKid()
	k.BirthDate = fmt.Sprintf("%04d-01-01", now.Year()-10)
	if got := ValidateKid(k)["birth_date"]; got != "" {
		t.Errorf("10-year-old rejected: %q", got)
	}
}

func TestBirthDateError_AgeBoundaryAdjustment(t *testing.T) {
	// Fixed "today" so the month/day adjustment is deterministic.
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		born  string
		valid bool
	}{
		// Turned 20 already this year: age 20, allowed.
		{"twenty with birthday passed", "2006-03-01", true},
		// Turns 21 later this year: still 20 today, allowed.
		{"twenty until december", "2005-12-31", true},
		// Turned 21 earlier this year: rejected.
		{"twenty-one with birthday passed", "2005-03-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := birthDateError(tt.born, now)
			if tt.valid && got != "" {
				t.Errorf("expected valid, got %q", got)
			}
			if !tt.valid && got == "" {
				t.Error("expected age error, got none")
			}
		})
	}
}

func TestValidateKid_MaxLengths(t *testing.T) {
	long := strings.Repeat("x", 2000)

	tests := []struct {
		name   string
		mutate func(*models.Kid)
		field  string
	}{
		{"address", func(k *models.Kid) { k.Address = long }, "address"},
		{"capability notes", func(k *models.Kid) { k.CapabilityNotes = long }, "capability_notes"},
		{"announcer notes", func(k *models.Kid) { k.AnnouncerNotes = long }, "announcer_notes"},
		{"parent comments", func(k *models.Kid) { k.Comments.Parent = long }, "comments_parent"},
		{"org comments", func(k *models.Kid) { k.Comments.Organization = long }, "comments_organization"},
		{"team leader comments", func(k *models.Kid) { k.Comments.TeamLeader = long }, "comments_team_leader"},
		{"family contact comments", func(k *models.Kid) { k.Comments.FamilyContact = long }, "comments_family_contact"},
		{"first name", func(k *models.Kid) { k.FirstName = long }, "first_name"},
		{"parent name", func(k *models.Kid) { k.Parent.FullName = long }, "parent_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := validKid()
			tt.mutate(&k)
			if errs := ValidateKid(k); errs[tt.field] == "" {
				t.Errorf("expected %q length error", tt.field)
			}
		})
	}
}

func TestValidateKid_SecondParent(t *testing.T) {
	// Entirely blank second parent: no errors from its fields.
	k := validKid()
	k.SecondParent = &models.ParentInfo{}
	if errs := ValidateKid(k); len(errs) != 0 {
		t.Errorf("blank second parent produced errors: %v", errs)
	}

	// A populated second parent is checked.
	k = validKid()
	k.SecondParent = &models.ParentInfo{FullName: "Yossi Levi", Phone: "0511234567"}
	if errs := ValidateKid(k); errs["second_parent_phone"] == "" {
		t.Error("bad second parent phone accepted")
	}
}

func TestValidateKid_ParentRefsCap(t *testing.T) {
	k := validKid()
	k.ParentIDs = []string{"p1", "p2", "p3"}
	if errs := ValidateKid(k); errs["parent_ids"] == "" {
		t.Error("three parent refs accepted")
	}
}

func TestValidateKid_FormStatus(t *testing.T) {
	k := validKid()
	k.FormStatus = "archived"
	if errs := ValidateKid(k); errs["form_status"] == "" {
		t.Error("unknown form status accepted")
	}

	for _, s := range models.FormStatuses {
		k := validKid()
		k.FormStatus = s
		if errs := ValidateKid(k); errs["form_status"] != "" {
			t.Errorf("status %q rejected: %q", s, errs["form_status"])
		}
	}
}

func TestValidateKidField(t *testing.T) {
	if msg := ValidateKidField("parent_phone", "1234567890"); !strings.Contains(msg, "must start with 05") {
		t.Errorf("got %q", msg)
	}
	if msg := ValidateKidField("parent_phone", "0501234567"); msg != "" {
		t.Errorf("valid phone rejected: %q", msg)
	}
	if msg := ValidateKidField("grandparent_phone", ""); msg != "" {
		t.Errorf("empty optional phone rejected: %q", msg)
	}
	if msg := ValidateKidField("birth_date", "2030-01-01"); !strings.Contains(msg, "past") {
		t.Errorf("got %q", msg)
	}
}
