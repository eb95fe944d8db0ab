// internal/app/system/inputval/kidrules.go
//
// Declarative field validation for kid records. Same shape as the user
// rules: ValidateKid returns a field-keyed error map, ValidateKidField
// evaluates one field for live feedback.
package inputval

import (
	"strings"
	"time"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// Kid field length limits.
const (
	maxKidNameLen     = 50
	maxAddressLen     = 200
	maxNotesLen       = 500
	maxParentNameLen  = 100
	maxCommentLen     = 1000
	maxRacerAge       = 20
	maxGrandparentLen = 100
	maxParentRefs     = 2 // linked parent users per kid, at most
)

// ValidateKid checks a candidate kid record and returns human-readable
// errors keyed by field name. The record is valid iff the map is empty.
func ValidateKid(k models.Kid) map[string]string {
	errs := map[string]string{}

	put := func(field, msg string) {
		if msg != "" {
			errs[field] = msg
		}
	}

	put("racer_number", racerNumberError(k.RacerNumber))
	put("first_name", kidNameError(k.FirstName, "first name"))
	put("last_name", kidNameError(k.LastName, "last name"))
	put("birth_date", birthDateError(k.BirthDate, time.Now()))

	put("parent_name", requiredMaxLenError(k.Parent.FullName, "parent name", maxParentNameLen))
	put("parent_email", emailError(k.Parent.Email))
	put("parent_phone", requiredKidPhoneError(k.Parent.Phone))

	// Optional fields: max-length only.
	put("address", maxLenError(k.Address, "address", maxAddressLen))
	put("capability_notes", maxLenError(k.CapabilityNotes, "capability notes", maxNotesLen))
	put("announcer_notes", maxLenError(k.AnnouncerNotes, "announcer notes", maxNotesLen))
	put("grandparent_name", maxLenError(k.Parent.GrandparentName, "grandparent name", maxGrandparentLen))
	put("grandparent_phone", optionalKidPhoneError(k.Parent.GrandparentPhone))

	if k.SecondParent != nil && !k.SecondParent.Empty() {
		put("second_parent_name", maxLenError(k.SecondParent.FullName, "second parent name", maxParentNameLen))
		if k.SecondParent.Email != "" {
			put("second_parent_email", emailError(k.SecondParent.Email))
		}
		put("second_parent_phone", optionalKidPhoneError(k.SecondParent.Phone))
		put("second_grandparent_name", maxLenError(k.SecondParent.GrandparentName, "grandparent name", maxGrandparentLen))
		put("second_grandparent_phone", optionalKidPhoneError(k.SecondParent.GrandparentPhone))
	}

	put("comments_parent", maxLenError(k.Comments.Parent, "parent comments", maxCommentLen))
	put("comments_organization", maxLenError(k.Comments.Organization, "organization comments", maxCommentLen))
	put("comments_team_leader", maxLenError(k.Comments.TeamLeader, "team leader comments", maxCommentLen))
	put("comments_family_contact", maxLenError(k.Comments.FamilyContact, "family contact comments", maxCommentLen))

	if len(k.ParentIDs) > maxParentRefs {
		errs["parent_ids"] = "a kid may have at most two linked parents"
	}

	if k.FormStatus != "" && !models.ValidFormStatus(k.FormStatus) {
		errs["form_status"] = "form status must be one of pending, completed, needs_review, cancelled"
	}

	return errs
}

// ValidateKidField evaluates one kid field in isolation. Returns a
// single error message, or "" when the value passes.
func ValidateKidField(field, value string) string {
	switch field {
	case "first_name":
		return kidNameError(value, "first name")
	case "last_name":
		return kidNameError(value, "last name")
	case "birth_date":
		return birthDateError(value, time.Now())
	case "parent_name":
		return requiredMaxLenError(value, "parent name", maxParentNameLen)
	case "parent_email":
		return emailError(value)
	case "parent_phone":
		return requiredKidPhoneError(value)
	case "second_parent_phone", "grandparent_phone", "second_grandparent_phone":
		return optionalKidPhoneError(value)
	case "address":
		return maxLenError(value, "address", maxAddressLen)
	case "capability_notes":
		return maxLenError(value, "capability notes", maxNotesLen)
	case "announcer_notes":
		return maxLenError(value, "announcer notes", maxNotesLen)
	}
	return ""
}

func racerNumberError(n int) string {
	if n <= 0 {
		return "racer number is required"
	}
	return ""
}

func kidNameError(raw, label string) string {
	name := normalize.Name(raw)
	if name == "" {
		return label + " is required"
	}
	if len([]rune(name)) > maxKidNameLen {
		return label + " is too long"
	}
	return ""
}

// birthDateError checks that the date parses, lies strictly in the past,
// and gives an age of at most twenty, adjusted for a birthday that has
// not yet arrived this year.
func birthDateError(raw string, now time.Time) string {
	canonical, ok := normalize.BirthDate(raw)
	if !ok {
		return "birth date is required and must be a valid date"
	}
	born, err := time.Parse("2006-01-02", canonical)
	if err != nil {
		return "birth date is required and must be a valid date"
	}
	if !born.Before(now) {
		return "birth date must be in the past"
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age > maxRacerAge {
		return "racers must be under 20 years old"
	}
	return ""
}

func requiredKidPhoneError(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "parent phone is required"
	}
	return kidPhoneError(raw)
}

// optionalKidPhoneError accepts empty values; a non-empty value must be
// a valid mobile number.
func optionalKidPhoneError(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return kidPhoneError(raw)
}

func requiredMaxLenError(raw, label string, max int) string {
	s := normalize.Name(raw)
	if s == "" {
		return label + " is required"
	}
	if len([]rune(s)) > max {
		return label + " is too long"
	}
	return ""
}

func maxLenError(raw, label string, max int) string {
	if len([]rune(strings.TrimSpace(raw))) > max {
		return label + " is too long"
	}
	return ""
}
