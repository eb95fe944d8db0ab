// internal/app/system/inputval/userrules.go
//
// Declarative field validation for user records. ValidateUser returns a
// map keyed by field name; the record is valid iff the map is empty.
// ValidateUserField evaluates the same rules for a single field, for
// live-typing feedback.
package inputval

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// Mode selects which rule set applies: creation requires every field,
// updates exempt the immutable email.
type Mode int

const (
	ForCreate Mode = iota
	ForUpdate
)

// Field length limits.
const (
	minDisplayNameLen = 2
	maxDisplayNameLen = 50
	minFullNameLen    = 2
	maxFullNameLen    = 100
	maxEmailLen       = 254
	maxPhoneLen       = 20
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUser checks a candidate user record against the account rules
// and returns human-readable errors keyed by field name.
func ValidateUser(u models.User, mode Mode) map[string]string {
	errs := map[string]string{}

	put := func(field, msg string) {
		if msg != "" {
			errs[field] = msg
		}
	}

	if mode == ForCreate {
		put("email", emailError(u.Email))
	}
	put("display_name", displayNameError(u.DisplayName))
	put("full_name", fullNameError(u.FullName))
	put("phone", requiredUserPhoneError(u.Phone))
	put("role", roleError(u.Role))

	return errs
}

// ValidateUserField evaluates one field in isolation. Returns a single
// error message, or "" when the value passes.
func ValidateUserField(field, value string, mode Mode) string {
	switch field {
	case "email":
		if mode == ForUpdate {
			return "" // immutable after creation; never re-checked
		}
		return emailError(value)
	case "display_name":
		return displayNameError(value)
	case "full_name":
		return fullNameError(value)
	case "phone":
		return requiredUserPhoneError(value)
	case "role":
		return roleError(value)
	}
	return ""
}

func emailError(raw string) string {
	email := normalize.Email(raw)
	if email == "" {
		return "email is required"
	}
	if len(email) > maxEmailLen {
		return "email is too long"
	}
	if !emailRx.MatchString(email) {
		return "invalid email format"
	}
	return ""
}

func displayNameError(raw string) string {
	name := normalize.Name(raw)
	if name == "" {
		return "display name is required"
	}
	if n := len([]rune(name)); n < minDisplayNameLen || n > maxDisplayNameLen {
		return "display name must be 2-50 characters"
	}
	for _, r := range name {
		if !isHebrewOrLatinLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return "display name may only contain letters, digits, and spaces"
		}
	}
	return ""
}

func fullNameError(raw string) string {
	name := normalize.Name(raw)
	if name == "" {
		return "full name is required"
	}
	if n := len([]rune(name)); n < minFullNameLen || n > maxFullNameLen {
		return "full name must be 2-100 characters"
	}
	for _, r := range name {
		if isHebrewOrLatinLetter(r) || unicode.IsSpace(r) || r == '-' || r == '\'' {
			continue
		}
		return "full name may only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

// requiredUserPhoneError treats phone as a required field: empty is an
// error here, not only a format problem.
func requiredUserPhoneError(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "phone is required"
	}
	return userPhoneError(raw)
}

func roleError(role string) string {
	if strings.TrimSpace(role) == "" {
		return "role is required"
	}
	if !models.ValidRole(role) {
		return "role must be one of admin, instructor, parent, host"
	}
	return ""
}

// isHebrewOrLatinLetter restricts names to the two alphabets the program
// operates in.
func isHebrewOrLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || unicode.Is(unicode.Hebrew, r)
}
