// internal/app/system/inputval/phone.go
package inputval

import (
	"strings"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
)

// Valid Israeli mobile prefixes. Kid parent phones must be mobile.
var mobilePrefixes = []string{"050", "052", "053", "054", "055", "058"}

// Valid prefixes for user account phones: any mobile prefix plus the
// 10-digit landline/VoIP ranges.
var userPhonePrefixes = append([]string{"072", "073", "074", "076", "077", "079"}, mobilePrefixes...)

func hasPrefix(digits string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(digits, p) {
			return true
		}
	}
	return false
}

// userPhoneError validates an account phone number and returns an error
// message, or "" when valid. Non-digit characters are stripped before
// checking; the canonical form must be exactly 10 digits with a known
// mobile or landline prefix.
func userPhoneError(raw string) string {
	if len(raw) > maxPhoneLen {
		return "phone number is too long"
	}
	digits := normalize.Digits(raw)
	if len(digits) != 10 {
		return "phone number must be 10 digits"
	}
	if !hasPrefix(digits, userPhonePrefixes) {
		return "phone prefix must be one of " + strings.Join(userPhonePrefixes, ", ")
	}
	return ""
}

// kidPhoneError validates a parent/guardian mobile number on a kid
// record. The prefix checks run before the length check: a bad prefix
// reports the prefix problem even when the length is also wrong. This
// ordering decides which message a user sees for doubly-malformed input
// and must not be reordered.
func kidPhoneError(raw string) string {
	if len(raw) > maxPhoneLen {
		return "phone number is too long"
	}
	digits := normalize.Digits(raw)
	if !strings.HasPrefix(digits, "05") {
		return "phone number must start with 05"
	}
	if !hasPrefix(digits, mobilePrefixes) {
		return "phone prefix must be one of " + strings.Join(mobilePrefixes, ", ")
	}
	if len(digits) != 10 {
		return "phone number must be 10 digits"
	}
	return ""
}
