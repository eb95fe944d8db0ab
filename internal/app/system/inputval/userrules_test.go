package inputval

import (
	"strings"
	"testing"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

func validUser() models.User {
	return models.User{
		DisplayName: "Dana",
		FullName:    "Dana Levi",
		Email:       "dana@example.com",
		Phone:       "0501234567",
		Role:        models.RoleParent,
	}
}

func TestValidateUser_Valid(t *testing.T) {
	errs := ValidateUser(validUser(), ForCreate)
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateUser_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.User)
		field  string
	}{
		{"missing email", func(u *models.User) { u.Email = "" }, "email"},
		{"missing display name", func(u *models.User) { u.DisplayName = "" }, "display_name"},
		{"missing full name", func(u *models.User) { u.FullName = "   " }, "full_name"},
		{"missing phone", func(u *models.User) { u.Phone = "" }, "phone"},
		{"missing role", func(u *models.User) { u.Role = "" }, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			errs := ValidateUser(u, ForCreate)
			if errs[tt.field] == "" {
				t.Errorf("expected error keyed by %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateUser_EmailExemptOnUpdate(t *testing.T) {
	u := validUser()
	u.Email = ""
	errs := ValidateUser(u, ForUpdate)
	if errs["email"] != "" {
		t.Errorf("email must be exempt on update, got %q", errs["email"])
	}
}

func TestValidateUser_EmailFormat(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"dana@example.com", true},
		{"dana.levi+kart@example.co.il", true},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"dana@.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			u := validUser()
			u.Email = tt.email
			errs := ValidateUser(u, ForCreate)
			if tt.valid && errs["email"] != "" {
				t.Errorf("expected valid, got %q", errs["email"])
			}
			if !tt.valid && errs["email"] == "" {
				t.Error("expected email error, got none")
			}
		})
	}
}

func TestValidateUser_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr string // substring of the expected message; "" means valid
	}{
		{"valid mobile", "0501234567", ""},
		{"valid with separators", "050-123-4567", ""},
		{"valid landline voip", "0771234567", ""},
		{"too short", "05012345", "10 digits"},
		{"too long digits", "050123456789", "10 digits"},
		{"bad prefix right length", "0601234567", "prefix"},
		{"bad prefix 051", "0511234567", "prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			u.Phone = tt.phone
			errs := ValidateUser(u, ForCreate)
			got := errs["phone"]
			if tt.wantErr == "" && got != "" {
				t.Errorf("expected valid, got %q", got)
			}
			if tt.wantErr != "" && !strings.Contains(got, tt.wantErr) {
				t.Errorf("error %q does not mention %q", got, tt.wantErr)
			}
		})
	}
}

func TestValidateUser_Role(t *testing.T) {
	for _, role := range models.Roles {
		u := validUser()
		u.Role = role
		if errs := ValidateUser(u, ForCreate); errs["role"] != "" {
			t.Errorf("role %q rejected: %q", role, errs["role"])
		}
	}

	u := validUser()
	u.Role = "superhero"
	if errs := ValidateUser(u, ForCreate); errs["role"] == "" {
		t.Error("unknown role accepted")
	}
}

func TestValidateUser_Lengths(t *testing.T) {
	u := validUser()
	u.DisplayName = "D"
	if errs := ValidateUser(u, ForCreate); errs["display_name"] == "" {
		t.Error("1-char display name accepted")
	}

	u = validUser()
	u.DisplayName = strings.Repeat("a", 51)
	if errs := ValidateUser(u, ForCreate); errs["display_name"] == "" {
		t.Error("51-char display name accepted")
	}

	u = validUser()
	u.FullName = strings.Repeat("a", 101)
	if errs := ValidateUser(u, ForCreate); errs["full_name"] == "" {
		t.Error("101-char full name accepted")
	}
}

func TestValidateUser_CharacterClasses(t *testing.T) {
	u := validUser()
	u.DisplayName = "Dana!"
	if errs := ValidateUser(u, ForCreate); errs["display_name"] == "" {
		t.Error("punctuation in display name accepted")
	}

	// Hebrew letters are allowed in both name fields.
	u = validUser()
	u.DisplayName = "דנה 1"
	u.FullName = "דנה לוי"
	errs := ValidateUser(u, ForCreate)
	if errs["display_name"] != "" || errs["full_name"] != "" {
		t.Errorf("Hebrew names rejected: %v", errs)
	}

	// Digits are allowed in display names but not full names.
	u = validUser()
	u.FullName = "Dana Levi 2"
	if errs := ValidateUser(u, ForCreate); errs["full_name"] == "" {
		t.Error("digits in full name accepted")
	}

	u = validUser()
	u.FullName = "O'Brien-Levi"
	if errs := ValidateUser(u, ForCreate); errs["full_name"] != "" {
		t.Errorf("hyphen/apostrophe full name rejected: %q", errs["full_name"])
	}
}

func TestValidateUserField(t *testing.T) {
	if msg := ValidateUserField("email", "bad", ForCreate); msg == "" {
		t.Error("expected email error")
	}
	if msg := ValidateUserField("email", "anything", ForUpdate); msg != "" {
		t.Errorf("email checked on update: %q", msg)
	}
	if msg := ValidateUserField("phone", "0501234567", ForCreate); msg != "" {
		t.Errorf("valid phone rejected: %q", msg)
	}
	if msg := ValidateUserField("unknown_field", "x", ForCreate); msg != "" {
		t.Errorf("unknown field should pass, got %q", msg)
	}
}
