// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold. Exactly one role per user.
const (
	RoleAdmin      = "admin"
	RoleInstructor = "instructor"
	RoleParent     = "parent"
	RoleHost       = "host"
)

// Roles is the closed set of valid roles, in display order.
var Roles = []string{RoleAdmin, RoleInstructor, RoleParent, RoleHost}

// ValidRole reports whether role is a member of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleInstructor, RoleParent, RoleHost:
		return true
	}
	return false
}

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User represents a person using the system: admins, instructors,
// parents/guardians, and event hosts.
//
// Email is the login identifier and is immutable after creation; the
// edit flow never writes it. The matching credential record (see
// Credential) is keyed by the same email.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName string             `bson:"display_name" json:"display_name"`
	FullName    string             `bson:"full_name" json:"full_name"`
	FullNameCI  string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"` // digits-only canonical form
	Role        string             `bson:"role" json:"role"`                       // admin | instructor | parent | host
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
