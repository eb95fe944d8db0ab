// internal/domain/models/kid.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form/declaration statuses for a kid's registration paperwork.
const (
	FormStatusPending     = "pending"
	FormStatusCompleted   = "completed"
	FormStatusNeedsReview = "needs_review"
	FormStatusCancelled   = "cancelled"
)

// FormStatuses is the closed set of valid form statuses.
var FormStatuses = []string{FormStatusPending, FormStatusCompleted, FormStatusNeedsReview, FormStatusCancelled}

// ValidFormStatus reports whether s is a member of the form status set.
func ValidFormStatus(s string) bool {
	switch s {
	case FormStatusPending, FormStatusCompleted, FormStatusNeedsReview, FormStatusCancelled:
		return true
	}
	return false
}

// ParentInfo is a parent/guardian contact block embedded on a kid.
type ParentInfo struct {
	FullName         string `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Email            string `bson:"email,omitempty" json:"email,omitempty"`
	Phone            string `bson:"phone,omitempty" json:"phone,omitempty"` // digits-only canonical form
	GrandparentName  string `bson:"grandparent_name,omitempty" json:"grandparent_name,omitempty"`
	GrandparentPhone string `bson:"grandparent_phone,omitempty" json:"grandparent_phone,omitempty"`
}

// Empty reports whether every field of the block is blank. An entirely
// blank second-parent block is omitted from storage rather than being
// persisted as an empty document.
func (p ParentInfo) Empty() bool {
	return p.FullName == "" && p.Email == "" && p.Phone == "" &&
		p.GrandparentName == "" && p.GrandparentPhone == ""
}

// KidComments holds free-text comments partitioned by author role.
type KidComments struct {
	Parent        string `bson:"parent,omitempty" json:"parent,omitempty"`
	Organization  string `bson:"organization,omitempty" json:"organization,omitempty"`
	TeamLeader    string `bson:"team_leader,omitempty" json:"team_leader,omitempty"`
	FamilyContact string `bson:"family_contact,omitempty" json:"family_contact,omitempty"`
}

// Kid represents a program participant registered for racing events.
//
// NOTE:
//   - ParentID is the legacy singular parent reference. It is kept in
//     sync with ParentIDs (append-if-absent on save) for backward
//     compatibility with older clients.
//   - InstructorID is derived from the team when unset.
type Kid struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RacerNumber int                `bson:"racer_number" json:"racer_number"`
	FirstName   string             `bson:"first_name" json:"first_name"`
	LastName    string             `bson:"last_name" json:"last_name"`
	FullNameCI  string             `bson:"full_name_ci" json:"full_name_ci"`
	BirthDate   string             `bson:"birth_date" json:"birth_date"` // canonical YYYY-MM-DD
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`

	CapabilityNotes string `bson:"capability_notes,omitempty" json:"capability_notes,omitempty"`
	AnnouncerNotes  string `bson:"announcer_notes,omitempty" json:"announcer_notes,omitempty"`
	PhotoKey        string `bson:"photo_key,omitempty" json:"photo_key,omitempty"`

	Parent       ParentInfo  `bson:"parent" json:"parent"`
	SecondParent *ParentInfo `bson:"second_parent,omitempty" json:"second_parent,omitempty"`

	ParentID  string   `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // legacy singular
	ParentIDs []string `bson:"parent_ids" json:"parent_ids"`                   // user ids, at most two

	TeamID       *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`
	InstructorID *primitive.ObjectID `bson:"instructor_id,omitempty" json:"instructor_id,omitempty"`

	FormStatus        string `bson:"form_status" json:"form_status"` // pending | completed | needs_review | cancelled
	DeclarationSigned bool   `bson:"declaration_signed" json:"declaration_signed"`

	Comments KidComments `bson:"comments,omitempty" json:"comments,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
