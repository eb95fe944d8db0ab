// internal/domain/models/form.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form statuses.
const (
	FormDraft  = "draft"
	FormOpen   = "open"
	FormClosed = "closed"
)

// Field types a form definition may use.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldCheckbox = "checkbox"
	FieldSelect   = "select"
	FieldDate     = "date"
)

// FormField is one question in an admin-defined registration form.
type FormField struct {
	Key      string   `bson:"key" json:"key"`
	Label    string   `bson:"label" json:"label"`
	Type     string   `bson:"type" json:"type"` // text | textarea | checkbox | select | date
	Required bool     `bson:"required" json:"required"`
	Options  []string `bson:"options,omitempty" json:"options,omitempty"` // select only
}

// Form is an admin-defined registration form.
type Form struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"` // sanitized HTML
	Fields      []FormField        `bson:"fields" json:"fields"`
	Status      string             `bson:"status" json:"status"` // draft | open | closed

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Submission is one user's filled-out response to a form. Submissions
// relate many-to-one to a Form and many-to-one to the submitting User.
type Submission struct {
	ID      primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FormID  primitive.ObjectID  `bson:"form_id" json:"form_id"`
	UserID  primitive.ObjectID  `bson:"user_id" json:"user_id"`
	KidID   *primitive.ObjectID `bson:"kid_id,omitempty" json:"kid_id,omitempty"`
	Answers map[string]string   `bson:"answers" json:"answers"`
	Status  string              `bson:"status" json:"status"` // pending | completed | needs_review | cancelled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
