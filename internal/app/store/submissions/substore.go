// internal/app/store/submissions/substore.go
package substore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/htmlsanitize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrFormNotOpen is returned when submitting against a form that is not accepting responses.
	ErrFormNotOpen = errors.New("this form is not accepting submissions")
	// ErrMissingAnswer is returned when a required field has no answer.
	ErrMissingAnswer = errors.New("a required field is missing an answer")
	// ErrBadAnswer is returned when an answer does not fit its field definition.
	ErrBadAnswer = errors.New("an answer does not match its field")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("form_submissions")}
}

// checkAnswers verifies the answer map against the form's field
// definitions: required fields answered, select answers drawn from the
// options list, unknown keys dropped, free text sanitized.
func checkAnswers(form *models.Form, answers map[string]string) (map[string]string, error) {
	clean := make(map[string]string, len(answers))

	for _, field := range form.Fields {
		raw, ok := answers[field.Key]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			if field.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingAnswer, field.Key)
			}
			continue
		}

		switch field.Type {
		case models.FieldSelect:
			found := false
			for _, opt := range field.Options {
				if raw == opt {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: %q is not an option for %s", ErrBadAnswer, raw, field.Key)
			}
			clean[field.Key] = raw
		case models.FieldCheckbox:
			if raw != "true" && raw != "false" {
				return nil, fmt.Errorf("%w: %s must be true or false", ErrBadAnswer, field.Key)
			}
			clean[field.Key] = raw
		case models.FieldDate:
			if _, err := time.Parse("2006-01-02", raw); err != nil {
				return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", ErrBadAnswer, field.Key)
			}
			clean[field.Key] = raw
		default:
			clean[field.Key] = htmlsanitize.SanitizeStrict(raw)
		}
	}

	return clean, nil
}

// Submit records a user's response to an open form. Answers to unknown
// field keys are silently dropped.
func (s *Store) Submit(ctx context.Context, form *models.Form, userID primitive.ObjectID, kidID *primitive.ObjectID, answers map[string]string) (models.Submission, error) {
	if form.Status != models.FormOpen {
		return models.Submission{}, ErrFormNotOpen
	}

	clean, err := checkAnswers(form, answers)
	if err != nil {
		return models.Submission{}, err
	}

	now := time.Now()
	sub := models.Submission{
		ID:        primitive.NewObjectID(),
		FormID:    form.ID,
		UserID:    userID,
		KidID:     kidID,
		Answers:   clean,
		Status:    models.FormStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, sub); err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// SetStatus moves a submission through review.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if !models.ValidFormStatus(status) {
		return fmt.Errorf("unknown submission status %q", status)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID loads a submission by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Submission, error) {
	var sub models.Submission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByForm returns the submissions for a form, newest first.
func (s *Store) ListByForm(ctx context.Context, formID primitive.ObjectID) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"form_id": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ListByUser returns a user's own submissions, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var subs []models.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// CountByForm returns how many submissions a form has received.
func (s *Store) CountByForm(ctx context.Context, formID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"form_id": formID})
}
