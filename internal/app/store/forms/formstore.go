// internal/app/store/forms/formstore.go
package formstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/htmlsanitize"
	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrTitleRequired is returned for blank form titles.
	ErrTitleRequired = errors.New("form title is required")
	// ErrBadFields is returned when the field definitions are malformed.
	ErrBadFields = errors.New("form fields are invalid")
	// ErrBadTransition is returned for status moves outside draft→open→closed.
	ErrBadTransition = errors.New("invalid form status transition")
)

// validTransitions: draft can open, open can close, closed can reopen.
// Draft is the only deletable status, enforced in Delete.
var validTransitions = map[string][]string{
	models.FormDraft:  {models.FormOpen},
	models.FormOpen:   {models.FormClosed},
	models.FormClosed: {models.FormOpen},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("forms")}
}

func prepareFields(fields []models.FormField) ([]models.FormField, error) {
	seen := map[string]struct{}{}
	out := make([]models.FormField, 0, len(fields))
	for i, f := range fields {
		f.Key = strings.TrimSpace(f.Key)
		f.Label = normalize.Name(f.Label)
		if f.Key == "" || f.Label == "" {
			return nil, fmt.Errorf("%w: field %d needs key and label", ErrBadFields, i)
		}
		if _, dup := seen[f.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrBadFields, f.Key)
		}
		seen[f.Key] = struct{}{}

		switch f.Type {
		case models.FieldText, models.FieldTextarea, models.FieldCheckbox, models.FieldDate:
			f.Options = nil
		case models.FieldSelect:
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("%w: select field %q needs options", ErrBadFields, f.Key)
			}
		default:
			return nil, fmt.Errorf("%w: unknown type %q", ErrBadFields, f.Type)
		}
		out = append(out, f)
	}
	return out, nil
}

// Create inserts a new form in draft status.
func (s *Store) Create(ctx context.Context, f models.Form) (models.Form, error) {
	f.Title = normalize.Name(f.Title)
	if f.Title == "" {
		return models.Form{}, ErrTitleRequired
	}

	fields, err := prepareFields(f.Fields)
	if err != nil {
		return models.Form{}, err
	}

	f.ID = primitive.NewObjectID()
	f.TitleCI = text.Fold(f.Title)
	f.Description = htmlsanitize.Sanitize(f.Description)
	f.Fields = fields
	f.Status = models.FormDraft

	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Form{}, err
	}
	return f, nil
}

// Update rewrites a form's title, description, and fields. Field edits
// are only allowed while the form is in draft; open forms already have
// submissions keyed to the current field set.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, description string, fields []models.FormField) error {
	title = normalize.Name(title)
	if title == "" {
		return ErrTitleRequired
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	set := bson.M{
		"title":       title,
		"title_ci":    text.Fold(title),
		"description": htmlsanitize.Sanitize(description),
		"updated_at":  time.Now(),
	}
	if existing.Status == models.FormDraft {
		prepared, err := prepareFields(fields)
		if err != nil {
			return err
		}
		set["fields"] = prepared
	}

	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetStatus moves a form along draft→open→closed (closed forms may
// reopen).
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, next string) error {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, to := range validTransitions[f.Status] {
		if to == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: %s → %s", ErrBadTransition, f.Status, next)
	}

	_, err = s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": next, "updated_at": time.Now()}})
	return err
}

// GetByID loads a form by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Form, error) {
	var f models.Form
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes a draft form. Forms that have been opened keep their
// submission history and can only be closed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": models.FormDraft})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns forms, newest first. An empty status means all statuses.
func (s *Store) List(ctx context.Context, status string) ([]models.Form, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var forms []models.Form
	if err := cur.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// ListOpen returns the forms parents can currently fill out.
func (s *Store) ListOpen(ctx context.Context) ([]models.Form, error) {
	return s.List(ctx, models.FormOpen)
}
