package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/inputval"
	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalid wraps field validation failures; inspect Fields for details.
	ErrInvalid = errors.New("user record failed validation")
)

// ValidationError carries per-field messages from a rejected write.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrInvalid.Error() }

// Unwrap lets callers match with errors.Is(err, ErrInvalid).
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.DisplayName = normalize.Name(u.DisplayName)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Digits(u.Phone)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if errs := inputval.ValidateUser(u, inputval.ForCreate); len(errs) > 0 {
		return models.User{}, &ValidationError{Fields: errs}
	}
	if u.Status != models.StatusActive && u.Status != models.StatusDisabled {
		return models.User{}, &ValidationError{Fields: map[string]string{"status": `status must be "active" or "disabled"`}}
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the mutable user fields. Email is immutable after creation
// and deliberately absent.
type Update struct {
	DisplayName string
	FullName    string
	Phone       string
	Role        string
	Status      string
}

// Update rewrites a user's mutable fields. The stored email is never
// touched; updates that try to change it go through account deletion and
// re-creation instead.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	candidate := models.User{
		DisplayName: normalize.Name(upd.DisplayName),
		FullName:    normalize.Name(upd.FullName),
		Phone:       normalize.Digits(upd.Phone),
		Role:        upd.Role,
	}
	if errs := inputval.ValidateUser(candidate, inputval.ForUpdate); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	set := bson.M{
		"display_name": candidate.DisplayName,
		"full_name":    candidate.FullName,
		"full_name_ci": text.Fold(candidate.FullName),
		"phone":        candidate.Phone,
		"role":         candidate.Role,
		"updated_at":   time.Now(),
	}
	if upd.Status == models.StatusActive || upd.Status == models.StatusDisabled {
		set["status"] = upd.Status
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user profile. Returns the number of documents deleted
// (0 or 1). The paired credential must be revoked by the caller first.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// StampLastLogin records a successful sign-in time.
func (s *Store) StampLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login_at": now}})
	return err
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Role   string
	Status string
	Search string // folded substring match on full name
	Limit  int64
}

// List returns users sorted by folded full name.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		query["full_name_ci"] = bson.M{"$regex": text.Fold(filter.Search)}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Instructors returns all active instructor users, for team assignment
// dropdowns.
func (s *Store) Instructors(ctx context.Context) ([]models.User, error) {
	return s.List(ctx, ListFilter{Role: models.RoleInstructor, Status: models.StatusActive})
}

// EmailExists reports whether any user already holds the email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
