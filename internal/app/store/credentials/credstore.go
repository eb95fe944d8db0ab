// internal/app/store/credentials/credstore.go
//
// Credentials are stored separately from user profiles. The lowercase
// email is the join key between the two collections: account creation
// writes the credential first and the profile second, account deletion
// revokes the credential first and removes the profile second, so a
// half-created account can never sign in.
package credstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

const minPasswordLen = 8

var (
	// ErrEmailInUse is returned when a credential already exists for the email.
	ErrEmailInUse = errors.New("an account with this email already exists")
	// ErrWeakPassword is returned for passwords shorter than eight characters.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrInvalidEmail is returned for blank or malformed emails.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrWrongPassword is returned when verification fails.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNotFound is returned when no credential exists for the email.
	ErrNotFound = errors.New("no account with this email")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("credentials")}
}

// Create hashes the password with bcrypt and inserts a credential.
func (s *Store) Create(ctx context.Context, email, password string) (models.Credential, error) {
	email = normalize.Email(email)
	if email == "" || !validate.SimpleEmailValid(email) {
		return models.Credential{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return models.Credential{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Credential{}, err
	}

	now := time.Now()
	cred := models.Credential{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.c.InsertOne(ctx, cred); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Credential{}, ErrEmailInUse
		}
		return models.Credential{}, err
	}
	return cred, nil
}

// Verify checks email+password against the stored hash. Returns
// ErrNotFound for unknown emails and ErrWrongPassword for a hash
// mismatch.
func (s *Store) Verify(ctx context.Context, email, password string) (*models.Credential, error) {
	var cred models.Credential
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return &cred, nil
}

// ChangePassword replaces the stored hash after verifying the current
// password.
func (s *Store) ChangePassword(ctx context.Context, email, current, next string) error {
	if _, err := s.Verify(ctx, email, current); err != nil {
		return err
	}
	if len(next) < minPasswordLen {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
	return err
}

// Revoke deletes the credential for the email. Returns the number of
// documents deleted (0 or 1); revoking an absent credential is not an
// error so deletion flows stay idempotent.
func (s *Store) Revoke(ctx context.Context, email string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Exists reports whether a credential is stored for the email.
func (s *Store) Exists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
