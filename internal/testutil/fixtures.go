package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T

	nextRacer int
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, nextRacer: 100}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given parameters.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		DisplayName: fullName,
		FullName:    fullName,
		FullNameCI:  text.Fold(fullName),
		Email:       email,
		Phone:       "0501234567",
		Role:        role,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateInstructor creates a test instructor user.
func (f *Fixtures) CreateInstructor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleInstructor)
}

// CreateParent creates a test parent user.
func (f *Fixtures) CreateParent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleParent)
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	user := f.CreateUser(ctx, fullName, email, models.RoleParent)
	_, err := f.db.Collection("users").UpdateByID(ctx, user.ID,
		map[string]interface{}{"$set": map[string]interface{}{"status": models.StatusDisabled}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	user.Status = models.StatusDisabled
	return user
}

// CreateTeam creates a test team, optionally led by an instructor.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, instructorID *primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		InstructorID: instructorID,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// CreateKid creates a test kid record with a unique racer number.
func (f *Fixtures) CreateKid(ctx context.Context, firstName, lastName string) models.Kid {
	f.t.Helper()

	f.nextRacer++
	now := time.Now().UTC()
	kid := models.Kid{
		ID:          primitive.NewObjectID(),
		RacerNumber: f.nextRacer,
		FirstName:   firstName,
		LastName:    lastName,
		FullNameCI:  text.Fold(firstName + " " + lastName),
		BirthDate:   "2015-06-09",
		Parent: models.ParentInfo{
			FullName: "Test Parent",
			Email:    "parent@test.com",
			Phone:    "0501234567",
		},
		FormStatus: models.FormStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("kids").InsertOne(ctx, kid); err != nil {
		f.t.Fatalf("failed to create test kid: %v", err)
	}
	return kid
}

// CreateKidForParent creates a test kid linked to the given parent user.
func (f *Fixtures) CreateKidForParent(ctx context.Context, firstName, lastName string, parentID primitive.ObjectID) models.Kid {
	f.t.Helper()

	kid := f.CreateKid(ctx, firstName, lastName)
	_, err := f.db.Collection("kids").UpdateByID(ctx, kid.ID,
		map[string]interface{}{"$set": map[string]interface{}{"parent_ids": []string{parentID.Hex()}}})
	if err != nil {
		f.t.Fatalf("failed to link kid to parent: %v", err)
	}
	kid.ParentIDs = []string{parentID.Hex()}
	return kid
}

// CreateForm creates a test form in the given status.
func (f *Fixtures) CreateForm(ctx context.Context, title, status string) models.Form {
	f.t.Helper()

	now := time.Now().UTC()
	form := models.Form{
		ID:      primitive.NewObjectID(),
		Title:   title,
		TitleCI: text.Fold(title),
		Fields: []models.FormField{
			{Key: "allergies", Label: "Allergies", Type: models.FieldText},
			{Key: "consent", Label: "Photo consent", Type: models.FieldCheckbox, Required: true},
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("forms").InsertOne(ctx, form); err != nil {
		f.t.Fatalf("failed to create test form: %v", err)
	}
	return form
}

// CreateEvent creates a test race event.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	event := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Date:      date,
		Location:  "Test Track",
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}
