// internal/app/store/teams/teamstore.go
package teamstore

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

	"github.com/kartsforkids/pitlane/internal/app/system/htmlsanitize"
	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrDuplicateName is returned when a team with the same folded name exists.
	ErrDuplicateName = errors.New("a team with this name already exists")
	// ErrNameRequired is returned for blank team names.
	ErrNameRequired = errors.New("team name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Create inserts a new team. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	t.Name = normalize.Name(t.Name)
	if t.Name == "" {
		return models.Team{}, ErrNameRequired
	}
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.Description = htmlsanitize.Sanitize(t.Description)
	if t.Status == "" {
		t.Status = models.StatusActive
	}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateName
		}
		return models.Team{}, err
	}
	return t, nil
}

// Update holds the mutable team fields.
type Update struct {
	Name         string
	Description  string
	InstructorID *primitive.ObjectID
	Status       string
}

// Update rewrites a team's fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	if name == "" {
		return ErrNameRequired
	}

	set := bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": htmlsanitize.Sanitize(upd.Description),
		"updated_at":  time.Now(),
	}
	if upd.Status == models.StatusActive || upd.Status == models.StatusDisabled {
		set["status"] = upd.Status
	}

	update := bson.M{"$set": set}
	if upd.InstructorID != nil {
		set["instructor_id"] = upd.InstructorID
	} else {
		update["$unset"] = bson.M{"instructor_id": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID loads a team by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a team. Kid assignments pointing at the team must be
// cleared by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns teams sorted by folded name.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Team, error) {
	query := bson.M{}
	if activeOnly {
		query["status"] = models.StatusActive
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListByInstructor returns the teams led by an instructor.
func (s *Store) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"instructor_id": instructorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var teams []models.Team
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// NameMap returns team display names keyed by ObjectID hex, for the CSV
// export's derived team column.
func (s *Store) NameMap(ctx context.Context) (map[string]string, error) {
	teams, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID.Hex()] = t.Name
	}
	return names, nil
}
