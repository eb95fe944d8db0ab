// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrNameRequired is returned for blank event names.
	ErrNameRequired = errors.New("event name is required")
	// ErrDateRequired is returned when the event has no date.
	ErrDateRequired = errors.New("event date is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// Create inserts a new race event.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.Name = normalize.Name(e.Name)
	if e.Name == "" {
		return models.Event{}, ErrNameRequired
	}
	if e.Date.IsZero() {
		return models.Event{}, ErrDateRequired
	}

	e.ID = primitive.NewObjectID()
	e.NameCI = text.Fold(e.Name)
	e.Location = normalize.Name(e.Location)
	if e.Status == "" {
		e.Status = models.StatusActive
	}

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update holds the mutable event fields.
type Update struct {
	Name     string
	Date     time.Time
	Location string
	HostID   *primitive.ObjectID
	Status   string
}

// Update rewrites an event's fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	if name == "" {
		return ErrNameRequired
	}
	if upd.Date.IsZero() {
		return ErrDateRequired
	}

	set := bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"date":       upd.Date,
		"location":   normalize.Name(upd.Location),
		"updated_at": time.Now(),
	}
	if upd.Status != "" {
		set["status"] = upd.Status
	}

	update := bson.M{"$set": set}
	if upd.HostID != nil {
		set["host_id"] = upd.HostID
	} else {
		update["$unset"] = bson.M{"host_id": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete removes an event.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns events ordered by date.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Upcoming returns active events on or after the given time.
func (s *Store) Upcoming(ctx context.Context, from time.Time) ([]models.Event, error) {
	query := bson.M{
		"date":   bson.M{"$gte": from},
		"status": models.StatusActive,
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListByHost returns the events assigned to a host user.
func (s *Store) ListByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"host_id": hostID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
