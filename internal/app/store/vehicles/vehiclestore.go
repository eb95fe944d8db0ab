// internal/app/store/vehicles/vehiclestore.go
package vehiclestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kartsforkids/pitlane/internal/app/system/normalize"
	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var (
	// ErrDuplicateNumber is returned when another kart already holds the number.
	ErrDuplicateNumber = errors.New("a kart with this number already exists")
	// ErrNumberRequired is returned for missing kart numbers.
	ErrNumberRequired = errors.New("kart number is required")
	// ErrBadStatus is returned for statuses outside ready/maintenance/retired.
	ErrBadStatus = errors.New("kart status must be ready, maintenance, or retired")
)

func validStatus(s string) bool {
	switch s {
	case models.VehicleReady, models.VehicleMaintenance, models.VehicleRetired:
		return true
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("vehicles")}
}

// Create inserts a new kart.
func (s *Store) Create(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	if v.Number <= 0 {
		return models.Vehicle{}, ErrNumberRequired
	}
	if v.Status == "" {
		v.Status = models.VehicleReady
	}
	if !validStatus(v.Status) {
		return models.Vehicle{}, ErrBadStatus
	}

	v.ID = primitive.NewObjectID()
	v.Nickname = normalize.Name(v.Nickname)
	v.Notes = normalize.Name(v.Notes)

	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Vehicle{}, ErrDuplicateNumber
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

// Update rewrites a kart's nickname, status, and notes. The number is
// fixed at creation; painted-on numbers don't change.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, nickname, status, notes string) error {
	if !validStatus(status) {
		return ErrBadStatus
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"nickname":   normalize.Name(nickname),
		"status":     status,
		"notes":      normalize.Name(notes),
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID loads a kart by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete removes a kart.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns karts ordered by number. An empty status means all.
func (s *Store) List(ctx context.Context, status string) ([]models.Vehicle, error) {
	query := bson.M{}
	if status != "" {
		query["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var vehicles []models.Vehicle
	if err := cur.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Ready returns the karts available for a race day.
func (s *Store) Ready(ctx context.Context) ([]models.Vehicle, error) {
	return s.List(ctx, models.VehicleReady)
}
