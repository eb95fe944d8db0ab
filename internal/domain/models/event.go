// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled racing day hosted at a track.
type Event struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name     string              `bson:"name" json:"name"`
	NameCI   string              `bson:"name_ci" json:"name_ci"`
	Date     time.Time           `bson:"date" json:"date"`
	Location string              `bson:"location,omitempty" json:"location,omitempty"`
	HostID   *primitive.ObjectID `bson:"host_id,omitempty" json:"host_id,omitempty"`
	Status   string              `bson:"status" json:"status"` // active | cancelled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
