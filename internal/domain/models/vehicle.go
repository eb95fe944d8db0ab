// internal/domain/models/vehicle.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle statuses.
const (
	VehicleReady       = "ready"
	VehicleMaintenance = "maintenance"
	VehicleRetired     = "retired"
)

// Vehicle is a go-kart in the program fleet.
type Vehicle struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number   int                `bson:"number" json:"number"`
	Nickname string             `bson:"nickname,omitempty" json:"nickname,omitempty"`
	Status   string             `bson:"status" json:"status"` // ready | maintenance | retired
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
