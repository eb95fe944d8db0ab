// internal/app/features/vehicles/handler.go
package vehicles

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/features/errors"
	vehiclestore "github.com/kartsforkids/pitlane/internal/app/store/vehicles"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
)

type Handler struct {
	Log      *zap.Logger
	ErrLog   *errors.ErrorLogger
	AuditLog *auditlog.Logger
	Vehicles *vehiclestore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Vehicles: vehiclestore.New(db),
	}
}
