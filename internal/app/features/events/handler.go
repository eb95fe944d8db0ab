// internal/app/features/events/handler.go
package events

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/features/errors"
	eventstore "github.com/kartsforkids/pitlane/internal/app/store/events"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
)

type Handler struct {
	Log      *zap.Logger
	ErrLog   *errors.ErrorLogger
	AuditLog *auditlog.Logger
	Events   *eventstore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Events:   eventstore.New(db),
		Users:    userstore.New(db),
	}
}
