// internal/app/features/profile/handler.go
package profile

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/features/errors"
	credstore "github.com/kartsforkids/pitlane/internal/app/store/credentials"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
)

type Handler struct {
	Log         *zap.Logger
	ErrLog      *errors.ErrorLogger
	AuditLog    *auditlog.Logger
	Users       *userstore.Store
	Credentials *credstore.Store
	Kids        *kidstore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		ErrLog:      errLog,
		AuditLog:    auditLog,
		Users:       userstore.New(db),
		Credentials: credstore.New(db),
		Kids:        kidstore.New(db),
	}
}
