// internal/app/features/teams/handler.go
package teams

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/features/errors"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
)

type Handler struct {
	Log      *zap.Logger
	ErrLog   *errors.ErrorLogger
	AuditLog *auditlog.Logger
	Teams    *teamstore.Store
	Kids     *kidstore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Teams:    teamstore.New(db),
		Kids:     kidstore.New(db),
		Users:    userstore.New(db),
	}
}
