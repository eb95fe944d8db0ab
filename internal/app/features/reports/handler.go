// internal/app/features/reports/handler.go
//
// Roster exports. The kid roster can be downloaded as CSV, localized
// English or Hebrew, with selectable column groups and the same filters
// the kid list uses.
package reports

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
	Kids     *kidstore.Store
	Teams    *teamstore.Store
	Users    *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Kids:     kidstore.New(db),
		Teams:    teamstore.New(db),
		Users:    userstore.New(db),
	}
}
