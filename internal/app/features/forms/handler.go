// internal/app/features/forms/handler.go
//
// Admin-defined registration forms. Admins build a form out of typed
// fields, open it for responses, and review what comes in; parents fill
// open forms for their kids.
package forms

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/kartsforkids/pitlane/internal/app/features/errors"
	formstore "github.com/kartsforkids/pitlane/internal/app/store/forms"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	substore "github.com/kartsforkids/pitlane/internal/app/store/submissions"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
)

type Handler struct {
	Log         *zap.Logger
	ErrLog      *errors.ErrorLogger
	AuditLog    *auditlog.Logger
	Forms       *formstore.Store
	Submissions *substore.Store
	Kids        *kidstore.Store
	Users       *userstore.Store
}

func NewHandler(db *mongo.Database, errLog *errors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		ErrLog:      errLog,
		AuditLog:    auditLog,
		Forms:       formstore.New(db),
		Submissions: substore.New(db),
		Kids:        kidstore.New(db),
		Users:       userstore.New(db),
	}
}
