// internal/app/features/kids/handler.go
package kids

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/kartsforkids/pitlane/internal/app/features/errors"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/app/system/photostore"
)

// Handler carries the dependencies for kid management.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Kids     *kidstore.Store
	Teams    *teamstore.Store
	Users    *userstore.Store
	Photos   photostore.Store
	Tokens   *photostore.TokenCodec
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, photos photostore.Store, tokens *photostore.TokenCodec, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Kids:     kidstore.New(db),
		Teams:    teamstore.New(db),
		Users:    userstore.New(db),
		Photos:   photos,
		Tokens:   tokens,
	}
}
