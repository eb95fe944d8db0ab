// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventstore "github.com/kartsforkids/pitlane/internal/app/store/events"
	formstore "github.com/kartsforkids/pitlane/internal/app/store/forms"
	kidstore "github.com/kartsforkids/pitlane/internal/app/store/kids"
	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	userstore "github.com/kartsforkids/pitlane/internal/app/store/users"
	vehiclestore "github.com/kartsforkids/pitlane/internal/app/store/vehicles"
	"github.com/kartsforkids/pitlane/internal/app/system/authz"
)

type Handler struct {
	Log      *zap.Logger
	Kids     *kidstore.Store
	Teams    *teamstore.Store
	Users    *userstore.Store
	Forms    *formstore.Store
	Events   *eventstore.Store
	Vehicles *vehiclestore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Kids:     kidstore.New(db),
		Teams:    teamstore.New(db),
		Users:    userstore.New(db),
		Forms:    formstore.New(db),
		Events:   eventstore.New(db),
		Vehicles: vehiclestore.New(db),
	}
}

// ServeDashboard dispatches to the role-specific view.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		h.ServeAdmin(w, r)
	case "instructor":
		h.ServeInstructor(w, r)
	case "parent":
		h.ServeParent(w, r)
	case "host":
		h.ServeHost(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
