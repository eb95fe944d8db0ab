// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authgooglefeature "github.com/kartsforkids/pitlane/internal/app/features/authgoogle"
	dashboardfeature "github.com/kartsforkids/pitlane/internal/app/features/dashboard"
	errorsfeature "github.com/kartsforkids/pitlane/internal/app/features/errors"
	eventsfeature "github.com/kartsforkids/pitlane/internal/app/features/events"
	formsfeature "github.com/kartsforkids/pitlane/internal/app/features/forms"
	healthfeature "github.com/kartsforkids/pitlane/internal/app/features/health"
	homefeature "github.com/kartsforkids/pitlane/internal/app/features/home"
	kidsfeature "github.com/kartsforkids/pitlane/internal/app/features/kids"
	loginfeature "github.com/kartsforkids/pitlane/internal/app/features/login"
	logoutfeature "github.com/kartsforkids/pitlane/internal/app/features/logout"
	profilefeature "github.com/kartsforkids/pitlane/internal/app/features/profile"
	reportsfeature "github.com/kartsforkids/pitlane/internal/app/features/reports"
	teamsfeature "github.com/kartsforkids/pitlane/internal/app/features/teams"
	usersfeature "github.com/kartsforkids/pitlane/internal/app/features/users"
	vehiclesfeature "github.com/kartsforkids/pitlane/internal/app/features/vehicles"
	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/app/system/auth"
	"github.com/kartsforkids/pitlane/internal/app/system/photostore"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Pitlane initializes the session store
// and the template engine, selects the photo storage backend, applies CSRF
// protection to the whole router, and mounts feature routers for all
// application areas: home, login, dashboard, kids, users, teams, events,
// vehicles, forms, reports, and profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Photo storage backend and access token codec.
	photos, err := newPhotoStore(appCfg)
	if err != nil {
		logger.Error("photo store init failed", zap.Error(err))
		return nil, err
	}
	tokens, err := photostore.NewTokenCodec(
		[]byte(appCfg.PhotoTokenHashKey),
		blockKeyBytes(appCfg.PhotoTokenBlockKey),
		appCfg.PhotoTokenMaxAge)
	if err != nil {
		logger.Error("photo token codec init failed", zap.Error(err))
		return nil, err
	}

	// Error logger for handlers and the audit trail.
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/healthz", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, errLog, auditLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	if googleEnabled {
		googleHandler := authgooglefeature.NewHandler(db, auditLog,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Kid registration and team assignment
	kidsHandler := kidsfeature.NewHandler(db, errLog, auditLog, photos, tokens, logger)
	r.Mount("/kids", kidsfeature.Routes(kidsHandler))

	// User account management
	usersHandler := usersfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	// Teams and instructors
	teamsHandler := teamsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler))

	// Race events
	eventsHandler := eventsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Kart fleet
	vehiclesHandler := vehiclesfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/vehicles", vehiclesfeature.Routes(vehiclesHandler))

	// Dynamic forms and submissions
	formsHandler := formsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/forms", formsfeature.Routes(formsHandler))

	// Roster reports and CSV export
	reportsHandler := reportsfeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	// Signed-in user's own profile
	profileHandler := profilefeature.NewHandler(db, errLog, auditLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler))

	// CSRF protection wraps the whole router so every POST form is covered.
	protect := csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"))

	return protect(r), nil
}

// newPhotoStore selects the photo storage backend from config.
// StorageType has already been validated by ValidateConfig.
func newPhotoStore(appCfg AppConfig) (photostore.Store, error) {
	if appCfg.StorageType == "s3" {
		return photostore.NewS3(context.Background(), photostore.S3Config{
			Bucket: appCfg.StorageS3Bucket,
			Region: appCfg.StorageS3Region,
		})
	}
	return photostore.NewLocal(appCfg.StorageLocalPath)
}

// blockKeyBytes returns nil for a blank block key so securecookie signs
// without encrypting rather than failing on a zero-length AES key.
func blockKeyBytes(key string) []byte {
	if key == "" {
		return nil
	}
	return []byte(key)
}
