// internal/app/features/reports/routes.go
package reports

import (
	"github.com/go-chi/chi/v5"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
)

// Routes mounts the export pages. Hosts get the roster too; they run
// race days and need the announcer columns.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "instructor", "host"))

		pr.Get("/kids", h.ServeKidsReport)
		pr.Get("/kids.csv", h.ServeKidsCSV)
	})

	return r
}
