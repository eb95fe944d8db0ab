// internal/app/features/forms/routes.go
package forms

import (
	"github.com/go-chi/chi/v5"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
)

// Routes mounts form administration and the parent-facing fill flow.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Any signed-in user can browse open forms and submit a response.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/open", h.ServeOpen)
		pr.Get("/{id}/fill", h.ServeFill)
		pr.Post("/{id}/submit", h.HandleSubmit)
	})

	// Building, opening, and reviewing forms is admin work.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/status", h.HandleStatus)
		pr.Post("/{id}/delete", h.HandleDelete)
		pr.Get("/{id}/submissions", h.ServeSubmissions)
		pr.Post("/submissions/{sid}/status", h.HandleSubmissionStatus)
	})

	return r
}
