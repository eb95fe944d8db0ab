// internal/app/features/kids/routes.go
package kids

import (
	"github.com/go-chi/chi/v5"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
)

// Routes mounts all kid routes under the mount point chosen by
// bootstrap (typically "/kids").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Photo access is token-gated; the detail page is owner-checked in
	// the handler so parents can see their own kids.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/photo", h.ServePhoto)
		pr.Get("/{id}/view", h.ServeView)
		pr.Get("/{id}/family", h.ServeFamily)
		pr.Post("/{id}/family", h.HandleFamily)
	})

	// Everything else is staff-only.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Use(auth.RequireRole("admin", "instructor"))

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/delete", h.HandleDelete)

		pr.Get("/{id}/assign", h.ServeAssign)
		pr.Post("/{id}/assign", h.HandleAssign)
		pr.Post("/{id}/status", h.HandleFormStatus)
		pr.Post("/{id}/photo/delete", h.HandlePhotoDelete)
	})

	return r
}
