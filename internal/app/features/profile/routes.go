// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/kartsforkids/pitlane/internal/app/system/auth"
)

// Routes mounts the signed-in user's own profile pages.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Post("/", h.HandleUpdateProfile)
		pr.Post("/password", h.HandleChangePassword)
	})

	return r
}
