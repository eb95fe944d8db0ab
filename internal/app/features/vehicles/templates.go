// internal/app/features/vehicles/templates.go
package vehicles

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "vehicles",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
