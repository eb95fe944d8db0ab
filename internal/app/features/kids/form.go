// internal/app/features/kids/form.go
package kids

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// maxPhotoBytes caps racer photo uploads at 8 MB.
const maxPhotoBytes = 8 << 20

// kidFromForm builds a Kid from the posted registration form. The store
// normalizes and validates; this only maps fields.
func kidFromForm(r *http.Request) models.Kid {
	racerNumber, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("racer_number")))

	k := models.Kid{
		RacerNumber:     racerNumber,
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		BirthDate:       r.FormValue("birth_date"),
		Address:         r.FormValue("address"),
		CapabilityNotes: r.FormValue("capability_notes"),
		AnnouncerNotes:  r.FormValue("announcer_notes"),
		Parent: models.ParentInfo{
			FullName:         r.FormValue("parent_name"),
			Email:            r.FormValue("parent_email"),
			Phone:            r.FormValue("parent_phone"),
			GrandparentName:  r.FormValue("grandparent_name"),
			GrandparentPhone: r.FormValue("grandparent_phone"),
		},
		FormStatus:        r.FormValue("form_status"),
		DeclarationSigned: r.FormValue("declaration_signed") == "on" || r.FormValue("declaration_signed") == "true",
		Comments: models.KidComments{
			Parent:        r.FormValue("comment_parent"),
			Organization:  r.FormValue("comment_organization"),
			TeamLeader:    r.FormValue("comment_team_leader"),
			FamilyContact: r.FormValue("comment_family_contact"),
		},
	}

	second := models.ParentInfo{
		FullName:         r.FormValue("second_parent_name"),
		Email:            r.FormValue("second_parent_email"),
		Phone:            r.FormValue("second_parent_phone"),
		GrandparentName:  r.FormValue("second_grandparent_name"),
		GrandparentPhone: r.FormValue("second_grandparent_phone"),
	}
	if !second.Empty() {
		k.SecondParent = &second
	}

	for _, id := range r.Form["parent_ids"] {
		if id = strings.TrimSpace(id); id != "" {
			k.ParentIDs = append(k.ParentIDs, id)
		}
	}

	return k
}
