// internal/app/system/csvutil/export.go
//
// Roster CSV export. The whole record set is materialized in memory and
// written in one pass; there is no paging or streaming. Every field is
// double-quoted so spreadsheet tools never misparse commas inside
// addresses or comments, and a UTF-8 BOM is prepended for right-to-left
// locales so Hebrew text renders correctly in external tools.
package csvutil

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

// utf8BOM is prepended when the export language is right-to-left.
const utf8BOM = "\uFEFF"

// ExportOptions selects which column groups appear and which records are
// included. Group order in the output is fixed: personal, parents, team,
// instructor, timestamps.
type ExportOptions struct {
	IncludePersonal   bool
	IncludeParents    bool
	IncludeTeam       bool
	IncludeInstructor bool
	IncludeTimestamps bool

	// Filters applied before formatting. Empty means "all".
	Status string // form status
	TeamID string // team ObjectID hex

	Lang string // "en" or "he"
}

// labels per column group and language, in fixed group order.
var headerLabels = map[string]map[string][]string{
	"en": {
		"personal":   {"Racer #", "First Name", "Last Name", "Birth Date", "Age", "Address", "Declaration", "Form Status"},
		"parents":    {"Parent Name", "Parent Email", "Parent Phone", "Second Parent Name", "Second Parent Email", "Second Parent Phone"},
		"team":       {"Team"},
		"instructor": {"Instructor"},
		"timestamps": {"Created At", "Updated At"},
	},
	"he": {
		"personal":   {"מספר רוכב", "שם פרטי", "שם משפחה", "תאריך לידה", "גיל", "כתובת", "הצהרה", "סטטוס טופס"},
		"parents":    {"שם הורה", "אימייל הורה", "טלפון הורה", "שם הורה שני", "אימייל הורה שני", "טלפון הורה שני"},
		"team":       {"קבוצה"},
		"instructor": {"מדריך"},
		"timestamps": {"נוצר בתאריך", "עודכן בתאריך"},
	},
}

var yesNo = map[string][2]string{
	"en": {"Yes", "No"},
	"he": {"כן", "לא"},
}

func lang(opts ExportOptions) string {
	if opts.Lang == "he" {
		return "he"
	}
	return "en"
}

// Headers assembles the header row by concatenating the labels of the
// enabled groups, in fixed group order.
func Headers(opts ExportOptions) []string {
	l := headerLabels[lang(opts)]
	var out []string
	if opts.IncludePersonal {
		out = append(out, l["personal"]...)
	}
	if opts.IncludeParents {
		out = append(out, l["parents"]...)
	}
	if opts.IncludeTeam {
		out = append(out, l["team"]...)
	}
	if opts.IncludeInstructor {
		out = append(out, l["instructor"]...)
	}
	if opts.IncludeTimestamps {
		out = append(out, l["timestamps"]...)
	}
	return out
}

// Filter returns the kids that pass the status and team filters.
func Filter(kids []models.Kid, opts ExportOptions) []models.Kid {
	out := make([]models.Kid, 0, len(kids))
	for _, k := range kids {
		if opts.Status != "" && k.FormStatus != opts.Status {
			continue
		}
		if opts.TeamID != "" {
			if k.TeamID == nil || k.TeamID.Hex() != opts.TeamID {
				continue
			}
		}
		out = append(out, k)
	}
	return out
}

// BuildRows formats the given kids into data rows matching Headers.
// teamNames and instructorNames map ObjectID hex to display name; they
// are joined lookups computed by the caller. Derived fields (age, team
// name) are computed here at row-build time, never stored. now anchors
// the age computation.
func BuildRows(kids []models.Kid, teamNames, instructorNames map[string]string, opts ExportOptions, now time.Time) [][]string {
	kids = Filter(kids, opts)
	yn := yesNo[lang(opts)]

	rows := make([][]string, 0, len(kids))
	for _, k := range kids {
		var row []string
		if opts.IncludePersonal {
			declaration := yn[1]
			if k.DeclarationSigned {
				declaration = yn[0]
			}
			row = append(row,
				fmt.Sprintf("%d", k.RacerNumber),
				k.FirstName,
				k.LastName,
				k.BirthDate,
				ageString(k.BirthDate, now),
				k.Address,
				declaration,
				k.FormStatus,
			)
		}
		if opts.IncludeParents {
			second := models.ParentInfo{}
			if k.SecondParent != nil {
				second = *k.SecondParent
			}
			row = append(row,
				k.Parent.FullName,
				k.Parent.Email,
				k.Parent.Phone,
				second.FullName,
				second.Email,
				second.Phone,
			)
		}
		if opts.IncludeTeam {
			row = append(row, lookupName(k.TeamID, teamNames))
		}
		if opts.IncludeInstructor {
			row = append(row, lookupName(k.InstructorID, instructorNames))
		}
		if opts.IncludeTimestamps {
			row = append(row,
				formatTimestamp(k.CreatedAt),
				formatTimestamp(k.UpdatedAt),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteKids writes the full export document: optional BOM, header row,
// then one row per kid. Every field is double-quoted; missing values
// render as empty quoted strings.
func WriteKids(w io.Writer, kids []models.Kid, teamNames, instructorNames map[string]string, opts ExportOptions, now time.Time) error {
	if lang(opts) == "he" {
		if _, err := io.WriteString(w, utf8BOM); err != nil {
			return err
		}
	}
	if err := writeRow(w, Headers(opts)); err != nil {
		return err
	}
	for _, row := range BuildRows(kids, teamNames, instructorNames, opts, now) {
		if err := writeRow(w, row); err != nil {
			return err
		}
	}
	return nil
}

// Filename builds the download name. The pattern encodes role scope,
// status filter, team filter, date, and language suffix.
func Filename(role string, opts ExportOptions, now time.Time) string {
	status := opts.Status
	if status == "" {
		status = "all"
	}
	team := opts.TeamID
	if team == "" {
		team = "all"
	}
	return fmt.Sprintf("kids_%s_%s_%s_%s_%s.csv",
		role, status, team, now.Format("2006-01-02"), lang(opts))
}

func writeRow(w io.Writer, fields []string) error {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(parts, ",")+"\n")
	return err
}

func lookupName(id *primitive.ObjectID, names map[string]string) string {
	if id == nil {
		return ""
	}
	return names[id.Hex()]
}

func ageString(birthDate string, now time.Time) string {
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return ""
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return ""
	}
	return fmt.Sprintf("%d", age)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
