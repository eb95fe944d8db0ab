package csvutil

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kartsforkids/pitlane/internal/domain/models"
)

var exportNow = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

func exportKids() ([]models.Kid, map[string]string, map[string]string) {
	teamID := primitive.NewObjectID()
	instructorID := primitive.NewObjectID()

	kids := []models.Kid{
		{
			RacerNumber:       7,
			FirstName:         "Noam",
			LastName:          "Levi",
			BirthDate:         "2015-06-09",
			Address:           "12 Herzl St, Haifa",
			DeclarationSigned: true,
			FormStatus:        models.FormStatusCompleted,
			Parent: models.ParentInfo{
				FullName: "Dana Levi",
				Email:    "dana@example.com",
				Phone:    "0501234567",
			},
			TeamID:       &teamID,
			InstructorID: &instructorID,
			CreatedAt:    exportNow.AddDate(0, -1, 0),
			UpdatedAt:    exportNow,
		},
		{
			RacerNumber: 12,
			FirstName:   "Maya",
			LastName:    "Cohen",
			BirthDate:   "2017-01-02",
			FormStatus:  models.FormStatusPending,
			Parent: models.ParentInfo{
				FullName: "Rotem Cohen",
				Email:    "rotem@example.com",
				Phone:    "0521234567",
			},
		},
	}

	teams := map[string]string{teamID.Hex(): "Red Karts"}
	instructors := map[string]string{instructorID.Hex(): "Avi Mizrahi"}
	return kids, teams, instructors
}

func allGroups() ExportOptions {
	return ExportOptions{
		IncludePersonal:   true,
		IncludeParents:    true,
		IncludeTeam:       true,
		IncludeInstructor: true,
		IncludeTimestamps: true,
	}
}

func TestHeaders_GroupToggles(t *testing.T) {
	opts := allGroups()
	full := Headers(opts)

	opts.IncludeTeam = false
	withoutTeam := Headers(opts)

	if len(withoutTeam) != len(full)-1 {
		t.Fatalf("expected one fewer column, got %d vs %d", len(withoutTeam), len(full))
	}
	for _, h := range withoutTeam {
		if h == "Team" {
			t.Error("team column present despite toggle off")
		}
	}
}

// Disabling the team group must remove team columns from both the header
// and every data row.
func TestWriteKids_NoTeamColumns(t *testing.T) {
	kids, teams, instructors := exportKids()
	opts := allGroups()
	opts.IncludeTeam = false
	opts.IncludeInstructor = false

	var buf strings.Builder
	if err := WriteKids(&buf, kids, teams, instructors, opts, exportNow); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if strings.Contains(out, "Team") || strings.Contains(out, "Red Karts") {
		t.Errorf("team data leaked into export:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 data rows, got %d lines", len(lines))
	}
	want := len(Headers(opts))
	for i, line := range lines {
		if got := len(splitQuoted(t, line)); got != want {
			t.Errorf("line %d has %d fields, want %d", i, got, want)
		}
	}
}

func TestWriteKids_HebrewBOMAndLocalization(t *testing.T) {
	kids, teams, instructors := exportKids()
	opts := allGroups()
	opts.Lang = "he"

	var buf strings.Builder
	if err := WriteKids(&buf, kids, teams, instructors, opts, exportNow); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("Hebrew export missing UTF-8 BOM")
	}
	if !strings.Contains(out, "שם פרטי") {
		t.Error("Hebrew headers missing")
	}
	if !strings.Contains(out, `"כן"`) || !strings.Contains(out, `"לא"`) {
		t.Error("declaration not localized to Hebrew yes/no")
	}
}

func TestWriteKids_EnglishNoBOM(t *testing.T) {
	kids, teams, instructors := exportKids()

	var buf strings.Builder
	if err := WriteKids(&buf, kids, teams, instructors, allGroups(), exportNow); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(buf.String(), "\uFEFF") {
		t.Error("English export must not carry a BOM")
	}
	if !strings.Contains(buf.String(), `"Yes"`) {
		t.Error("declaration not rendered as Yes")
	}
}

func TestBuildRows_DerivedFields(t *testing.T) {
	kids, teams, instructors := exportKids()
	rows := BuildRows(kids, teams, instructors, allGroups(), exportNow)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Age column sits right after birth date in the personal group.
	if rows[0][4] != "11" {
		t.Errorf("age: got %q, want 11", rows[0][4])
	}
	if rows[1][4] != "9" {
		t.Errorf("age: got %q, want 9", rows[1][4])
	}

	// Team and instructor names resolve via the lookup maps; kids with
	// no assignment get empty fields.
	teamCol := 8 + 6 // personal + parents
	if rows[0][teamCol] != "Red Karts" {
		t.Errorf("team name: got %q", rows[0][teamCol])
	}
	if rows[1][teamCol] != "" {
		t.Errorf("unassigned kid team: got %q, want empty", rows[1][teamCol])
	}
	if rows[0][teamCol+1] != "Avi Mizrahi" {
		t.Errorf("instructor name: got %q", rows[0][teamCol+1])
	}
}

func TestFilter_StatusAndTeam(t *testing.T) {
	kids, _, _ := exportKids()

	opts := ExportOptions{Status: models.FormStatusPending}
	got := Filter(kids, opts)
	if len(got) != 1 || got[0].FirstName != "Maya" {
		t.Errorf("status filter: got %d kids", len(got))
	}

	opts = ExportOptions{TeamID: kids[0].TeamID.Hex()}
	got = Filter(kids, opts)
	if len(got) != 1 || got[0].FirstName != "Noam" {
		t.Errorf("team filter: got %d kids", len(got))
	}

	got = Filter(kids, ExportOptions{})
	if len(got) != 2 {
		t.Errorf("no filters: got %d kids, want all", len(got))
	}
}

func TestWriteKids_QuotingAndEscaping(t *testing.T) {
	kids, teams, instructors := exportKids()
	kids[0].Address = `12 "Herzl" St, Haifa`

	var buf strings.Builder
	if err := WriteKids(&buf, kids, teams, instructors, allGroups(), exportNow); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"12 ""Herzl"" St, Haifa"`) {
		t.Errorf("embedded quotes not doubled:\n%s", buf.String())
	}
}

func TestFilename(t *testing.T) {
	name := Filename("admin", ExportOptions{Lang: "he"}, exportNow)
	if name != "kids_admin_all_all_2026-08-23_he.csv" {
		t.Errorf("got %q", name)
	}

	name = Filename("instructor", ExportOptions{Status: models.FormStatusPending, TeamID: "abc123"}, exportNow)
	if name != "kids_instructor_pending_abc123_2026-08-23_en.csv" {
		t.Errorf("got %q", name)
	}
}

// splitQuoted splits a fully-quoted CSV line into its fields.
func splitQuoted(t *testing.T, line string) []string {
	t.Helper()
	if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
		t.Fatalf("line not fully quoted: %q", line)
	}
	return strings.Split(line[1:len(line)-1], `","`)
}
