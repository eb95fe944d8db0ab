package reports

import (
	"net/http/httptest"
	"testing"
)

func TestOptsFromQuery_DefaultsToAllColumns(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/kids.csv", nil)

	opts := optsFromQuery(r)
	if !opts.IncludePersonal || !opts.IncludeParents || !opts.IncludeTeam ||
		!opts.IncludeInstructor || !opts.IncludeTimestamps {
		t.Errorf("bare request should include every column group: %+v", opts)
	}
}

func TestOptsFromQuery_SelectedGroupsOnly(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/kids.csv?include=personal&include=team", nil)

	opts := optsFromQuery(r)
	if !opts.IncludePersonal || !opts.IncludeTeam {
		t.Errorf("selected groups missing: %+v", opts)
	}
	if opts.IncludeParents || opts.IncludeInstructor || opts.IncludeTimestamps {
		t.Errorf("unselected groups included: %+v", opts)
	}
}

func TestOptsFromQuery_Filters(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/kids.csv?status=completed&team=abc123&lang=he", nil)

	opts := optsFromQuery(r)
	if opts.Status != "completed" {
		t.Errorf("status: %q", opts.Status)
	}
	if opts.TeamID != "abc123" {
		t.Errorf("team: %q", opts.TeamID)
	}
	if opts.Lang != "he" {
		t.Errorf("lang: %q", opts.Lang)
	}
}

func TestOptsFromQuery_RejectsUnknownStatus(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/kids.csv?status=bogus", nil)

	if opts := optsFromQuery(r); opts.Status != "" {
		t.Errorf("unknown status should be dropped, got %q", opts.Status)
	}
}

func TestOptsFromQuery_IgnoresUnknownGroups(t *testing.T) {
	r := httptest.NewRequest("GET", "/reports/kids.csv?include=personal&include=bogus", nil)

	opts := optsFromQuery(r)
	if !opts.IncludePersonal {
		t.Error("known group dropped")
	}
	if opts.IncludeParents || opts.IncludeTeam || opts.IncludeInstructor || opts.IncludeTimestamps {
		t.Errorf("unknown group turned something on: %+v", opts)
	}
}
