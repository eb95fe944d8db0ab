package reports_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/kartsforkids/pitlane/internal/app/features/errors"
	"github.com/kartsforkids/pitlane/internal/app/features/reports"
	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func newTestHandler(t *testing.T) (*reports.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "log", Admin: "log"})
	handler := reports.NewHandler(db, errLog, auditLog, logger)
	return handler, testutil.NewFixtures(t, db)
}

func TestServeKidsCSV_FullRoster(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateKid(ctx, "Noa", "Levi")
	fixtures.CreateKid(ctx, "Omer", "Mizrahi")

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv", testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type: got %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition: got %q", cd)
	}

	rec.AssertContains(t, `"First Name"`)
	rec.AssertContains(t, `"Noa"`)
	rec.AssertContains(t, `"Omer"`)
	rec.AssertContains(t, `"Team"`)
}

func TestServeKidsCSV_Hebrew_PrependsBOM(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateKid(ctx, "Noa", "Levi")

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv?lang=he", testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\uFEFF") {
		t.Error("Hebrew export should start with a UTF-8 BOM")
	}
	rec.AssertContains(t, "שם פרטי")
}

func TestServeKidsCSV_PersonalOnly_NoTeamColumns(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateKid(ctx, "Noa", "Levi")

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv?include=personal", testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"First Name"`)
	body := rec.Body.String()
	if strings.Contains(body, `"Team"`) {
		t.Error("team column should be excluded")
	}
	if strings.Contains(body, `"Parent Name"`) {
		t.Error("parent columns should be excluded")
	}
}

func TestServeKidsCSV_StatusFilter(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateKid(ctx, "Pending", "Kid")
	done := fixtures.CreateKid(ctx, "Completed", "Kid")
	_, err := fixtures.DB().Collection("kids").UpdateByID(ctx, done.ID,
		map[string]interface{}{"$set": map[string]interface{}{"form_status": "completed"}})
	if err != nil {
		t.Fatalf("update form_status failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv?status=completed", testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"Completed"`)
	if strings.Contains(rec.Body.String(), `"Pending"`) {
		t.Error("pending kid should be filtered out")
	}
}

func TestServeKidsCSV_ParentForbidden(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv", testutil.ParentUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/forbidden")
}

func TestServeKidsCSV_HostAllowed(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateKid(ctx, "Noa", "Levi")

	req := testutil.NewAuthenticatedRequest("GET", "/reports/kids.csv", testutil.HostUser())

	rec := testutil.NewRecorder()
	handler.ServeKidsCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, `"Noa"`)
}
