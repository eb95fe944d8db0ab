package users_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/kartsforkids/pitlane/internal/app/features/errors"
	"github.com/kartsforkids/pitlane/internal/app/features/users"
	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "log", Admin: "log"})
	handler := users.NewHandler(db, errLog, auditLog, logger)
	return handler, testutil.NewFixtures(t, db)
}

func postForm(target string, form url.Values, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, user)
}

func validUserForm() url.Values {
	return url.Values{
		"display_name": {"Yossi"},
		"full_name":    {"Yossi Cohen"},
		"email":        {"yossi@example.com"},
		"phone":        {"0501234567"},
		"role":         {"instructor"},
		"status":       {"active"},
		"password":     {"sufficiently-long"},
	}
}

func TestHandleCreate_PairedWrite(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, postForm("/users", validUserForm(), testutil.AdminUser()))

	rec.AssertRedirect(t, "/users")

	db := fixtures.DB()
	var user struct {
		FullName string `bson:"full_name"`
		Role     string `bson:"role"`
		Status   string `bson:"status"`
	}
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "yossi@example.com"}).Decode(&user); err != nil {
		t.Fatalf("FindOne user failed: %v", err)
	}
	if user.FullName != "Yossi Cohen" {
		t.Errorf("FullName: got %q, want %q", user.FullName, "Yossi Cohen")
	}
	if user.Role != "instructor" {
		t.Errorf("Role: got %q, want %q", user.Role, "instructor")
	}

	credCount, err := db.Collection("credentials").CountDocuments(ctx, bson.M{"email": "yossi@example.com"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if credCount != 1 {
		t.Errorf("expected 1 credential, got %d", credCount)
	}
}

func TestHandleCreate_InvalidEmail_NothingWritten(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := validUserForm()
	form.Set("email", "not-an-email")

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleCreate(rec.ResponseRecorder, postForm("/users", form, testutil.AdminUser()))
	}()

	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	db := fixtures.DB()
	credCount, _ := db.Collection("credentials").CountDocuments(ctx, bson.M{})
	if credCount != 0 {
		t.Errorf("expected 0 credentials for rejected email, got %d", credCount)
	}
	userCount, _ := db.Collection("users").CountDocuments(ctx, bson.M{})
	if userCount != 0 {
		t.Errorf("expected 0 users for rejected email, got %d", userCount)
	}
}

func TestHandleCreate_ProfileFailure_RollsBackCredential(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Valid credential fields but a phone the profile validation rejects,
	// so the second half of the paired write fails.
	form := validUserForm()
	form.Set("phone", "123")

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleCreate(rec.ResponseRecorder, postForm("/users", form, testutil.AdminUser()))
	}()

	db := fixtures.DB()
	credCount, _ := db.Collection("credentials").CountDocuments(ctx, bson.M{"email": "yossi@example.com"})
	if credCount != 0 {
		t.Errorf("expected credential to be rolled back, found %d", credCount)
	}
	userCount, _ := db.Collection("users").CountDocuments(ctx, bson.M{"email": "yossi@example.com"})
	if userCount != 0 {
		t.Errorf("expected 0 users after rollback, got %d", userCount)
	}
}

func TestHandleDelete_RevokesCredentialAndProfile(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Create through the handler so both halves of the account exist.
	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, postForm("/users", validUserForm(), testutil.AdminUser()))
	rec.AssertRedirect(t, "/users")

	db := fixtures.DB()
	var user struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "yossi@example.com"}).Decode(&user); err != nil {
		t.Fatalf("FindOne user failed: %v", err)
	}
	id := user.ID.Hex()

	req := testutil.NewRequest("POST", "/users/"+id+"/delete")
	req = testutil.WithChiURLParam(req, "id", id)
	req = testutil.WithUser(req, testutil.AdminUser())

	rec = testutil.NewRecorder()
	handler.HandleDelete(rec.ResponseRecorder, req)
	rec.AssertRedirect(t, "/users")

	userCount, _ := db.Collection("users").CountDocuments(ctx, bson.M{"email": "yossi@example.com"})
	if userCount != 0 {
		t.Errorf("expected profile deleted, found %d", userCount)
	}
	credCount, _ := db.Collection("credentials").CountDocuments(ctx, bson.M{"email": "yossi@example.com"})
	if credCount != 0 {
		t.Errorf("expected credential revoked, found %d", credCount)
	}
}

func TestHandleDelete_Self_Rejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Self Admin", "selfadmin@example.com")
	actor := testutil.TestUser{ID: admin.ID.Hex(), Name: admin.FullName, Email: admin.Email, Role: "admin"}

	req := testutil.NewRequest("POST", "/users/"+admin.ID.Hex()+"/delete")
	req = testutil.WithChiURLParam(req, "id", admin.ID.Hex())
	req = testutil.WithUser(req, actor)

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleDelete(rec.ResponseRecorder, req)
	}()

	count, _ := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": admin.ID})
	if count != 1 {
		t.Errorf("self-delete must be rejected; user count got %d, want 1", count)
	}
}
