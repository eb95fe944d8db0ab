package kids_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	uierrors "github.com/kartsforkids/pitlane/internal/app/features/errors"
	"github.com/kartsforkids/pitlane/internal/app/features/kids"
	"github.com/kartsforkids/pitlane/internal/app/store/audit"
	"github.com/kartsforkids/pitlane/internal/app/system/auditlog"
	"github.com/kartsforkids/pitlane/internal/app/system/photostore"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func newTestHandler(t *testing.T, photos photostore.Store) (*kids.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "log", Admin: "log"})
	tokens, err := photostore.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), nil, 900)
	if err != nil {
		t.Fatalf("NewTokenCodec failed: %v", err)
	}
	handler := kids.NewHandler(db, errLog, auditLog, photos, tokens, logger)
	return handler, testutil.NewFixtures(t, db)
}

func localPhotoStore(t *testing.T) photostore.Store {
	t.Helper()
	store, err := photostore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	return store
}

// brokenPhotoStore fails every operation, standing in for an
// unreachable storage backend.
type brokenPhotoStore struct{}

func (brokenPhotoStore) Put(ctx context.Context, kidID, filename string, content io.Reader, contentType string) (string, error) {
	return "", errors.New("storage unavailable")
}

func (brokenPhotoStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("storage unavailable")
}

func (brokenPhotoStore) Delete(ctx context.Context, key string) error {
	return errors.New("storage unavailable")
}

func (brokenPhotoStore) Exists(ctx context.Context, key string) (bool, error) {
	return false, errors.New("storage unavailable")
}

// signingPhotoStore hands out a fixed download URL, like the S3 backend.
type signingPhotoStore struct {
	brokenPhotoStore
	url string
}

func (s signingPhotoStore) PresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return s.url, nil
}

func validKidForm() map[string]string {
	return map[string]string{
		"racer_number": "42",
		"first_name":   "Noa",
		"last_name":    "Levi",
		"birth_date":   "2015-06-09",
		"parent_name":  "Dana Levi",
		"parent_email": "dana@example.com",
		"parent_phone": "0501234567",
		"form_status":  "pending",
	}
}

// multipartRequest builds a multipart POST matching the registration
// form, with an optional photo part.
func multipartRequest(t *testing.T, target string, fields map[string]string, photo []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField %s failed: %v", k, err)
		}
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", "racer.jpg")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := fw.Write(photo); err != nil {
			t.Fatalf("write photo part failed: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t, localPhotoStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := multipartRequest(t, "/kids", validKidForm(), nil)
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/kids/") || !strings.HasSuffix(location, "/view") {
		t.Errorf("unexpected redirect location %q", location)
	}

	var kid struct {
		FirstName   string `bson:"first_name"`
		RacerNumber int    `bson:"racer_number"`
	}
	err := fixtures.DB().Collection("kids").FindOne(ctx, bson.M{"first_name": "Noa"}).Decode(&kid)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if kid.RacerNumber != 42 {
		t.Errorf("RacerNumber: got %d, want 42", kid.RacerNumber)
	}
}

func TestHandleCreate_PhotoUploaded(t *testing.T) {
	handler, fixtures := newTestHandler(t, localPhotoStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := multipartRequest(t, "/kids", validKidForm(), []byte("jpeg-bytes"))
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	if location := rec.Header().Get("Location"); strings.Contains(location, "photo_warn") {
		t.Errorf("successful upload should not warn: %q", location)
	}

	var kid struct {
		PhotoKey string `bson:"photo_key"`
	}
	err := fixtures.DB().Collection("kids").FindOne(ctx, bson.M{"first_name": "Noa"}).Decode(&kid)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if kid.PhotoKey == "" {
		t.Error("expected photo_key to be set after upload")
	}
}

func TestHandleCreate_PhotoFailure_WarnsAndKeepsKid(t *testing.T) {
	handler, fixtures := newTestHandler(t, brokenPhotoStore{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := multipartRequest(t, "/kids", validKidForm(), []byte("jpeg-bytes"))
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusSeeOther)
	location := rec.Header().Get("Location")
	if !strings.Contains(location, "photo_warn=1") {
		t.Errorf("expected photo warning in redirect, got %q", location)
	}

	// The registration itself must survive the failed upload.
	var kid struct {
		PhotoKey string `bson:"photo_key"`
	}
	err := fixtures.DB().Collection("kids").FindOne(ctx, bson.M{"first_name": "Noa"}).Decode(&kid)
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if kid.PhotoKey != "" {
		t.Errorf("photo_key should be empty after failed upload, got %q", kid.PhotoKey)
	}
}

func TestHandleCreate_ValidationError(t *testing.T) {
	handler, fixtures := newTestHandler(t, localPhotoStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := validKidForm()
	delete(form, "first_name")

	req := multipartRequest(t, "/kids", form, nil)
	req = testutil.WithUser(req, testutil.AdminUser())

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.HandleCreate(rec.ResponseRecorder, req)
	}()

	count, _ := fixtures.DB().Collection("kids").CountDocuments(ctx, bson.M{})
	if count != 0 {
		t.Errorf("expected 0 kids after validation failure, got %d", count)
	}
}

func TestHandleEdit_PhotoFailure_Warns(t *testing.T) {
	handler, fixtures := newTestHandler(t, brokenPhotoStore{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	kid := fixtures.CreateKid(ctx, "Noa", "Levi")

	form := validKidForm()
	req := multipartRequest(t, "/kids/"+kid.ID.Hex()+"/edit", form, []byte("jpeg-bytes"))
	req = testutil.WithChiURLParam(req, "id", kid.ID.Hex())
	req = testutil.WithUser(req, testutil.InstructorUser())

	rec := testutil.NewRecorder()
	handler.HandleEdit(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/kids/"+kid.ID.Hex()+"/view?photo_warn=1")
}

func TestServeView_UnrelatedParent_Forbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t, localPhotoStore(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	kid := fixtures.CreateKid(ctx, "Noa", "Levi")

	req := testutil.NewAuthenticatedRequest("GET", "/kids/"+kid.ID.Hex()+"/view", testutil.ParentUser())
	req = testutil.WithChiURLParam(req, "id", kid.ID.Hex())

	rec := testutil.NewRecorder()
	handler.ServeView(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/forbidden")
}

func TestServePhoto_SigningBackendRedirects(t *testing.T) {
	store := signingPhotoStore{url: "https://photos.example.com/signed"}
	handler, _ := newTestHandler(t, store)

	user := testutil.ParentUser()
	token, err := handler.Tokens.Issue("some/photo/key.jpg", user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/kids/photo?t="+token, user)

	rec := testutil.NewRecorder()
	handler.ServePhoto(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "https://photos.example.com/signed")
}

func TestServePhoto_MissingObject_NotFound(t *testing.T) {
	handler, _ := newTestHandler(t, localPhotoStore(t))

	user := testutil.ParentUser()
	token, err := handler.Tokens.Issue("gone/photo/key.jpg", user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/kids/photo?t="+token, user)

	rec := testutil.NewRecorder()
	func() {
		defer func() { recover() }()
		handler.ServePhoto(rec.ResponseRecorder, req)
	}()

	rec.AssertStatus(t, http.StatusNotFound)
}
