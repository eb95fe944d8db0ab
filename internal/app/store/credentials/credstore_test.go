package credstore_test

import (
	"errors"
	"testing"

	credstore "github.com/kartsforkids/pitlane/internal/app/store/credentials"
	"github.com/kartsforkids/pitlane/internal/app/system/indexes"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func TestStore_CreateAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cred, err := store.Create(ctx, " Dana@Example.COM ", "sufficiently-long")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if cred.Email != "dana@example.com" {
		t.Errorf("email not normalized: %q", cred.Email)
	}

	if _, err := store.Verify(ctx, "DANA@example.com", "sufficiently-long"); err != nil {
		t.Errorf("Verify with correct password failed: %v", err)
	}
	if _, err := store.Verify(ctx, "dana@example.com", "wrong-password!"); !errors.Is(err, credstore.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if _, err := store.Verify(ctx, "nobody@example.com", "whatever-pass"); !errors.Is(err, credstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Create_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "   ", "sufficiently-long"); !errors.Is(err, credstore.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail for blank email, got %v", err)
	}
	if _, err := store.Create(ctx, "not-an-email", "sufficiently-long"); !errors.Is(err, credstore.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail for malformed email, got %v", err)
	}
	if _, err := store.Create(ctx, "half@address", "sufficiently-long"); !errors.Is(err, credstore.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail for missing domain dot, got %v", err)
	}
	if _, err := store.Create(ctx, "dana@example.com", "short"); !errors.Is(err, credstore.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, "dana@example.com", "sufficiently-long"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, "DANA@example.com", "another-password"); !errors.Is(err, credstore.ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestStore_ChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "dana@example.com", "original-pass"); err != nil {
		t.Fatal(err)
	}

	if err := store.ChangePassword(ctx, "dana@example.com", "wrong-guess!", "next-password"); !errors.Is(err, credstore.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if err := store.ChangePassword(ctx, "dana@example.com", "original-pass", "next-password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := store.Verify(ctx, "dana@example.com", "next-password"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
	if _, err := store.Verify(ctx, "dana@example.com", "original-pass"); !errors.Is(err, credstore.ErrWrongPassword) {
		t.Error("old password still accepted")
	}
}

func TestStore_Revoke_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := credstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "dana@example.com", "sufficiently-long"); err != nil {
		t.Fatal(err)
	}

	n, err := store.Revoke(ctx, "DANA@example.com")
	if err != nil || n != 1 {
		t.Fatalf("Revoke: n=%d err=%v", n, err)
	}
	n, err = store.Revoke(ctx, "dana@example.com")
	if err != nil || n != 0 {
		t.Errorf("second Revoke: n=%d err=%v", n, err)
	}
}
