package teamstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	teamstore "github.com/kartsforkids/pitlane/internal/app/store/teams"
	"github.com/kartsforkids/pitlane/internal/app/system/indexes"
	"github.com/kartsforkids/pitlane/internal/domain/models"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Team{Name: "  Red Rockets "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Red Rockets" {
		t.Errorf("name not trimmed: %q", created.Name)
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Status != models.StatusActive {
		t.Errorf("default status: %q", created.Status)
	}
}

func TestStore_Create_BlankName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Team{Name: "   "})
	if !errors.Is(err, teamstore.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.Team{Name: "Red Rockets"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same name with different case folds to the same NameCI.
	_, err := store.Create(ctx, models.Team{Name: "RED ROCKETS"})
	if !errors.Is(err, teamstore.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

func TestStore_Update_ClearsInstructor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	instructorID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Team{Name: "Blue Bolts", InstructorID: &instructorID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, teamstore.Update{
		Name:   "Blue Bolts",
		Status: models.StatusActive,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.InstructorID != nil {
		t.Errorf("expected instructor cleared, got %v", got.InstructorID)
	}
}

func TestStore_List_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Team{Name: "Active Team"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	disabled, err := store.Create(ctx, models.Team{Name: "Disabled Team", Status: models.StatusDisabled})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active, err := store.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, tm := range active {
		if tm.ID == disabled.ID {
			t.Error("disabled team returned from activeOnly list")
		}
	}

	all, err := store.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 teams, got %d", len(all))
	}
}

func TestStore_NameMap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Team{Name: "Green Machines"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	names, err := store.NameMap(ctx)
	if err != nil {
		t.Fatalf("NameMap failed: %v", err)
	}
	if names[created.ID.Hex()] != "Green Machines" {
		t.Errorf("name map entry: %q", names[created.ID.Hex()])
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := teamstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Team{Name: "Short Lived"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}
}
