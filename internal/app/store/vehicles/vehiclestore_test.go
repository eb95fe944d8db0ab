package vehiclestore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	vehiclestore "github.com/kartsforkids/pitlane/internal/app/store/vehicles"
	"github.com/kartsforkids/pitlane/internal/app/system/indexes"
	"github.com/kartsforkids/pitlane/internal/domain/models"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Vehicle{Number: 7, Nickname: "  Thunder "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Nickname != "Thunder" {
		t.Errorf("nickname not trimmed: %q", created.Nickname)
	}
	if created.Status != models.VehicleReady {
		t.Errorf("default status: %q", created.Status)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Vehicle{Number: 0})
	if !errors.Is(err, vehiclestore.ErrNumberRequired) {
		t.Errorf("zero number: expected ErrNumberRequired, got %v", err)
	}

	_, err = store.Create(ctx, models.Vehicle{Number: 3, Status: "scrapped"})
	if !errors.Is(err, vehiclestore.ErrBadStatus) {
		t.Errorf("bad status: expected ErrBadStatus, got %v", err)
	}
}

func TestStore_Create_DuplicateNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.Vehicle{Number: 12}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.Vehicle{Number: 12})
	if !errors.Is(err, vehiclestore.ErrDuplicateNumber) {
		t.Errorf("expected ErrDuplicateNumber, got %v", err)
	}
}

func TestStore_Update_NumberImmutable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Vehicle{Number: 9, Nickname: "Bolt"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Update(ctx, created.ID, "Lightning", models.VehicleMaintenance, "brake pads"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Number != 9 {
		t.Errorf("number changed: %d", got.Number)
	}
	if got.Nickname != "Lightning" || got.Status != models.VehicleMaintenance || got.Notes != "brake pads" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestStore_Ready(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ready, err := store.Create(ctx, models.Vehicle{Number: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Vehicle{Number: 2, Status: models.VehicleRetired}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	karts, err := store.Ready(ctx)
	if err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
	if len(karts) != 1 || karts[0].ID != ready.ID {
		t.Errorf("expected only the ready kart, got %d karts", len(karts))
	}
}

func TestStore_List_StatusFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := vehiclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Vehicle{Number: 4}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	shop, err := store.Create(ctx, models.Vehicle{Number: 5, Status: models.VehicleMaintenance})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	karts, err := store.List(ctx, models.VehicleMaintenance)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(karts) != 1 || karts[0].ID != shop.ID {
		t.Errorf("expected only the maintenance kart, got %d karts", len(karts))
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 karts, got %d", len(all))
	}
}
