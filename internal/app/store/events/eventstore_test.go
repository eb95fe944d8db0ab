package eventstore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	eventstore "github.com/kartsforkids/pitlane/internal/app/store/events"
	"github.com/kartsforkids/pitlane/internal/domain/models"
	"github.com/kartsforkids/pitlane/internal/testutil"
)

func raceDay(daysFromNow int) time.Time {
	return time.Now().AddDate(0, 0, daysFromNow).Truncate(24 * time.Hour)
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Event{
		Name:     "  Spring Cup ",
		Date:     raceDay(30),
		Location: " City Speedway ",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Spring Cup" {
		t.Errorf("name not trimmed: %q", created.Name)
	}
	if created.Location != "City Speedway" {
		t.Errorf("location not trimmed: %q", created.Location)
	}
	if created.Status != models.StatusActive {
		t.Errorf("default status: %q", created.Status)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.Event{Name: "  ", Date: raceDay(1)})
	if !errors.Is(err, eventstore.ErrNameRequired) {
		t.Errorf("blank name: expected ErrNameRequired, got %v", err)
	}

	_, err = store.Create(ctx, models.Event{Name: "No Date Cup"})
	if !errors.Is(err, eventstore.ErrDateRequired) {
		t.Errorf("zero date: expected ErrDateRequired, got %v", err)
	}
}

func TestStore_Upcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past, err := store.Create(ctx, models.Event{Name: "Last Season Final", Date: raceDay(-60)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	future, err := store.Create(ctx, models.Event{Name: "Summer Sprint", Date: raceDay(14)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upcoming, err := store.Upcoming(ctx, time.Now())
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}

	var sawFuture bool
	for _, e := range upcoming {
		if e.ID == past.ID {
			t.Error("past event returned from Upcoming")
		}
		if e.ID == future.ID {
			sawFuture = true
		}
	}
	if !sawFuture {
		t.Error("future event missing from Upcoming")
	}
}

func TestStore_ListByHost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostID := primitive.NewObjectID()
	mine, err := store.Create(ctx, models.Event{Name: "Hosted Heat", Date: raceDay(7), HostID: &hostID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Event{Name: "Unhosted Heat", Date: raceDay(7)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	events, err := store.ListByHost(ctx, hostID)
	if err != nil {
		t.Fatalf("ListByHost failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != mine.ID {
		t.Errorf("expected only the hosted event, got %d events", len(events))
	}
}

func TestStore_Update_ClearsHost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := eventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hostID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Event{Name: "Autumn Open", Date: raceDay(45), HostID: &hostID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, eventstore.Update{
		Name:   "Autumn Open",
		Date:   raceDay(46),
		Status: models.StatusActive,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.HostID != nil {
		t.Errorf("expected host cleared, got %v", got.HostID)
	}
}
