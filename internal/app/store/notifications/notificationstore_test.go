package notificationstore_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/fitzone/internal/app/store"
	notificationstore "github.com/dalemusser/fitzone/internal/app/store/notifications"
	"github.com/dalemusser/fitzone/internal/domain/models"
	"github.com/dalemusser/fitzone/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_IsActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := s.Create(ctx, models.Notification{Title: "Holiday", Message: "Closed Monday", TargetRole: "member"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !n.IsActive {
		t.Error("expected new notification to be active")
	}
	if n.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_ListActive_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	fx.CreateNotification(ctx, "old", true, now.Add(-2*time.Hour))
	fx.CreateNotification(ctx, "hidden", false, now.Add(-time.Hour))
	fx.CreateNotification(ctx, "new", true, now)

	active, err := s.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}
	if active[0].Title != "new" || active[1].Title != "old" {
		t.Errorf("unexpected order: %q, %q", active[0].Title, active[1].Title)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 notifications, got %d", len(all))
	}
}

func TestStore_SetActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	s := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n := fx.CreateNotification(ctx, "n", true, time.Now().UTC())
	if err := s.SetActive(ctx, n.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, err := s.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected notification to be inactive")
	}

	if err := s.SetActive(ctx, primitive.NewObjectID(), true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
