package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/courtgrid/internal/db"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/models"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// InsertResource stores a resource and returns it. Zero hours default to an
// 08:00-22:00 window.
func InsertResource(t *testing.T, database *db.DB, name string, kind models.ResourceKind, ownerID string) models.Resource {
	t.Helper()
	return InsertResourceWithWindow(t, database, name, kind, ownerID, 8, 22)
}

func InsertResourceWithWindow(t *testing.T, database *db.DB, name string, kind models.ResourceKind, ownerID string, openHour, closeHour int) models.Resource {
	t.Helper()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.NewString()
	params := dbgen.CreateResourceParams{
		ID:        id,
		Slug:      id,
		Name:      name,
		Kind:      string(kind),
		OwnerID:   ownerID,
		OpenHour:  int64(openHour),
		CloseHour: int64(closeHour),
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := database.Queries.CreateResource(context.Background(), params); err != nil {
		t.Fatalf("insert resource: %v", err)
	}
	row, err := database.Queries.GetResource(context.Background(), id)
	if err != nil {
		t.Fatalf("load resource: %v", err)
	}
	return models.ResourceFromDB(row)
}

// Clock is a controllable clock for tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}
