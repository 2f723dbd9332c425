package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/booking"
	"github.com/codr1/courtgrid/internal/calendar"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to the shared scheduler singleton.

type fakeExpirer struct {
	mu        sync.Mutex
	pending   []string
	failing   map[string]bool
	resolved  map[string]bool
	listCalls int
	listErr   error
	listed    chan struct{}
}

func (f *fakeExpirer) ListExpiredRequests(_ context.Context, _ time.Time, limit int) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listed != nil {
		select {
		case f.listed <- struct{}{}:
		default:
		}
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Request
	for _, id := range f.pending {
		if len(out) == limit {
			break
		}
		out = append(out, models.Request{ID: id, Status: models.RequestStatusPending})
	}
	return out, nil
}

func (f *fakeExpirer) ExpireRequest(_ context.Context, id string) (models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] {
		return models.Request{}, models.ErrStoreUnavailable
	}
	f.remove(id)
	if f.resolved[id] {
		return models.Request{}, models.ErrInvalidTransition
	}
	return models.Request{ID: id, Status: models.RequestStatusExpired}, nil
}

func (f *fakeExpirer) remove(id string) {
	for i, p := range f.pending {
		if p == id {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			return
		}
	}
}

func TestExpirePendingRequests_Batches(t *testing.T) {
	f := &fakeExpirer{pending: []string{"r1", "r2", "r3", "r4", "r5"}, resolved: map[string]bool{"r2": true}}

	result, err := ExpirePendingRequests(context.Background(), f, time.Now(), 2)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Expired != 4 || result.Skipped != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(f.pending) != 0 {
		t.Fatalf("expected every request handled, %v remain", f.pending)
	}
}

func TestExpirePendingRequests_FailuresStopWithoutLooping(t *testing.T) {
	f := &fakeExpirer{pending: []string{"r1", "r2"}, failing: map[string]bool{"r1": true, "r2": true}}

	result, err := ExpirePendingRequests(context.Background(), f, time.Now(), 2)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Failed != 2 || result.Expired != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if f.listCalls != 1 {
		t.Fatalf("expected a single listing when nothing progresses, got %d", f.listCalls)
	}
}

func TestExpirePendingRequests_ListFailure(t *testing.T) {
	f := &fakeExpirer{listErr: errors.New("database is locked")}

	if _, err := ExpirePendingRequests(context.Background(), f, time.Now(), 10); err == nil {
		t.Fatal("expected list failure to be returned")
	}
	if _, err := ExpirePendingRequests(context.Background(), nil, time.Now(), 10); err == nil {
		t.Fatal("expected error for nil expirer")
	}
}

func TestExpirySweepFreesSlot(t *testing.T) {
	database := testutil.NewTestDB(t)
	clk := testutil.NewClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	terrain := testutil.InsertResource(t, database, "Terrain 3", models.ResourceKindFacility, "manager-1")
	o, err := booking.NewOrchestrator(database, booking.Options{Clock: clk})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	ctx := context.Background()

	req, err := o.SubmitRequest(ctx, booking.SubmitRequestInput{
		SenderID: "player-a", ReceiverID: "manager-1", ResourceRef: terrain.ID,
		Date: "2024-03-15", StartHour: 18, Kind: models.RequestKindFacilityBooking,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	result, err := ExpirePendingRequests(ctx, o, clk.Now(), 10)
	if err != nil {
		t.Fatalf("early sweep: %v", err)
	}
	if result.Expired != 0 {
		t.Fatalf("nothing should expire before the TTL, got %+v", result)
	}

	clk.Advance(24*time.Hour + time.Second)
	result, err = ExpirePendingRequests(ctx, o, clk.Now(), 10)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Expired != 1 {
		t.Fatalf("expected one expired request, got %+v", result)
	}

	free, err := calendar.New(database.Queries, clk).IsFree(ctx, models.SlotKey{ResourceID: terrain.ID, Date: "2024-03-15", Hour: 18})
	if err != nil {
		t.Fatalf("is free: %v", err)
	}
	if !free {
		t.Fatal("expected slot to be free right after the sweep")
	}

	if _, err := o.Respond(ctx, req.ID, "manager-1", models.DecisionAccept); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("expected late accept to fail with ErrInvalidTransition, got %v", err)
	}
}

func TestServiceValidation(t *testing.T) {
	svc, err := NewService()
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("", "* * * * *", func() {}); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("purge", " ", func() {}); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddIntervalJob("sweep", 0, func() {}); !errors.Is(err, ErrBadInterval) {
		t.Fatalf("expected ErrBadInterval, got %v", err)
	}
	if _, err := svc.AddJob("purge", "not a cron", func() {}); err == nil {
		t.Fatal("expected invalid cron expression to be rejected")
	}

	var nilService *Service
	if _, err := nilService.AddIntervalJob("sweep", time.Second, func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRegisterExpiryJobRunsOnInterval(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init scheduler: %v", err)
	}
	f := &fakeExpirer{listed: make(chan struct{}, 1)}

	if err := RegisterExpiryJob(f, nil, 20*time.Millisecond, 10); err != nil {
		t.Fatalf("register expiry job: %v", err)
	}
	if err := RegisterRetentionJob(nil, nil, "", 30); err == nil {
		t.Fatal("expected retention job without purger to be rejected")
	}
	if err := Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		if err := Stop(); err != nil {
			t.Errorf("stop: %v", err)
		}
	}()

	select {
	case <-f.listed:
	case <-time.After(2 * time.Second):
		t.Fatal("expiry job did not run within 2s")
	}
}
