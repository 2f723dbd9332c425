package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/testutil"
)

func setupCalendar(t *testing.T) (*Calendar, models.Resource) {
	t.Helper()

	database := testutil.NewTestDB(t)
	res := testutil.InsertResource(t, database, "Terrain 3", models.ResourceKindFacility, "manager-1")
	clk := testutil.NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return New(database.Queries, clk), res
}

func span(res models.Resource, hour, hours int) models.Span {
	return models.Span{ResourceID: res.ID, Date: "2024-03-15", StartHour: hour, Hours: hours}
}

func TestOccupyAndRelease(t *testing.T) {
	cal, res := setupCalendar(t)
	ctx := context.Background()
	key := models.SlotKey{ResourceID: res.ID, Date: "2024-03-15", Hour: 18}
	holder := models.Holder{Kind: models.HolderRequest, ID: "req-1"}

	free, err := cal.IsFree(ctx, key)
	if err != nil {
		t.Fatalf("is free: %v", err)
	}
	if !free {
		t.Fatal("expected slot to start free")
	}

	if err := cal.Occupy(ctx, res, span(res, 18, 1), holder, models.OccupancyHeld); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if free, _ := cal.IsFree(ctx, key); free {
		t.Fatal("expected slot to be occupied")
	}

	other := models.Holder{Kind: models.HolderRequest, ID: "req-2"}
	if err := cal.Occupy(ctx, res, span(res, 18, 1), other, models.OccupancyHeld); !errors.Is(err, models.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	if err := cal.Release(ctx, span(res, 18, 1), "req-2"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound releasing someone else's slot, got %v", err)
	}
	if free, _ := cal.IsFree(ctx, key); free {
		t.Fatal("slot must stay occupied after a foreign release")
	}

	if err := cal.Release(ctx, span(res, 18, 1), "req-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if free, _ := cal.IsFree(ctx, key); !free {
		t.Fatal("expected slot to be free after release")
	}
}

func TestOccupy_OutsideOperatingWindow(t *testing.T) {
	cal, res := setupCalendar(t)
	holder := models.Holder{Kind: models.HolderBooking, ID: "bk-1"}

	tests := []struct {
		name  string
		hour  int
		hours int
	}{
		{name: "before open", hour: 7, hours: 1},
		{name: "at close", hour: 22, hours: 1},
		{name: "span runs past close", hour: 21, hours: 2},
		{name: "empty span", hour: 10, hours: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := cal.Occupy(context.Background(), res, span(res, tc.hour, tc.hours), holder, models.OccupancyConfirmed)
			if !errors.Is(err, models.ErrInvalidSlot) {
				t.Fatalf("expected ErrInvalidSlot, got %v", err)
			}
		})
	}
}

func TestOccupy_SpanIsAllOrNothing(t *testing.T) {
	cal, res := setupCalendar(t)
	ctx := context.Background()

	first := models.Holder{Kind: models.HolderBooking, ID: "bk-1"}
	if err := cal.Occupy(ctx, res, span(res, 19, 1), first, models.OccupancyConfirmed); err != nil {
		t.Fatalf("occupy 19:00: %v", err)
	}

	second := models.Holder{Kind: models.HolderRequest, ID: "req-1"}
	if err := cal.Occupy(ctx, res, span(res, 18, 3), second, models.OccupancyHeld); !errors.Is(err, models.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	free, err := cal.IsFree(ctx, models.SlotKey{ResourceID: res.ID, Date: "2024-03-15", Hour: 18})
	if err != nil {
		t.Fatalf("is free: %v", err)
	}
	if !free {
		t.Fatal("18:00 must be released when the span could not be fully occupied")
	}
}

func TestConfirm(t *testing.T) {
	cal, res := setupCalendar(t)
	ctx := context.Background()
	holder := models.Holder{Kind: models.HolderRequest, ID: "req-1"}

	if err := cal.Confirm(ctx, span(res, 18, 1), "req-1", "bk-1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound confirming an unheld slot, got %v", err)
	}

	if err := cal.Occupy(ctx, res, span(res, 18, 2), holder, models.OccupancyHeld); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if err := cal.Confirm(ctx, span(res, 18, 2), "req-1", "bk-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	occ, ok, err := cal.Get(ctx, models.SlotKey{ResourceID: res.ID, Date: "2024-03-15", Hour: 19})
	if err != nil || !ok {
		t.Fatalf("get occupancy: ok=%v err=%v", ok, err)
	}
	if occ.State != models.OccupancyConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", occ.State)
	}
	if occ.Holder.Kind != models.HolderBooking || occ.Holder.ID != "bk-1" {
		t.Fatalf("expected booking holder bk-1, got %+v", occ.Holder)
	}

	held, err := cal.HeldBy(ctx, span(res, 18, 2), "req-1")
	if err != nil {
		t.Fatalf("held by: %v", err)
	}
	if held {
		t.Fatal("request must no longer hold confirmed slots")
	}
}

func TestListSlots(t *testing.T) {
	cal, res := setupCalendar(t)
	ctx := context.Background()

	if err := cal.Occupy(ctx, res, span(res, 18, 1), models.Holder{Kind: models.HolderRequest, ID: "req-1"}, models.OccupancyHeld); err != nil {
		t.Fatalf("occupy held: %v", err)
	}
	if err := cal.Occupy(ctx, res, span(res, 20, 1), models.Holder{Kind: models.HolderBooking, ID: "bk-1"}, models.OccupancyConfirmed); err != nil {
		t.Fatalf("occupy confirmed: %v", err)
	}

	views, err := cal.ListSlots(ctx, res, "2024-03-15", "2024-03-16")
	if err != nil {
		t.Fatalf("list slots: %v", err)
	}
	if want := 2 * (res.CloseHour - res.OpenHour); len(views) != want {
		t.Fatalf("expected %d slots, got %d", want, len(views))
	}

	byKey := make(map[string]models.SlotView, len(views))
	for _, v := range views {
		byKey[v.Date+" "+v.StartTime] = v
	}
	checks := map[string]models.OccupancyState{
		"2024-03-15 18:00": models.OccupancyHeld,
		"2024-03-15 19:00": models.OccupancyFree,
		"2024-03-15 20:00": models.OccupancyConfirmed,
		"2024-03-16 18:00": models.OccupancyFree,
	}
	for slot, want := range checks {
		got, ok := byKey[slot]
		if !ok {
			t.Fatalf("missing slot %s", slot)
		}
		if got.Status != want {
			t.Errorf("%s: expected %s, got %s", slot, want, got.Status)
		}
	}
	if h := byKey["2024-03-15 20:00"].Holder; h == nil || h.ID != "bk-1" {
		t.Fatalf("expected booking holder on 20:00, got %+v", h)
	}

	if _, err := cal.ListSlots(ctx, res, "2024-03-16", "2024-03-15"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for reversed range, got %v", err)
	}
}
