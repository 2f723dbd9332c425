package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	"github.com/codr1/courtgrid/internal/config"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/testutil"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	clock   *testutil.Clock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, config.Default())
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	database := testutil.NewTestDB(t)
	clk := testutil.NewClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	a, err := newApp(ctx, cfg, database, clk)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	done := make(chan struct{})
	go func() {
		_ = a.hub.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		a.close()
	})

	return &testServer{t: t, handler: newHandler(a), clock: clk}
}

func (s *testServer) do(method, path, actor string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func expectErrorKind(t *testing.T, rec *httptest.ResponseRecorder, status int, kind models.Kind) {
	t.Helper()
	expectStatus(t, rec, status)
	if got := decode[apiutil.ErrorResponse](t, rec); got.Error != string(kind) {
		t.Fatalf("error kind = %q, want %q", got.Error, kind)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/resources", "manager-1", map[string]any{
		"name": "Terrain 1",
		"kind": "facility",
	})
	expectStatus(t, rec, http.StatusCreated)
	terrain := decode[models.Resource](t, rec)
	if terrain.Slug != "terrain-1" || terrain.OpenHour != 8 || terrain.CloseHour != 22 {
		t.Fatalf("resource = %+v", terrain)
	}

	// Missing actor.
	rec = s.do(http.MethodPost, "/api/v1/requests", "", map[string]any{"receiver_id": "manager-1"})
	expectStatus(t, rec, http.StatusUnauthorized)

	submit := map[string]any{
		"receiver_id": "manager-1",
		"resource":    "terrain-1",
		"date":        "2024-03-15",
		"start_time":  "18:00",
	}
	rec = s.do(http.MethodPost, "/api/v1/requests", "user-A", submit)
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.Request](t, rec)
	if created.Status != models.RequestStatusPending || created.StartHour != 18 {
		t.Fatalf("request = %+v", created)
	}

	rec = s.do(http.MethodPost, "/api/v1/requests", "user-B", submit)
	expectErrorKind(t, rec, http.StatusConflict, models.KindSlotTaken)

	// Stranger sees the slot as held, without the holder.
	rec = s.do(http.MethodGet, "/api/v1/resources/terrain-1/slots?from=2024-03-15", "user-B", nil)
	expectStatus(t, rec, http.StatusOK)
	grid := decode[struct {
		Slots []models.SlotView `json:"slots"`
	}](t, rec)
	var found bool
	for _, slot := range grid.Slots {
		if slot.Hour != 18 {
			continue
		}
		found = true
		if slot.Status != models.OccupancyHeld || slot.Holder != nil || slot.StartTime != "18:00" {
			t.Fatalf("slot 18 = %+v", slot)
		}
	}
	if !found {
		t.Fatal("slot 18 missing from grid")
	}

	rec = s.do(http.MethodPost, "/api/v1/requests/"+created.ID+"/respond", "user-A", map[string]any{"decision": "accept"})
	expectErrorKind(t, rec, http.StatusForbidden, models.KindUnauthorized)

	rec = s.do(http.MethodPost, "/api/v1/requests/"+created.ID+"/respond", "manager-1", map[string]any{"decision": "accept"})
	expectStatus(t, rec, http.StatusOK)
	accepted := decode[models.Request](t, rec)
	if accepted.Status != models.RequestStatusAccepted || accepted.BookingID == "" {
		t.Fatalf("accepted = %+v", accepted)
	}

	rec = s.do(http.MethodPost, "/api/v1/requests/"+created.ID+"/respond", "manager-1", map[string]any{"decision": "reject"})
	expectErrorKind(t, rec, http.StatusConflict, models.KindInvalidTransition)

	rec = s.do(http.MethodGet, "/api/v1/bookings/"+accepted.BookingID, "user-A", nil)
	expectStatus(t, rec, http.StatusOK)
	b := decode[models.Booking](t, rec)
	if b.Status != models.BookingStatusConfirmed || b.OwnerID != "user-A" || len(b.Reference) != 8 {
		t.Fatalf("booking = %+v", b)
	}

	rec = s.do(http.MethodGet, "/api/v1/requests?role=sent", "user-A", nil)
	expectStatus(t, rec, http.StatusOK)
	sent := decode[struct {
		Requests []models.Request `json:"requests"`
	}](t, rec)
	if len(sent.Requests) != 1 || sent.Requests[0].ID != created.ID {
		t.Fatalf("sent requests = %+v", sent.Requests)
	}

	rec = s.do(http.MethodGet, "/api/v1/events?after=0", "user-A", nil)
	expectStatus(t, rec, http.StatusOK)
	feed := decode[struct {
		Events []struct {
			ID   int64  `json:"id"`
			Type string `json:"type"`
		} `json:"events"`
		Next int64 `json:"next"`
	}](t, rec)
	if len(feed.Events) != 2 || feed.Events[0].Type != "RequestCreated" || feed.Events[1].Type != "RequestAccepted" {
		t.Fatalf("events = %+v", feed.Events)
	}
	if feed.Next != feed.Events[1].ID {
		t.Fatalf("next cursor = %d, want %d", feed.Next, feed.Events[1].ID)
	}
}

func TestDirectBookingOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/resources", "manager-1", map[string]any{
		"name":       "Court A",
		"kind":       "FACILITY",
		"open_hour":  9,
		"close_hour": 12,
	})
	expectStatus(t, rec, http.StatusCreated)

	book := map[string]any{"resource": "court-a", "date": "2024-03-15", "start_time": "10:00", "hours": 2}
	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-A", book)
	expectStatus(t, rec, http.StatusCreated)
	b := decode[models.Booking](t, rec)

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "court-a", "date": "2024-03-15", "start_time": "11:00"})
	expectErrorKind(t, rec, http.StatusConflict, models.KindSlotTaken)

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "court-a", "date": "2024-03-15", "start_time": "12:00"})
	expectErrorKind(t, rec, http.StatusUnprocessableEntity, models.KindOutsideOperatingWindow)

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "court-a", "date": "15/03/2024", "start_time": "09:00"})
	expectErrorKind(t, rec, http.StatusBadRequest, models.KindInvalidInput)

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "court-a", "date": "2024-03-15", "start_time": "09:00", "hours": -1})
	expectErrorKind(t, rec, http.StatusBadRequest, models.KindInvalidInput)

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "nowhere", "date": "2024-03-15", "start_time": "09:00"})
	expectErrorKind(t, rec, http.StatusNotFound, models.KindResourceUnknown)

	rec = s.do(http.MethodPost, "/api/v1/bookings/"+b.ID+"/cancel", "user-B", nil)
	expectErrorKind(t, rec, http.StatusForbidden, models.KindUnauthorized)

	rec = s.do(http.MethodPost, "/api/v1/bookings/"+b.ID+"/cancel", "user-A", nil)
	expectStatus(t, rec, http.StatusOK)
	if got := decode[models.Booking](t, rec); got.Status != models.BookingStatusCancelled {
		t.Fatalf("cancelled booking = %+v", got)
	}

	rec = s.do(http.MethodPost, "/api/v1/bookings", "user-B", map[string]any{"resource": "court-a", "date": "2024-03-15", "start_time": "11:00"})
	expectStatus(t, rec, http.StatusCreated)
}

func TestActorContactOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/v1/actors/user-A/contact", "user-B", map[string]any{"email": "a@test.com"})
	expectErrorKind(t, rec, http.StatusForbidden, models.KindUnauthorized)

	rec = s.do(http.MethodPut, "/api/v1/actors/user-A/contact", "user-A", map[string]any{"email": "not an address"})
	expectErrorKind(t, rec, http.StatusBadRequest, models.KindInvalidInput)

	rec = s.do(http.MethodPut, "/api/v1/actors/user-A/contact", "user-A", map[string]any{
		"display_name": "Alex",
		"email":        "Alex <alex@test.com>",
		"phone":        "(650) 253-0000",
	})
	expectStatus(t, rec, http.StatusOK)
	got := decode[struct {
		Email string `json:"email"`
		Phone string `json:"phone"`
	}](t, rec)
	if got.Email != "alex@test.com" || got.Phone != "+16502530000" {
		t.Fatalf("contact = %+v", got)
	}

	rec = s.do(http.MethodPut, "/api/v1/actors/user-A/contact", "user-A", map[string]any{"phone": "12"})
	expectErrorKind(t, rec, http.StatusBadRequest, models.KindInvalidInput)
}

func TestMalformedActorHeader(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/bookings", "   ", nil)
	// A blank header is treated as anonymous.
	expectStatus(t, rec, http.StatusUnauthorized)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req.Header.Set("X-Actor-ID", "bad\x01actor")
	out := httptest.NewRecorder()
	s.handler.ServeHTTP(out, req)
	expectStatus(t, out, http.StatusBadRequest)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodDelete, "/api/v1/requests", "user-A", nil)
	expectStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestSubmitRequestRateLimited(t *testing.T) {
	cfg := config.Default()
	cfg.Scheduling.MaxRequestsPerHour = 1
	s := newTestServerWithConfig(t, cfg)

	body := map[string]any{
		"receiver_id": "manager-1",
		"resource":    "no-such-court",
		"date":        "2024-03-15",
		"start_time":  "18:00",
	}
	rec := s.do(http.MethodPost, "/api/v1/requests", "team-a", body)
	expectStatus(t, rec, http.StatusNotFound)

	rec = s.do(http.MethodPost, "/api/v1/requests", "team-a", body)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") != "3600" {
		t.Fatalf("Retry-After = %q, want 3600", rec.Header().Get("Retry-After"))
	}
	if got := decode[apiutil.ErrorResponse](t, rec); got.Error != "RateLimited" {
		t.Fatalf("error kind = %q", got.Error)
	}

	rec = s.do(http.MethodPost, "/api/v1/requests", "team-b", body)
	expectStatus(t, rec, http.StatusNotFound)
}
