package apiutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/courtgrid/internal/api/authz"
	"github.com/codr1/courtgrid/internal/models"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{
			name:       "slot taken",
			err:        fmt.Errorf("submit: %w", models.NewError(models.KindSlotTaken, "submitRequest", "slot 18:00 is taken")),
			wantStatus: http.StatusConflict,
			wantKind:   "SlotTaken",
			wantMsg:    "slot 18:00 is taken",
		},
		{
			name:       "busy",
			err:        models.ErrSlotBusy,
			wantStatus: http.StatusConflict,
			wantKind:   "SlotBusy",
		},
		{
			name:       "unauthorized",
			err:        models.NewError(models.KindUnauthorized, "respond", "only the receiver may respond"),
			wantStatus: http.StatusForbidden,
			wantKind:   "Unauthorized",
		},
		{
			name:       "unknown resource",
			err:        models.ErrResourceUnknown,
			wantStatus: http.StatusNotFound,
			wantKind:   "ResourceUnknown",
		},
		{
			name:       "outside window",
			err:        models.ErrOutsideOperatingWindow,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "OutsideOperatingWindow",
		},
		{
			name:       "raw store error is hidden",
			err:        errors.New("database is locked"),
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "StoreUnavailable",
			wantMsg:    models.ErrStoreUnavailable.Message,
		},
		{
			name:       "anonymous",
			err:        authz.ErrUnauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantKind:   "Unauthenticated",
		},
		{
			name:       "handler error",
			err:        BadRequest(FieldError{Field: "date", Reason: "is required"}),
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidInput",
			wantMsg:    "date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			WriteError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantKind {
				t.Errorf("error kind = %q, want %q", body.Error, tt.wantKind)
			}
			if tt.wantMsg != "" && body.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", body.Message, tt.wantMsg)
			}
			if body.Message == "" {
				t.Error("message is empty")
			}
			retryAfter := rec.Header().Get("Retry-After")
			if (tt.wantStatus == http.StatusServiceUnavailable) != (retryAfter != "") {
				t.Errorf("Retry-After = %q for status %d", retryAfter, rec.Code)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"court"}`},
		{name: "unknown field", body: `{"name":"court","extra":1}`, wantErr: true},
		{name: "trailing data", body: `{"name":"court"}{"name":"again"}`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRequireActor(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := RequireActor(rec, req); ok {
		t.Fatal("anonymous request accepted")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req = req.WithContext(authz.ContextWithActor(req.Context(), "alice"))
	actorID, ok := RequireActor(httptest.NewRecorder(), req)
	if !ok || actorID != "alice" {
		t.Fatalf("RequireActor = %q, %v", actorID, ok)
	}
}
