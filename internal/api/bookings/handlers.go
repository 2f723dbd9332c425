// internal/api/bookings/handlers.go
package bookings

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	"github.com/codr1/courtgrid/internal/booking"
	"github.com/codr1/courtgrid/internal/models"
)

var orchestrator *booking.Orchestrator

type directBookRequest struct {
	Resource  string `json:"resource"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Hours     int    `json:"hours,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(o *booking.Orchestrator) {
	if o == nil {
		log.Warn().Msg("bookings.InitHandlers called with nil orchestrator")
		return
	}
	orchestrator = o
}

func loadOrchestrator(w http.ResponseWriter, r *http.Request) *booking.Orchestrator {
	if orchestrator == nil {
		log.Ctx(r.Context()).Error().Msg("Booking handlers not initialized")
		apiutil.WriteError(w, r, models.ErrStoreUnavailable)
	}
	return orchestrator
}

func writeBooking(w http.ResponseWriter, r *http.Request, status int, b models.Booking) {
	if err := apiutil.WriteJSON(w, status, b); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("booking_id", b.ID).Msg("Failed to write booking response")
	}
}

// POST /api/v1/bookings
func HandleDirectBook(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}

	var body directBookRequest
	if err := apiutil.DecodeJSON(w, r, &body); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	resourceRef, err := apiutil.RequiredString(body.Resource, "resource")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	startHour, err := models.ParseStartTime(body.StartTime)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	b, err := o.DirectBook(r.Context(), booking.DirectBookInput{
		ActorID:     actorID,
		ResourceRef: resourceRef,
		Date:        body.Date,
		StartHour:   startHour,
		Hours:       body.Hours,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeBooking(w, r, http.StatusCreated, b)
}

// GET /api/v1/bookings?status=&limit=
func HandleListBookings(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}

	status := models.BookingStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	limit, err := apiutil.ParseOptionalIntQuery(r, "limit", 0)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	list, err := o.ListBookings(r.Context(), actorID, status, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"bookings": list}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write bookings response")
	}
}

// GET /api/v1/bookings/{id}
func HandleGetBooking(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathValue(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	b, err := o.GetBooking(r.Context(), id, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeBooking(w, r, http.StatusOK, b)
}

// POST /api/v1/bookings/{id}/cancel
func HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}
	id, err := apiutil.PathValue(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	b, err := o.CancelBooking(r.Context(), id, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeBooking(w, r, http.StatusOK, b)
}
