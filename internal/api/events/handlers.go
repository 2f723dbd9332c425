// internal/api/events/handlers.go
package events

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	"github.com/codr1/courtgrid/internal/booking"
	domainevents "github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/models"
)

var orchestrator *booking.Orchestrator

type feedResponse struct {
	Events []domainevents.Event `json:"events"`
	// Next is the cursor to pass as ?after= on the following poll.
	Next int64 `json:"next"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(o *booking.Orchestrator) {
	if o == nil {
		log.Warn().Msg("events.InitHandlers called with nil orchestrator")
		return
	}
	orchestrator = o
}

// GET /api/v1/events?after=N&limit=M
func HandleListEvents(w http.ResponseWriter, r *http.Request) {
	if orchestrator == nil {
		log.Ctx(r.Context()).Error().Msg("Event handlers not initialized")
		apiutil.WriteError(w, r, models.ErrStoreUnavailable)
		return
	}
	if _, ok := apiutil.RequireActor(w, r); !ok {
		return
	}

	after, err := apiutil.ParseOptionalInt64Query(r, "after", 0)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	limit, err := apiutil.ParseOptionalIntQuery(r, "limit", 0)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	list, err := orchestrator.ListEvents(r.Context(), after, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	resp := feedResponse{Events: list, Next: after}
	if len(list) > 0 {
		resp.Next = list[len(list)-1].ID
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, resp); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write events response")
	}
}
