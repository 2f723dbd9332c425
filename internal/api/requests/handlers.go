// internal/api/requests/handlers.go
package requests

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	"github.com/codr1/courtgrid/internal/booking"
	"github.com/codr1/courtgrid/internal/ledger"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/ratelimit"
)

var (
	orchestrator *booking.Orchestrator
	limiter      *ratelimit.Limiter
	trustProxy   bool
)

type submitRequest struct {
	ReceiverID string `json:"receiver_id"`
	Resource   string `json:"resource,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	Hours      int    `json:"hours,omitempty"`
	Message    string `json:"message,omitempty"`
}

type respondRequest struct {
	Decision string `json:"decision"`
}

// InitHandlers must be called during server startup before handling requests.
// A nil limiter disables submission rate limiting.
func InitHandlers(o *booking.Orchestrator, l *ratelimit.Limiter, proxied bool) {
	if o == nil {
		log.Warn().Msg("requests.InitHandlers called with nil orchestrator")
		return
	}
	orchestrator = o
	limiter = l
	trustProxy = proxied
}

// allowSubmission writes a 429 and returns false when the actor or its
// client address has used up its hourly submissions.
func allowSubmission(w http.ResponseWriter, r *http.Request, actorID string) bool {
	if limiter == nil {
		return true
	}
	ip := ratelimit.GetClientIP(r, trustProxy)
	res := limiter.Allow(actorID, ip)
	if res.Allowed {
		return true
	}
	ratelimit.LogRateLimitExceeded(r.Context(), actorID, ip, res)
	w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
	apiutil.WriteError(w, r, apiutil.HandlerError{
		Status:  http.StatusTooManyRequests,
		Kind:    "RateLimited",
		Message: "too many requests submitted, try again later",
	})
	return false
}

func loadOrchestrator(w http.ResponseWriter, r *http.Request) *booking.Orchestrator {
	if orchestrator == nil {
		log.Ctx(r.Context()).Error().Msg("Request handlers not initialized")
		apiutil.WriteError(w, r, models.ErrStoreUnavailable)
	}
	return orchestrator
}

func writeRequest(w http.ResponseWriter, r *http.Request, status int, req models.Request) {
	if err := apiutil.WriteJSON(w, status, req); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("request_id", req.ID).Msg("Failed to write request response")
	}
}

// POST /api/v1/requests
func HandleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}

	var body submitRequest
	if err := apiutil.DecodeJSON(w, r, &body); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	startHour, err := models.ParseStartTime(body.StartTime)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	kind := models.RequestKind(strings.ToUpper(strings.TrimSpace(body.Kind)))
	if kind == "" {
		kind = models.RequestKindFacilityBooking
	}
	if !allowSubmission(w, r, actorID) {
		return
	}

	req, err := o.SubmitRequest(r.Context(), booking.SubmitRequestInput{
		SenderID:    actorID,
		ReceiverID:  strings.TrimSpace(body.ReceiverID),
		ResourceRef: strings.TrimSpace(body.Resource),
		Date:        body.Date,
		StartHour:   startHour,
		Hours:       body.Hours,
		Message:     body.Message,
		Kind:        kind,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeRequest(w, r, http.StatusCreated, req)
}

// GET /api/v1/requests?role=sent|received&status=&limit=
func HandleListRequests(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	role := ledger.Role(strings.ToLower(strings.TrimSpace(query.Get("role"))))
	if role == "" {
		role = ledger.RoleReceived
	}
	status := models.RequestStatus(strings.ToUpper(strings.TrimSpace(query.Get("status"))))
	limit, err := apiutil.ParseOptionalIntQuery(r, "limit", 0)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	list, err := o.ListRequests(r.Context(), actorID, role, status, limit)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"role": role, "requests": list}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write requests response")
	}
}

// GET /api/v1/requests/{id}
func HandleGetRequest(w http.ResponseWriter, r *http.Request) {
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

	req, err := o.GetRequest(r.Context(), id, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeRequest(w, r, http.StatusOK, req)
}

// POST /api/v1/requests/{id}/respond
func HandleRespond(w http.ResponseWriter, r *http.Request) {
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

	var body respondRequest
	if err := apiutil.DecodeJSON(w, r, &body); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	decision := models.Decision(strings.ToUpper(strings.TrimSpace(body.Decision)))

	req, err := o.Respond(r.Context(), id, actorID, decision)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeRequest(w, r, http.StatusOK, req)
}

// POST /api/v1/requests/{id}/cancel
func HandleCancelRequest(w http.ResponseWriter, r *http.Request) {
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

	req, err := o.CancelRequest(r.Context(), id, actorID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	writeRequest(w, r, http.StatusOK, req)
}
