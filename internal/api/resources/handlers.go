// internal/api/resources/handlers.go
package resources

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	"github.com/codr1/courtgrid/internal/api/authz"
	"github.com/codr1/courtgrid/internal/booking"
	"github.com/codr1/courtgrid/internal/models"
)

const (
	defaultOpenHour  = 8
	defaultCloseHour = 22
)

var orchestrator *booking.Orchestrator

type createResourceRequest struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	OpenHour  *int   `json:"open_hour,omitempty"`
	CloseHour *int   `json:"close_hour,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(o *booking.Orchestrator) {
	if o == nil {
		log.Warn().Msg("resources.InitHandlers called with nil orchestrator")
		return
	}
	orchestrator = o
}

func loadOrchestrator(w http.ResponseWriter, r *http.Request) *booking.Orchestrator {
	if orchestrator == nil {
		log.Ctx(r.Context()).Error().Msg("Resource handlers not initialized")
		apiutil.WriteError(w, r, models.ErrStoreUnavailable)
	}
	return orchestrator
}

// POST /api/v1/resources
func HandleCreateResource(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	actorID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}

	var req createResourceRequest
	if err := apiutil.DecodeJSON(w, r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	in := booking.NewResourceInput{
		Name:      req.Name,
		Kind:      models.ResourceKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		OwnerID:   actorID,
		OpenHour:  defaultOpenHour,
		CloseHour: defaultCloseHour,
		Timezone:  strings.TrimSpace(req.Timezone),
	}
	if req.OpenHour != nil {
		in.OpenHour = *req.OpenHour
	}
	if req.CloseHour != nil {
		in.CloseHour = *req.CloseHour
	}

	res, err := o.CreateResource(r.Context(), in)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusCreated, res); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write resource response")
	}
}

// GET /api/v1/resources
func HandleListResources(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}

	kind := models.ResourceKind(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("kind"))))
	list, err := o.ListResources(r.Context(), kind)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"resources": list}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write resources response")
	}
}

// GET /api/v1/resources/{id}
func HandleGetResource(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	ref, err := apiutil.PathValue(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	res, err := o.GetResource(r.Context(), ref)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, res); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write resource response")
	}
}

// GET /api/v1/resources/{id}/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Anonymous callers see the grid without holders.
func HandleListSlots(w http.ResponseWriter, r *http.Request) {
	o := loadOrchestrator(w, r)
	if o == nil {
		return
	}
	ref, err := apiutil.PathValue(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}

	query := r.URL.Query()
	from, err := apiutil.RequiredString(query.Get("from"), "from")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	to := strings.TrimSpace(query.Get("to"))
	if to == "" {
		to = from
	}

	slots, err := o.ListSlots(r.Context(), ref, from, to, authz.ActorFromContext(r.Context()))
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"resource_id": ref,
		"from":        from,
		"to":          to,
		"slots":       slots,
	}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write slots response")
	}
}
