// internal/api/actors/handlers.go
package actors

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/apiutil"
	appdb "github.com/codr1/courtgrid/internal/db"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/models"
)

const maxDisplayNameLength = 200

var errInvalidPhone = errors.New("invalid phone number")

// defaultPhoneRegion applies to numbers given without a country code.
const defaultPhoneRegion = "US"

var queries *dbgen.Queries

type contactRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type contactResponse struct {
	ActorID     string    `json:"actor_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		log.Warn().Msg("actors.InitHandlers called with nil database")
		return
	}
	queries = database.Queries
}

// PUT /api/v1/actors/{id}/contact
//
// Contact details are pushed on behalf of the actor they describe, so the
// caller must be that actor.
func HandleUpsertContact(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Actor handlers not initialized")
		apiutil.WriteError(w, r, models.ErrStoreUnavailable)
		return
	}
	callerID, ok := apiutil.RequireActor(w, r)
	if !ok {
		return
	}
	actorID, err := apiutil.PathValue(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	if actorID != callerID {
		apiutil.WriteError(w, r, models.NewError(models.KindUnauthorized, "actors.upsert_contact", "contact details can only be set by their actor"))
		return
	}

	var body contactRequest
	if err := apiutil.DecodeJSON(w, r, &body); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err))
		return
	}
	displayName := strings.TrimSpace(body.DisplayName)
	if len(displayName) > maxDisplayNameLength {
		apiutil.WriteError(w, r, apiutil.BadRequest(apiutil.FieldError{Field: "display_name", Reason: "is too long"}))
		return
	}
	email := strings.TrimSpace(body.Email)
	if email != "" {
		addr, err := mail.ParseAddress(email)
		if err != nil {
			apiutil.WriteError(w, r, apiutil.BadRequest(apiutil.FieldError{Field: "email", Reason: "must be a valid address"}))
			return
		}
		email = addr.Address
	}
	phone, err := normalizePhone(body.Phone)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(apiutil.FieldError{Field: "phone", Reason: "must be a valid phone number"}))
		return
	}

	now := time.Now().UTC()
	if err := queries.UpsertActorContact(r.Context(), dbgen.UpsertActorContactParams{
		ActorID:     actorID,
		DisplayName: displayName,
		Email:       email,
		Phone:       phone,
		UpdatedAt:   now,
	}); err != nil {
		logger.Error().Err(err).Str("actor_id", actorID).Msg("Failed to store actor contact")
		apiutil.WriteError(w, r, models.WrapError(models.KindStoreUnavailable, "actors.upsert_contact", err))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, contactResponse{
		ActorID:     actorID,
		DisplayName: displayName,
		Email:       email,
		Phone:       phone,
		UpdatedAt:   now,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write contact response")
	}
}

// normalizePhone returns the number in E.164 form, or "" for an empty input.
func normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", errInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
