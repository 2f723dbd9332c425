package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/api/authz"
	"github.com/codr1/courtgrid/internal/models"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// retryAfterSeconds is advertised on 503 responses.
const retryAfterSeconds = 1

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// HandlerError is a failure a handler has already classified for HTTP.
type HandlerError struct {
	Status  int
	Kind    string
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

// BadRequest reports malformed input detected before the orchestrator runs.
func BadRequest(err error) HandlerError {
	return HandlerError{Status: http.StatusBadRequest, Kind: string(models.KindInvalidInput), Message: err.Error(), Err: err}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("missing request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// StatusForKind maps a scheduling error kind to its HTTP status.
func StatusForKind(kind models.Kind) int {
	switch kind {
	case models.KindSlotTaken, models.KindInvalidTransition, models.KindSlotBusy:
		return http.StatusConflict
	case models.KindUnauthorized:
		return http.StatusForbidden
	case models.KindResourceUnknown, models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidInput:
		return http.StatusBadRequest
	case models.KindOutsideOperatingWindow, models.KindSelfReferential:
		return http.StatusUnprocessableEntity
	case models.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// WriteError writes err as a JSON error body. Store failures keep their
// detail in the log and send a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	status, resp := classify(err)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error().Err(err).Int("status", status).Msg("Request failed")
	default:
		logger.Debug().Err(err).Int("status", status).Str("kind", resp.Error).Msg("Request rejected")
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	if writeErr := WriteJSON(w, status, resp); writeErr != nil {
		logger.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

func classify(err error) (int, ErrorResponse) {
	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		return handlerErr.Status, ErrorResponse{Error: handlerErr.Kind, Message: handlerErr.Message}
	}

	if errors.Is(err, authz.ErrUnauthenticated) {
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthenticated", Message: "missing " + authz.ActorHeader + " header"}
	}

	schedErr := models.AsError("api", err)
	status := StatusForKind(schedErr.Kind)
	message := schedErr.Message
	if message == "" && schedErr.Err != nil {
		message = schedErr.Err.Error()
	}
	if schedErr.Kind == models.KindStoreUnavailable || message == "" {
		message = defaultMessage(schedErr.Kind)
	}
	return status, ErrorResponse{Error: string(schedErr.Kind), Message: message}
}

func defaultMessage(kind models.Kind) string {
	switch kind {
	case models.KindSlotTaken:
		return models.ErrSlotTaken.Message
	case models.KindOutsideOperatingWindow:
		return models.ErrOutsideOperatingWindow.Message
	case models.KindSelfReferential:
		return models.ErrSelfReferential.Message
	case models.KindResourceUnknown:
		return models.ErrResourceUnknown.Message
	case models.KindInvalidTransition:
		return models.ErrInvalidTransition.Message
	case models.KindUnauthorized:
		return models.ErrUnauthorized.Message
	case models.KindSlotBusy:
		return models.ErrSlotBusy.Message
	case models.KindNotFound:
		return models.ErrNotFound.Message
	case models.KindInvalidInput:
		return models.ErrInvalidInput.Message
	}
	return models.ErrStoreUnavailable.Message
}

// RequireActor writes a 401 and returns false when the request is anonymous.
func RequireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID, err := authz.RequireActor(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Request without actor")
		WriteError(w, r, err)
		return "", false
	}
	return actorID, true
}
