// internal/models/errors.go
package models

import (
	"errors"
	"fmt"
)

// Kind is the stable classification of a scheduling failure. Callers branch on
// the kind, never on the text of the underlying store error.
type Kind string

const (
	KindSlotTaken              Kind = "SlotTaken"
	KindOutsideOperatingWindow Kind = "OutsideOperatingWindow"
	KindSelfReferential        Kind = "SelfReferential"
	KindResourceUnknown        Kind = "ResourceUnknown"
	KindInvalidTransition      Kind = "InvalidTransition"
	KindUnauthorized           Kind = "Unauthorized"
	KindSlotBusy               Kind = "SlotBusy"
	KindStoreUnavailable       Kind = "StoreUnavailable"
	KindNotFound               Kind = "NotFound"
	KindInvalidInput           Kind = "InvalidInput"
)

// Sentinels for errors.Is. Any *Error matches the sentinel with the same kind.
var (
	ErrSlotTaken              = &Error{Kind: KindSlotTaken, Message: "slot is no longer available"}
	ErrOutsideOperatingWindow = &Error{Kind: KindOutsideOperatingWindow, Message: "slot is outside the operating window"}
	ErrSelfReferential        = &Error{Kind: KindSelfReferential, Message: "sender and receiver must differ"}
	ErrResourceUnknown        = &Error{Kind: KindResourceUnknown, Message: "resource not found"}
	ErrInvalidTransition      = &Error{Kind: KindInvalidTransition, Message: "request no longer available"}
	ErrUnauthorized           = &Error{Kind: KindUnauthorized, Message: "caller is not allowed to perform this action"}
	ErrSlotBusy               = &Error{Kind: KindSlotBusy, Message: "slot is busy, try another slot"}
	ErrStoreUnavailable       = &Error{Kind: KindStoreUnavailable, Message: "store unavailable, retry later"}
	ErrNotFound               = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidInput           = &Error{Kind: KindInvalidInput, Message: "invalid input"}

	// ErrInvalidSlot is what the slot calendar reports for an hour outside the
	// resource's operating window.
	ErrInvalidSlot = ErrOutsideOperatingWindow
)

// Error is a scheduling failure with a stable kind.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so wrapped errors match the package sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may retry the same call unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindStoreUnavailable || e.Kind == KindSlotBusy
}

// NewError builds an error of the given kind.
func NewError(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError attaches a kind to an underlying error.
func WrapError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds an error of the given kind with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err. Errors without a kind are treated
// as store failures so raw infrastructure errors never leak as a new kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStoreUnavailable
}

// AsError converts err into an *Error, wrapping unknown errors as
// StoreUnavailable under op.
func AsError(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return WrapError(KindStoreUnavailable, op, err)
}
