// Package common defines shared constants and sentinel errors used across
// the auth service, the gateway and the CLI. Callers should use errors.Is
// and errors.As to match these values.
package common

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for callers on the other side of the RPC
// boundary.
type Kind string

const (
	KindValidation       Kind = "ValidationRejected"
	KindEmailTaken       Kind = "EmailTaken"
	KindUnauthorized     Kind = "Unauthorized"
	KindStoreUnavailable Kind = "StoreUnavailable"
	KindUnknown          Kind = "Unknown"
)

// StatusError is implemented by errors that already know which HTTP-style
// status they should surface with.
type StatusError interface {
	error
	HTTPStatus() int
}

// Error is a domain failure with a fixed kind, status and user-facing text.
// Reason is the short error label ("Bad Request", "Unauthorized"); when it
// is empty the message doubles as the label.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Reason  string
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus implements StatusError.
func (e *Error) HTTPStatus() int { return e.Status }

// ErrorReason returns the short error label, falling back to the message.
func (e *Error) ErrorReason() string {
	if e.Reason != "" {
		return e.Reason
	}
	return e.Message
}

// NewValidationError builds a ValidationRejected error for a malformed
// request payload.
func NewValidationError(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Message: message,
		Reason:  http.StatusText(http.StatusBadRequest),
	}
}

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStoreUnavailable wraps any infrastructure failure of the user store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Token errors. Every verification failure collapses into this one value.
	ErrInvalidToken = errors.New("invalid token")

	// Service-level errors.
	ErrEmailTaken = &Error{
		Kind:    KindEmailTaken,
		Status:  http.StatusBadRequest,
		Message: "Email already in use",
		Reason:  http.StatusText(http.StatusBadRequest),
	}
	ErrorUnauthorized = &Error{
		Kind:    KindUnauthorized,
		Status:  http.StatusUnauthorized,
		Message: "Unauthorized",
	}
)

// KindOf reports the taxonomy kind of err. Errors that carry no kind and do
// not wrap ErrStoreUnavailable are KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return KindStoreUnavailable
	}
	return KindUnknown
}
