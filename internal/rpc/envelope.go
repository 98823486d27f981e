package rpc

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/authgate/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InternalErrorMessage is the message of every envelope built from an
// error that carries no status of its own.
const InternalErrorMessage = "Internal server error"

// Metadata keys of the ErrorInfo detail.
const (
	metaStatus = "status"
	metaError  = "error"
)

// Error is the structured failure every operation reports instead of a
// bare transport error.
type Error struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Reason  string      `json:"error"`
	Kind    common.Kind `json:"kind"`
}

func (e *Error) Error() string { return e.Message }

// HTTPStatus implements common.StatusError.
func (e *Error) HTTPStatus() int { return e.Status }

// ErrorReason returns the envelope's error field.
func (e *Error) ErrorReason() string { return e.Reason }

// GRPCStatus lets grpc-go render the envelope. The status code follows the
// HTTP status; the full envelope travels in an ErrorInfo detail.
func (e *Error) GRPCStatus() *status.Status {
	st := status.New(CodeForHTTPStatus(e.Status), e.Message)
	withDetails, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(e.Kind),
		Domain: common.ErrorDomain,
		Metadata: map[string]string{
			metaStatus: strconv.Itoa(e.Status),
			metaError:  e.Reason,
		},
	})
	if err != nil {
		return st
	}
	return withDetails
}

type reasoner interface {
	ErrorReason() string
}

// FromError maps any error to an envelope. A nil error maps to nil.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var envelope *Error
	if errors.As(err, &envelope) {
		return envelope
	}

	var se common.StatusError
	if errors.As(err, &se) {
		reason := se.Error()
		if r, ok := se.(reasoner); ok && r.ErrorReason() != "" {
			reason = r.ErrorReason()
		}
		return &Error{
			Status:  se.HTTPStatus(),
			Message: se.Error(),
			Reason:  reason,
			Kind:    common.KindOf(err),
		}
	}

	return &Error{
		Status:  http.StatusInternalServerError,
		Message: InternalErrorMessage,
		Reason:  err.Error(),
		Kind:    common.KindOf(err),
	}
}

// FromStatus rebuilds the envelope carried by a gRPC status error. It
// reports false when err has no envelope detail, e.g. a connection failure.
func FromStatus(err error) (*Error, bool) {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return nil, false
	}

	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != common.ErrorDomain {
			continue
		}
		code, convErr := strconv.Atoi(info.GetMetadata()[metaStatus])
		if convErr != nil {
			code = HTTPStatusForCode(st.Code())
		}
		return &Error{
			Status:  code,
			Message: st.Message(),
			Reason:  info.GetMetadata()[metaError],
			Kind:    common.Kind(info.GetReason()),
		}, true
	}

	return nil, false
}

// CodeForHTTPStatus picks the gRPC code closest to an HTTP status.
func CodeForHTTPStatus(s int) codes.Code {
	switch s {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	switch {
	case s >= 400 && s < 500:
		return codes.FailedPrecondition
	case s >= 500:
		return codes.Internal
	}
	return codes.Unknown
}

// HTTPStatusForCode is the inverse of CodeForHTTPStatus for statuses that
// arrive without an envelope.
func HTTPStatusForCode(c codes.Code) int {
	switch c {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.Aborted:
		return http.StatusConflict
	case codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
