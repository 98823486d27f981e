package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/rpc"
)

// ErrorBody is the JSON shape of every gateway failure.
type ErrorBody struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Error      string      `json:"error"`
	Kind       common.Kind `json:"kind,omitempty"`
}

// ServiceUnavailableMessage is returned when the auth service cannot be
// reached.
const ServiceUnavailableMessage = "Auth service unavailable"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// toErrorBody renders err. Envelopes pass through untouched; anything else
// is reduced to a generic body so internal details never leak.
func toErrorBody(err error) ErrorBody {
	var e *rpc.Error
	if errors.As(err, &e) {
		return ErrorBody{StatusCode: e.Status, Message: e.Message, Error: e.Reason, Kind: e.Kind}
	}

	var ce *common.Error
	if errors.As(err, &ce) {
		return ErrorBody{StatusCode: ce.Status, Message: ce.Message, Error: ce.ErrorReason(), Kind: ce.Kind}
	}

	if errors.Is(err, client.ErrUnavailable) {
		return ErrorBody{
			StatusCode: http.StatusServiceUnavailable,
			Message:    ServiceUnavailableMessage,
			Error:      http.StatusText(http.StatusServiceUnavailable),
			Kind:       common.KindUnknown,
		}
	}

	return ErrorBody{
		StatusCode: http.StatusInternalServerError,
		Message:    rpc.InternalErrorMessage,
		Error:      http.StatusText(http.StatusInternalServerError),
		Kind:       common.KindUnknown,
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := toErrorBody(err)
	writeJSON(w, body.StatusCode, body)
}
