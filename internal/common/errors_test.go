package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"email taken", ErrEmailTaken, KindEmailTaken},
		{"wrapped unauthorized", fmt.Errorf("login: %w", ErrorUnauthorized), KindUnauthorized},
		{"validation", NewValidationError("email must be an email"), KindValidation},
		{"store", fmt.Errorf("%w: db error: boom", ErrStoreUnavailable), KindStoreUnavailable},
		{"plain", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestError_StatusAndReason(t *testing.T) {
	var se StatusError = ErrEmailTaken
	assert.Equal(t, http.StatusBadRequest, se.HTTPStatus())
	assert.Equal(t, "Email already in use", se.Error())
	assert.Equal(t, "Bad Request", ErrEmailTaken.ErrorReason())

	// no explicit reason: the message is the label
	assert.Equal(t, "Unauthorized", ErrorUnauthorized.ErrorReason())
}
