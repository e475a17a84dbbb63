package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindForbidden:      http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindConflict:       http.StatusConflict,
		KindRateLimited:    http.StatusTooManyRequests,
		KindInternal:       http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestFromCollapsesUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	got := From(fmt.Errorf("find user: %w", cause))

	require.NotNil(t, got)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, "internal server error", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestFromKeepsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", Authentication(CodeInvalidCredentials, "invalid phone or password"))
	got := From(wrapped)

	assert.Equal(t, KindAuthentication, got.Kind)
	assert.Equal(t, CodeInvalidCredentials, got.Code)
	assert.True(t, Is(wrapped, KindAuthentication))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestFromNil(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.False(t, Is(nil, KindInternal))
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation(map[string][]string{"phone": {"phone is required"}})
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, []string{"phone is required"}, err.Fields["phone"])
	assert.Equal(t, "request validation failed", err.Error())
}
