package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	de := ToDomainError(NewValidationError("name and phone are required"))
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "name and phone are required", de.Message)

	cause := errors.New("disk I/O error")
	de = ToDomainError(fmt.Errorf("insert lead: %w", NewStorageError(cause)))
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)

	de = ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.False(t, IsValidation(NewStorageError(errors.New("x"))))
	assert.False(t, IsValidation(errors.New("x")))
}

func TestWrappedTransportErrors(t *testing.T) {
	cause := errors.New("connection reset")

	ne := &NotificationError{Recipient: 42, Err: cause}
	assert.ErrorIs(t, ne, cause)
	assert.Contains(t, ne.Error(), "42")

	fe := &TransportFetchError{Offset: 7, Err: cause}
	assert.ErrorIs(t, fe, cause)
	assert.Contains(t, fe.Error(), "offset 7")
}
