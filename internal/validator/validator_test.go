package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Note  string `json:"note" validate:"max=5"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := Validate(sample{Note: "too long"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name' is required")
	assert.Contains(t, err.Error(), "field 'phone' is required")
	assert.Contains(t, err.Error(), "field 'note' must not exceed 5 characters")
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: "Ivan", Phone: "+1234"}))
}

func TestGetReturnsSingleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}
