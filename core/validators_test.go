package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	Degree int    `json:"degree" validate:"degree"`
	Opt    int    `json:"opt" validate:"optdegree"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "6A", Degree: 4}))

	err := ValidateStruct(sample{Degree: 5, Opt: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []FieldError{
		{Field: "name", Error: "this field is required"},
		{Field: "degree", Error: "degree must be a degree between 1 and 4"},
		{Field: "opt", Error: "opt must be a degree between 1 and 4 when set"},
	}, vErr.Fields)
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(ErrInvalidInput, FieldError{Field: "name", Error: "this field is required"})
	assert.Equal(t, "invalid input (name: this field is required)", err.Error())
	assert.Equal(t, "invalid input", NewValidationError(ErrInvalidInput).Error())
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(ErrInvalidInput))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "6A", CleanString("  6A \n"))
	assert.Equal(t, "6a", CleanString(" 6A ", true))
}
