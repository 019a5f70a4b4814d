package validation

import (
	"testing"

	apperrors "project-tracker/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		expected string
	}{
		{"No errors", nil, "validation error"},
		{"Single error", []FieldError{{Field: "project_name", Message: "project_name is required"}},
			"validation error for field 'project_name': project_name is required"},
		{"Multiple errors", []FieldError{
			{Field: "project_name", Message: "is required"},
			{Field: "project_description", Message: "is too long"},
		}, "multiple validation errors: validation error for field 'project_name': is required; validation error for field 'project_description': is too long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			assert.Equal(t, tt.expected, ve.Error())
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	tests := []struct {
		name            string
		add             func(*ValidationError)
		expectedType    ValidationErrorType
		expectedMessage string
	}{
		{
			name:            "required",
			add:             func(ve *ValidationError) { ve.AddRequiredError("task_name") },
			expectedType:    ErrorTypeRequired,
			expectedMessage: "task_name is required",
		},
		{
			name:            "format",
			add:             func(ve *ValidationError) { ve.AddInvalidFormatError("task_id", "a b", "no spaces") },
			expectedType:    ErrorTypeInvalidFormat,
			expectedMessage: "task_id has invalid format, expected: no spaces",
		},
		{
			name:            "length range",
			add:             func(ve *ValidationError) { ve.AddInvalidLengthError("task_name", "a", 2, 50) },
			expectedType:    ErrorTypeInvalidLength,
			expectedMessage: "task_name must be between 2 and 50 characters long",
		},
		{
			name:            "length max only",
			add:             func(ve *ValidationError) { ve.AddInvalidLengthError("task_description", "...", 0, 10) },
			expectedType:    ErrorTypeInvalidLength,
			expectedMessage: "task_description must be at most 10 characters long",
		},
		{
			name:            "length min only",
			add:             func(ve *ValidationError) { ve.AddInvalidLengthError("task_name", "", 3, 0) },
			expectedType:    ErrorTypeInvalidLength,
			expectedMessage: "task_name must be at least 3 characters long",
		},
		{
			name:            "character",
			add:             func(ve *ValidationError) { ve.AddInvalidCharacterError("task_name", "a\x00b") },
			expectedType:    ErrorTypeInvalidCharacter,
			expectedMessage: "task_name contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.add(ve)

			require.Len(t, ve.Errors, 1)
			assert.True(t, ve.HasErrors())
			assert.Equal(t, tt.expectedType, ve.Errors[0].Type)
			assert.Equal(t, tt.expectedMessage, ve.Errors[0].Message)
		})
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	assert.Equal(t, "Input validation failed", NewValidationError().GetUserFriendlyMessage())

	ve := NewValidationError()
	ve.AddRequiredError("project_name")
	assert.Equal(t, "project_name is required", ve.GetUserFriendlyMessage())

	ve.AddInvalidCharacterError("project_description", "\x07")
	assert.Equal(t,
		"Multiple validation errors occurred:\n- project_name is required\n- project_description contains invalid characters",
		ve.GetUserFriendlyMessage())
}

func TestValidationError_ToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("task_name")

	appErr := ve.ToAppError()

	assert.True(t, appErr.IsType(apperrors.ErrorTypeValidation))
	assert.Equal(t, "task_name is required", apperrors.GetUserMessage(appErr))
	assert.Equal(t, "required", appErr.Context["task_name"])
	var cause *ValidationError
	require.ErrorAs(t, appErr, &cause, "field details stay reachable through the cause")
	assert.Same(t, ve, cause)
	assert.False(t, apperrors.ShouldLogError(appErr))
}
