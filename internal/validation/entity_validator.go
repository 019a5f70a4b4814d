package validation

import (
	"project-tracker/internal/config"
)

// EntityValidator validates user input for projects and tasks before it
// reaches the domain. Field names are prefixed with the entity kind.
type EntityValidator struct {
	validator *Validator
}

// NewEntityValidator creates a validator using the limits in cfg, or the
// defaults when cfg is nil
func NewEntityValidator(cfg *config.Config) *EntityValidator {
	return &EntityValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateName validates a project or task name for creation or update
func (ev *EntityValidator) ValidateName(kind string, name string) error {
	validationError := NewValidationError()
	ev.checkName(validationError, kind+"_name", name)
	return result(validationError)
}

// ValidateDescription validates a project or task description
func (ev *EntityValidator) ValidateDescription(kind string, description string) error {
	validationError := NewValidationError()
	ev.checkDescription(validationError, kind+"_description", description)
	return result(validationError)
}

// ValidateID validates a project or task identifier
func (ev *EntityValidator) ValidateID(kind string, id string) error {
	validationError := NewValidationError()
	ev.checkID(validationError, kind+"_id", id)
	return result(validationError)
}

// ValidateForCreation validates every field supplied when creating an entity
func (ev *EntityValidator) ValidateForCreation(kind string, name string, description string) error {
	validationError := NewValidationError()
	ev.checkName(validationError, kind+"_name", name)
	ev.checkDescription(validationError, kind+"_description", description)
	return result(validationError)
}

// GetValidName returns a cleaned name if valid
func (ev *EntityValidator) GetValidName(kind string, name string) (string, error) {
	if err := ev.ValidateName(kind, name); err != nil {
		return "", err
	}
	return ev.validator.TrimAndValidateString(name), nil
}

func (ev *EntityValidator) checkName(ve *ValidationError, field string, name string) {
	trimmed := ev.validator.TrimAndValidateString(name)

	if !ev.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(field)
		return
	}

	if !ev.validator.IsValidNameLength(trimmed) {
		ve.AddInvalidLengthError(field, trimmed, ev.validator.nameMinLength(), ev.validator.nameMaxLength())
	}

	if !ev.validator.IsValidName(trimmed) {
		ve.AddInvalidCharacterError(field, trimmed)
	}
}

func (ev *EntityValidator) checkDescription(ve *ValidationError, field string, description string) {
	if !ev.validator.IsValidDescriptionLength(description) {
		ve.AddInvalidLengthError(field, description, 0, ev.validator.descriptionMaxLength())
	}
	if !ev.validator.IsValidDescription(description) {
		ve.AddInvalidCharacterError(field, description)
	}
}

func (ev *EntityValidator) checkID(ve *ValidationError, field string, id string) {
	if id == "" {
		ve.AddRequiredError(field)
		return
	}
	if !ev.validator.IsValidID(id) {
		ve.AddInvalidFormatError(field, id, "up to 64 characters without spaces")
	}
}

// result returns nil when nothing was collected, so callers can return it directly.
func result(ve *ValidationError) error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}
