package cli

import (
	stderrors "errors"

	"project-tracker/internal/config"
	"project-tracker/internal/errors"
	"project-tracker/internal/logging"
	"project-tracker/internal/validation"
)

// ErrorHandler turns command errors into the messages shown to the user
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Message returns the text shown to the user for err. System errors are also
// written to the debug log with their cause.
func (eh *ErrorHandler) Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.ShouldLogError(err) {
		logging.Debugf("error [%s]: %v\n", errors.GetErrorCode(err), err)
	}

	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) && !errors.IsAppError(err) {
		return validationErr.GetUserFriendlyMessage()
	}

	var configErr *config.ConfigError
	if stderrors.As(err, &configErr) {
		return "invalid configuration: " + configErr.Error()
	}

	if errors.IsAppError(err) {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}
