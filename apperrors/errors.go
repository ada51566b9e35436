package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the triage/SLA core. Controllers translate these to
// HTTP statuses with errors.Is; services wrap them with context via the
// helpers below.
var (
	// ErrValidation covers bad or missing input, e.g. a past SLA deadline on approval.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition covers illegal lifecycle state changes,
	// including the loser of a lost-update race.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPreconditionFailed covers operations whose runtime precondition
	// does not hold, e.g. escalate on a non-escalated appointment.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrNotFound covers unknown appointment or service center ids.
	ErrNotFound = errors.New("record not found")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// InvalidTransitionf wraps ErrInvalidTransition with a formatted detail message.
func InvalidTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidTransition}, args...)...)
}

// PreconditionFailedf wraps ErrPreconditionFailed with a formatted detail message.
func PreconditionFailedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrPreconditionFailed}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// HTTPStatus maps a core error to the HTTP status code the API layer returns.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 422
	case errors.Is(err, ErrInvalidTransition):
		return 409
	case errors.Is(err, ErrPreconditionFailed):
		return 412
	case errors.Is(err, ErrNotFound):
		return 404
	default:
		return 500
	}
}
