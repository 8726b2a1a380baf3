package booking

import "fmt"

// BookingError carries a machine-readable code alongside the message so
// handlers can map it to an HTTP status.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(msg string) error {
	return &BookingError{Code: "validationError", Message: msg}
}

func newStateError(msg string) error {
	return &BookingError{Code: "stateError", Message: msg}
}

func newForbiddenError(msg string) error {
	return &BookingError{Code: "forbidden", Message: msg}
}
