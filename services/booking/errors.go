package booking

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable reason codes surfaced to clients.
const (
	CodeValidation   = "validation-error"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not-found"
	CodeConflict     = "booking-conflict"
	CodeGateway      = "gateway-error"
	CodeConfig       = "configuration-error"
)

// BookingError carries a stable code plus the HTTP status the handler should
// use. Business conflicts and validation failures are distinguishable by code,
// not just status.
type BookingError struct {
	Code    string
	Status  int
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(msg string) error {
	return &BookingError{Code: CodeValidation, Status: http.StatusBadRequest, Message: msg}
}

func NewUnauthorizedError(msg string) error {
	return &BookingError{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &BookingError{Code: CodeNotFound, Status: http.StatusNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &BookingError{Code: CodeConflict, Status: http.StatusBadRequest, Message: msg}
}

func NewGatewayError(msg string) error {
	return &BookingError{Code: CodeGateway, Status: http.StatusBadGateway, Message: msg}
}

func NewConfigError(msg string) error {
	return &BookingError{Code: CodeConfig, Status: http.StatusInternalServerError, Message: msg}
}

// AsBookingError unwraps err into a *BookingError if one is in the chain.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
