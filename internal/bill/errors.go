package bill

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("bill not found")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMissingAmount        = fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	ErrInvalidCoordinates   = errors.New("invalid coordinates")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// Kind returns the stable identifier of a ledger error, or "" for errors the
// ledger does not own.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInvalidCoordinates):
		return "invalid_coordinates"
	case errors.Is(err, ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	}

	return ""
}
