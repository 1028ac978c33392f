package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotsExceeded = errors.New("requested permits exceed available slots")

	ErrHoldContested = errors.New("slot is being held by another request")

	ErrPaymentClosed = errors.New("payment recording is closed for cancelled bookings")
)
