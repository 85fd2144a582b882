package holds

import "errors"

var (
	// ErrInvalidSeatCount is returned when a hold request asks for zero
	// seats or more than MaxSeatsPerHold.
	ErrInvalidSeatCount = errors.New("seat count must be between 1 and 10")

	// ErrHoldNotFound is returned when the hold id is unknown.
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired is returned when the hold's TTL elapsed before the
	// requested action could apply.
	ErrHoldExpired = errors.New("hold has expired")

	// ErrHoldNotActive is returned when the hold was already released and
	// can no longer be acted on.
	ErrHoldNotActive = errors.New("hold is not active")

	// ErrDuplicateBooking is returned when a hold that was already
	// converted into a booking is converted again.
	ErrDuplicateBooking = errors.New("hold was already converted into a booking")
)
