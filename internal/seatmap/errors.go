package seatmap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidState indicates an internal consistency violation, e.g. a
	// confirm against seats that are no longer held. Callers must treat it
	// as a hard error and never proceed with the mutation.
	ErrInvalidState = errors.New("seat is not in the expected state")

	// ErrUnknownSeat indicates a seat id outside the showtime's layout.
	ErrUnknownSeat = errors.New("unknown seat id")
)

// SeatUnavailableError reports a failed hold attempt along with every seat
// that caused the conflict, so the UI can re-render the exact collision.
type SeatUnavailableError struct {
	Conflicts []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats not available: %s", strings.Join(e.Conflicts, ", "))
}
