package seatmap

import (
	"fmt"
	"sync"
)

// seat carries the mutable state of one seat. Its mutex is the unit of
// exclusivity for every mutation touching the seat.
type seat struct {
	mu     sync.Mutex
	status SeatStatus
	ref    string // owning hold or booking id, empty when AVAILABLE/BLOCKED
}

// SeatMap is the authoritative, atomically-mutated grid of seat states for a
// single showtime. All seats start AVAILABLE; the seat set is fixed at
// construction, so the map itself is read-only and only the per-seat locks
// guard mutation.
//
// Set mutations (TryHold, Release, Confirm) are all-or-nothing across the
// requested seat set: locks are acquired for every seat in canonical order
// before any state is inspected or changed, so two requests sharing seats can
// never deadlock and never observe a partial mutation.
type SeatMap struct {
	showtimeID string
	layout     Layout
	seats      map[string]*seat
}

// New builds a SeatMap for a showtime from the auditorium layout.
func New(showtimeID string, layout Layout) *SeatMap {
	seats := make(map[string]*seat)
	for _, id := range layout.SeatIDs() {
		seats[id] = &seat{status: StatusAvailable}
	}
	return &SeatMap{
		showtimeID: showtimeID,
		layout:     layout,
		seats:      seats,
	}
}

// ShowtimeID returns the showtime this map belongs to.
func (m *SeatMap) ShowtimeID() string {
	return m.showtimeID
}

// Layout returns the auditorium layout backing this map.
func (m *SeatMap) Layout() Layout {
	return m.layout
}

// Status reports the current status of one seat. Read-only.
func (m *SeatMap) Status(seatID string) (SeatStatus, error) {
	s, ok := m.seats[seatID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSeat, seatID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, nil
}

// lockAll resolves and locks every seat in canonical order and returns the
// ordered ids plus an unlock function. Unknown ids fail before any lock is
// taken.
func (m *SeatMap) lockAll(seatIDs []string) ([]string, func(), error) {
	ordered := sortSeatIDs(seatIDs)
	for _, id := range ordered {
		if _, ok := m.seats[id]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownSeat, id)
		}
	}
	for _, id := range ordered {
		m.seats[id].mu.Lock()
	}
	unlock := func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			m.seats[ordered[i]].mu.Unlock()
		}
	}
	return ordered, unlock, nil
}

// TryHold transitions the whole seat set from AVAILABLE to HELD under holdID.
// If any seat is not AVAILABLE, nothing is mutated and a SeatUnavailableError
// listing every conflicting seat is returned.
func (m *SeatMap) TryHold(seatIDs []string, holdID string) error {
	ordered, unlock, err := m.lockAll(seatIDs)
	if err != nil {
		return err
	}
	defer unlock()

	var conflicts []string
	for _, id := range ordered {
		if m.seats[id].status != StatusAvailable {
			conflicts = append(conflicts, id)
		}
	}
	if len(conflicts) > 0 {
		return &SeatUnavailableError{Conflicts: conflicts}
	}

	for _, id := range ordered {
		s := m.seats[id]
		s.status = StatusHeld
		s.ref = holdID
	}
	return nil
}

// Release returns HELD seats to AVAILABLE. Seats in any other state are left
// untouched, so a release racing a confirm or an operations block is a no-op
// for those seats. Unknown ids are ignored.
func (m *SeatMap) Release(seatIDs []string) {
	known := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := m.seats[id]; ok {
			known = append(known, id)
		}
	}
	ordered, unlock, err := m.lockAll(known)
	if err != nil {
		return
	}
	defer unlock()

	for _, id := range ordered {
		s := m.seats[id]
		if s.status == StatusHeld {
			s.status = StatusAvailable
			s.ref = ""
		}
	}
}

// Confirm transitions HELD seats to BOOKED under bookingID. If any seat is
// not currently HELD the whole call fails with ErrInvalidState and no seat is
// mutated; the caller must treat this as a hard error, never silently proceed.
func (m *SeatMap) Confirm(seatIDs []string, bookingID string) error {
	ordered, unlock, err := m.lockAll(seatIDs)
	if err != nil {
		return err
	}
	defer unlock()

	for _, id := range ordered {
		if m.seats[id].status != StatusHeld {
			return fmt.Errorf("%w: seat %s is %s, expected %s",
				ErrInvalidState, id, m.seats[id].status, StatusHeld)
		}
	}

	for _, id := range ordered {
		s := m.seats[id]
		s.status = StatusBooked
		s.ref = bookingID
	}
	return nil
}

// Block marks AVAILABLE seats as BLOCKED. This is the operations-staff
// surface; held or booked seats cannot be blocked out from under a customer.
func (m *SeatMap) Block(seatIDs []string) error {
	ordered, unlock, err := m.lockAll(seatIDs)
	if err != nil {
		return err
	}
	defer unlock()

	for _, id := range ordered {
		if m.seats[id].status != StatusAvailable {
			return fmt.Errorf("%w: seat %s is %s, expected %s",
				ErrInvalidState, id, m.seats[id].status, StatusAvailable)
		}
	}
	for _, id := range ordered {
		m.seats[id].status = StatusBlocked
	}
	return nil
}

// Snapshot returns the current occupancy grid for display. Each seat is read
// under its own lock; the snapshot is not a globally consistent cut, which is
// fine for a UI that re-validates on hold anyway.
func (m *SeatMap) Snapshot() Grid {
	grid := Grid{
		ShowtimeID:  m.showtimeID,
		Rows:        m.layout.Rows,
		SeatsPerRow: m.layout.SeatsPerRow,
	}
	for _, id := range sortSeatIDs(m.layout.SeatIDs()) {
		s := m.seats[id]
		s.mu.Lock()
		status := s.status
		s.mu.Unlock()

		switch status {
		case StatusHeld:
			grid.HeldSeats = append(grid.HeldSeats, id)
		case StatusBooked:
			grid.BookedSeats = append(grid.BookedSeats, id)
		case StatusBlocked:
			grid.BlockedSeats = append(grid.BlockedSeats, id)
		}
	}
	return grid
}
