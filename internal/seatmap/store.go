package seatmap

import (
	"fmt"
	"sync"
)

// Store keeps one SeatMap per showtime for the lifetime of the process. Maps
// are created lazily from the showtime's auditorium layout on first access;
// every component mutates seats only through the SeatMap it hands out.
type Store struct {
	mu   sync.RWMutex
	maps map[string]*SeatMap
}

// NewStore creates an empty seat map store.
func NewStore() *Store {
	return &Store{maps: make(map[string]*SeatMap)}
}

// Get returns the SeatMap for a showtime, creating it from layout if this is
// the first access.
func (st *Store) Get(showtimeID string, layout Layout) *SeatMap {
	st.mu.RLock()
	m, ok := st.maps[showtimeID]
	st.mu.RUnlock()
	if ok {
		return m
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if m, ok := st.maps[showtimeID]; ok {
		return m
	}
	m = New(showtimeID, layout)
	st.maps[showtimeID] = m
	return m
}

// Lookup returns the SeatMap for a showtime without creating one.
func (st *Store) Lookup(showtimeID string) (*SeatMap, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	m, ok := st.maps[showtimeID]
	return m, ok
}

// BlockSeats is the operations-staff entry point for taking seats out of
// sale. It is intentionally not exposed on the public API surface.
func (st *Store) BlockSeats(showtimeID string, layout Layout, seatIDs []string) error {
	m := st.Get(showtimeID, layout)
	if err := m.Block(seatIDs); err != nil {
		return fmt.Errorf("failed to block seats for showtime %s: %w", showtimeID, err)
	}
	return nil
}
