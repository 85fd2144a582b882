package seatmap

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() Layout {
	return Layout{Rows: []string{"A", "B"}, SeatsPerRow: 5}
}

func TestLayout_SeatIDs(t *testing.T) {
	ids := testLayout().SeatIDs()

	assert.Len(t, ids, 10)
	assert.Equal(t, "A1", ids[0])
	assert.Equal(t, "A5", ids[4])
	assert.Equal(t, "B1", ids[5])
	assert.Equal(t, "B5", ids[9])
}

func TestTryHold_Success(t *testing.T) {
	m := New("show1", testLayout())

	err := m.TryHold([]string{"A1", "A2", "A3"}, "hold1")
	require.NoError(t, err)

	for _, id := range []string{"A1", "A2", "A3"} {
		status, err := m.Status(id)
		require.NoError(t, err)
		assert.Equal(t, StatusHeld, status)
	}

	status, err := m.Status("A4")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)
}

func TestTryHold_ConflictListsEverySeat(t *testing.T) {
	m := New("show1", testLayout())

	require.NoError(t, m.TryHold([]string{"A2", "A4"}, "hold1"))

	err := m.TryHold([]string{"A1", "A2", "A3", "A4"}, "hold2")
	require.Error(t, err)

	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ElementsMatch(t, []string{"A2", "A4"}, unavailable.Conflicts)

	// Nothing was mutated: the non-conflicting seats stay AVAILABLE.
	for _, id := range []string{"A1", "A3"} {
		status, err := m.Status(id)
		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, status)
	}
}

func TestTryHold_UnknownSeat(t *testing.T) {
	m := New("show1", testLayout())

	err := m.TryHold([]string{"A1", "Z99"}, "hold1")
	assert.ErrorIs(t, err, ErrUnknownSeat)

	status, err := m.Status("A1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)
}

func TestTryHold_ConcurrentOverlap_ExactlyOneWins(t *testing.T) {
	m := New("show1", testLayout())

	const attempts = 50
	seats := []string{"A1", "A2", "A3"}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	conflicts := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := m.TryHold(seats, fmt.Sprintf("hold-%d", n))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			var unavailable *SeatUnavailableError
			if errors.As(err, &unavailable) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, conflicts)
}

func TestRelease_ReturnsHeldSeatsOnly(t *testing.T) {
	m := New("show1", testLayout())

	require.NoError(t, m.TryHold([]string{"A1", "A2"}, "hold1"))
	require.NoError(t, m.TryHold([]string{"B1"}, "hold2"))
	require.NoError(t, m.Confirm([]string{"B1"}, "booking1"))

	// B1 is BOOKED; releasing it alongside held seats must not free it.
	m.Release([]string{"A1", "A2", "B1"})

	for _, tc := range []struct {
		seat string
		want SeatStatus
	}{
		{"A1", StatusAvailable},
		{"A2", StatusAvailable},
		{"B1", StatusBooked},
	} {
		status, err := m.Status(tc.seat)
		require.NoError(t, err)
		assert.Equal(t, tc.want, status, "seat %s", tc.seat)
	}
}

func TestRelease_IgnoresUnknownSeats(t *testing.T) {
	m := New("show1", testLayout())
	require.NoError(t, m.TryHold([]string{"A1"}, "hold1"))

	m.Release([]string{"A1", "Z99"})

	status, err := m.Status("A1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, status)
}

func TestConfirm_Success(t *testing.T) {
	m := New("show1", testLayout())
	require.NoError(t, m.TryHold([]string{"A1", "A2"}, "hold1"))

	require.NoError(t, m.Confirm([]string{"A1", "A2"}, "booking1"))

	for _, id := range []string{"A1", "A2"} {
		status, err := m.Status(id)
		require.NoError(t, err)
		assert.Equal(t, StatusBooked, status)
	}
}

func TestConfirm_NotHeldFailsWithoutMutation(t *testing.T) {
	m := New("show1", testLayout())
	require.NoError(t, m.TryHold([]string{"A1"}, "hold1"))

	// A2 is AVAILABLE, so the whole confirm must fail.
	err := m.Confirm([]string{"A1", "A2"}, "booking1")
	assert.ErrorIs(t, err, ErrInvalidState)

	status, err := m.Status("A1")
	require.NoError(t, err)
	assert.Equal(t, StatusHeld, status)
}

func TestConfirm_AlreadyBooked(t *testing.T) {
	m := New("show1", testLayout())
	require.NoError(t, m.TryHold([]string{"A1"}, "hold1"))
	require.NoError(t, m.Confirm([]string{"A1"}, "booking1"))

	err := m.Confirm([]string{"A1"}, "booking2")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBlock_OnlyAvailableSeats(t *testing.T) {
	m := New("show1", testLayout())

	require.NoError(t, m.Block([]string{"A1", "A2"}))

	status, err := m.Status("A1")
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, status)

	// Blocked seats cannot be held.
	err = m.TryHold([]string{"A1"}, "hold1")
	var unavailable *SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"A1"}, unavailable.Conflicts)

	// Held seats cannot be blocked out from under a customer.
	require.NoError(t, m.TryHold([]string{"B1"}, "hold2"))
	assert.ErrorIs(t, m.Block([]string{"B1"}), ErrInvalidState)
}

func TestSnapshot_GroupsByStatus(t *testing.T) {
	m := New("show1", testLayout())

	require.NoError(t, m.TryHold([]string{"A1", "A2"}, "hold1"))
	require.NoError(t, m.TryHold([]string{"B1"}, "hold2"))
	require.NoError(t, m.Confirm([]string{"B1"}, "booking1"))
	require.NoError(t, m.Block([]string{"B5"}))

	grid := m.Snapshot()

	assert.Equal(t, "show1", grid.ShowtimeID)
	assert.ElementsMatch(t, []string{"A1", "A2"}, grid.HeldSeats)
	assert.ElementsMatch(t, []string{"B1"}, grid.BookedSeats)
	assert.ElementsMatch(t, []string{"B5"}, grid.BlockedSeats)
}

func TestSortSeatIDs_CanonicalOrderAndDedup(t *testing.T) {
	got := sortSeatIDs([]string{"B2", "A10", "A2", "A2", "B1"})
	assert.Equal(t, []string{"A2", "A10", "B1", "B2"}, got)
}

func TestStore_GetIsIdempotentPerShowtime(t *testing.T) {
	st := NewStore()
	layout := testLayout()

	m1 := st.Get("show1", layout)
	m2 := st.Get("show1", layout)
	assert.Same(t, m1, m2)

	_, ok := st.Lookup("show2")
	assert.False(t, ok)

	require.NoError(t, st.BlockSeats("show2", layout, []string{"A1"}))
	m3, ok := st.Lookup("show2")
	require.True(t, ok)
	status, err := m3.Status("A1")
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, status)
}
