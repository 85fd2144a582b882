package holds

import (
	"context"
	"sync"
	"testing"
	"time"

	"tickethub/internal/seatmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookedSeats struct {
	seats map[string][]string
	err   error
}

func (s *stubBookedSeats) BookedSeats(_ context.Context, showtimeID string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.seats[showtimeID], nil
}

func testLayout() seatmap.Layout {
	return seatmap.Layout{Rows: []string{"A", "B"}, SeatsPerRow: 10}
}

func newTestManager(ttl time.Duration) *Manager {
	return NewManager(seatmap.NewStore(), nil, nil, ttl)
}

func TestCreateHold_Success(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A2"})
	require.NoError(t, err)

	assert.NotEmpty(t, hold.ID)
	assert.Equal(t, "show1", hold.ShowtimeID)
	assert.Equal(t, "session1", hold.SessionID)
	assert.Equal(t, StatusActive, hold.Status())
	assert.Equal(t, hold.CreatedAt.Add(5*time.Minute), hold.ExpiresAt)

	info, err := m.Get(hold.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, info.SeatIDs)
}

func TestCreateHold_SeatCountBounds(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	_, err := m.CreateHold(ctx, "show1", "session1", testLayout(), nil)
	assert.ErrorIs(t, err, ErrInvalidSeatCount)

	eleven := []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10", "B1"}
	_, err = m.CreateHold(ctx, "show1", "session1", testLayout(), eleven)
	assert.ErrorIs(t, err, ErrInvalidSeatCount)

	ten := eleven[:10]
	_, err = m.CreateHold(ctx, "show1", "session1", testLayout(), ten)
	assert.NoError(t, err)
}

func TestCreateHold_CollapsesDuplicateSeats(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A1", "A2", "A1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, hold.SeatIDs)

	// Only the distinct seats are held; the rest of the row stays free.
	grid, err := m.Grid(ctx, "show1", testLayout())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "A2"}, grid.HeldSeats)

	// A single seat repeated past the per-hold maximum is still one seat.
	repeated := make([]string, 12)
	for i := range repeated {
		repeated[i] = "B1"
	}
	single, err := m.CreateHold(ctx, "show1", "session1", testLayout(), repeated)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, single.SeatIDs)
}

func TestCreateHold_ConflictWithActiveHold(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	_, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A2"})
	require.NoError(t, err)

	_, err = m.CreateHold(ctx, "show1", "session2", testLayout(), []string{"A2", "A3"})
	var unavailable *seatmap.SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"A2"}, unavailable.Conflicts)

	// The non-conflicting seat is still free for a corrected retry.
	_, err = m.CreateHold(ctx, "show1", "session2", testLayout(), []string{"A3"})
	assert.NoError(t, err)
}

func TestCreateHold_ConflictWithDurableBookings(t *testing.T) {
	booked := &stubBookedSeats{seats: map[string][]string{"show1": {"B1", "B2"}}}
	m := NewManager(seatmap.NewStore(), booked, nil, 5*time.Minute)
	ctx := context.Background()

	_, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "B2"})
	var unavailable *seatmap.SeatUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{"B2"}, unavailable.Conflicts)
}

func TestCancelHold_ReleasesSeats(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A2"})
	require.NoError(t, err)

	require.NoError(t, m.CancelHold(ctx, hold.ID))
	assert.Equal(t, StatusReleased, hold.Status())

	// Seats are selectable again.
	_, err = m.CreateHold(ctx, "show1", "session2", testLayout(), []string{"A1", "A2"})
	assert.NoError(t, err)
}

func TestCancelHold_Terminal(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
	require.NoError(t, err)

	require.NoError(t, m.CancelHold(ctx, hold.ID))
	assert.ErrorIs(t, m.CancelHold(ctx, hold.ID), ErrHoldNotActive)

	assert.ErrorIs(t, m.CancelHold(ctx, "missing"), ErrHoldNotFound)
}

func TestCancelHold_AfterConversion(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
	require.NoError(t, err)
	require.NoError(t, m.ConvertHold(ctx, hold.ID, "booking1"))

	assert.ErrorIs(t, m.CancelHold(ctx, hold.ID), ErrDuplicateBooking)
}

func TestConvertHold_BooksSeats(t *testing.T) {
	store := seatmap.NewStore()
	m := NewManager(store, nil, nil, 5*time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A2"})
	require.NoError(t, err)

	require.NoError(t, m.ConvertHold(ctx, hold.ID, "booking1"))
	assert.Equal(t, StatusConverted, hold.Status())

	sm, ok := store.Lookup("show1")
	require.True(t, ok)
	for _, id := range []string{"A1", "A2"} {
		status, err := sm.Status(id)
		require.NoError(t, err)
		assert.Equal(t, seatmap.StatusBooked, status)
	}
}

func TestConvertHold_DuplicateConversion(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
	require.NoError(t, err)

	require.NoError(t, m.ConvertHold(ctx, hold.ID, "booking1"))
	assert.ErrorIs(t, m.ConvertHold(ctx, hold.ID, "booking2"), ErrDuplicateBooking)
}

func TestExpiry_FreesSeats(t *testing.T) {
	m := newTestManager(30 * time.Millisecond)
	ctx := context.Background()

	hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1", "A2"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return hold.Status() == StatusExpired
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, m.ConvertHold(ctx, hold.ID, "booking1"), ErrHoldExpired)

	_, err = m.CreateHold(ctx, "show1", "session2", testLayout(), []string{"A1", "A2"})
	assert.NoError(t, err)
}

func TestExpiryVsConvert_SingleResolution(t *testing.T) {
	ctx := context.Background()

	// Race the timer against conversion repeatedly; whatever the
	// interleaving, exactly one resolution must apply.
	for i := 0; i < 20; i++ {
		m := newTestManager(10 * time.Millisecond)

		hold, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		var convertErr error
		go func() {
			defer wg.Done()
			time.Sleep(10 * time.Millisecond)
			convertErr = m.ConvertHold(ctx, hold.ID, "booking1")
		}()
		wg.Wait()

		status := hold.Status()
		if convertErr == nil {
			assert.Equal(t, StatusConverted, status)
		} else {
			assert.ErrorIs(t, convertErr, ErrHoldExpired)
			assert.Equal(t, StatusExpired, status)
		}
	}
}

func TestGrid_MergesDurableBookings(t *testing.T) {
	booked := &stubBookedSeats{seats: map[string][]string{"show1": {"B9", "B10"}}}
	m := NewManager(seatmap.NewStore(), booked, nil, 5*time.Minute)
	ctx := context.Background()

	_, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
	require.NoError(t, err)

	grid, err := m.Grid(ctx, "show1", testLayout())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A1"}, grid.HeldSeats)
	assert.ElementsMatch(t, []string{"B9", "B10"}, grid.BookedSeats)
}

func TestGet_UnknownHold(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	_, err := m.Get("missing")
	assert.ErrorIs(t, err, ErrHoldNotFound)
}

func TestPruneResolved_DropsOldResolvedHolds(t *testing.T) {
	m := newTestManager(5 * time.Minute)
	ctx := context.Background()

	cancelled, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A1"})
	require.NoError(t, err)
	require.NoError(t, m.CancelHold(ctx, cancelled.ID))

	active, err := m.CreateHold(ctx, "show1", "session1", testLayout(), []string{"A2"})
	require.NoError(t, err)

	// Within the retention window the resolved hold is still queryable, so a
	// late booking attempt gets the precise resolution error.
	assert.Equal(t, 0, m.pruneResolved(time.Now(), time.Hour))
	info, err := m.Get(cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReleased, info.Status)

	// Past the window the entry is swept; active holds are never touched.
	assert.Equal(t, 1, m.pruneResolved(time.Now().Add(2*time.Hour), time.Hour))
	_, err = m.Get(cancelled.ID)
	assert.ErrorIs(t, err, ErrHoldNotFound)
	_, err = m.Get(active.ID)
	assert.NoError(t, err)
}
