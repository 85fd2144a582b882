package holds

import (
	"context"
	"testing"
	"time"

	"tickethub/internal/seatmap"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeldSeats_ReturnsSeatToHoldMapping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mirror := NewRedisMirror(client)

	mock.ExpectKeys("tickethub:seats:held:show1:*").SetVal([]string{
		"tickethub:seats:held:show1:A1",
		"tickethub:seats:held:show1:A2",
	})
	mock.ExpectGet("tickethub:seats:held:show1:A1").SetVal("hold-1")
	mock.ExpectGet("tickethub:seats:held:show1:A2").SetVal("hold-2")

	held, err := mirror.HeldSeats(context.Background(), "show1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "hold-1", "A2": "hold-2"}, held)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHeldSeats_SkipsEntriesExpiringMidScan(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mirror := NewRedisMirror(client)

	mock.ExpectKeys("tickethub:seats:held:show1:*").SetVal([]string{
		"tickethub:seats:held:show1:A1",
		"tickethub:seats:held:show1:A2",
	})
	mock.ExpectGet("tickethub:seats:held:show1:A1").RedisNil()
	mock.ExpectGet("tickethub:seats:held:show1:A2").SetVal("hold-2")

	held, err := mirror.HeldSeats(context.Background(), "show1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A2": "hold-2"}, held)
}

func TestGrid_MergesMirroredHeldSeats(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := seatmap.NewStore()
	m := NewManager(store, nil, NewRedisMirror(client), 5*time.Minute)
	ctx := context.Background()

	// A seat held in this process, plus one the mirror reports from
	// another process instance.
	require.NoError(t, store.Get("show1", testLayout()).TryHold([]string{"A1"}, "hold-local"))
	mock.ExpectKeys("tickethub:seats:held:show1:*").SetVal([]string{
		"tickethub:seats:held:show1:B5",
	})
	mock.ExpectGet("tickethub:seats:held:show1:B5").SetVal("other-hold")

	grid, err := m.Grid(ctx, "show1", testLayout())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1", "B5"}, grid.HeldSeats)
}

func TestGrid_MirrorFailureDoesNotBreakSeatView(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := seatmap.NewStore()
	m := NewManager(store, nil, NewRedisMirror(client), 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Get("show1", testLayout()).TryHold([]string{"A1"}, "hold-local"))
	mock.ExpectKeys("tickethub:seats:held:show1:*").SetErr(assert.AnError)

	grid, err := m.Grid(ctx, "show1", testLayout())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A1"}, grid.HeldSeats)
}
