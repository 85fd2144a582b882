package holds

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tickethub/internal/seatmap"
	"tickethub/pkg/logger"

	"github.com/google/uuid"
)

// Seat-count bounds for a single hold.
const (
	MinSeatsPerHold = 1
	MaxSeatsPerHold = 10
)

// BookedSeatsSource exposes the durable booked-seat view so new holds cannot
// collide with bookings confirmed before this process started. Implemented by
// the bookings repository (to avoid a circular dependency on that package).
type BookedSeatsSource interface {
	BookedSeats(ctx context.Context, showtimeID string) ([]string, error)
}

// Manager turns seat-selection requests into time-bounded locks. It owns the
// hold registry and the per-hold expiry timers; holds are never persisted
// beyond their resolution.
type Manager struct {
	seats  *seatmap.Store
	booked BookedSeatsSource
	mirror *RedisMirror
	ttl    time.Duration

	mu    sync.RWMutex
	holds map[string]*Hold
}

// NewManager creates a hold manager. booked and mirror may be nil (tests,
// degraded mode); ttl must be positive and is fixed per hold at creation.
func NewManager(seats *seatmap.Store, booked BookedSeatsSource, mirror *RedisMirror, ttl time.Duration) *Manager {
	return &Manager{
		seats:  seats,
		booked: booked,
		mirror: mirror,
		ttl:    ttl,
		holds:  make(map[string]*Hold),
	}
}

// TTL returns the hold time-to-live applied at creation.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// CreateHold validates the seat set, acquires it atomically on the showtime's
// seat map and registers an ACTIVE hold with a scheduled expiry. On conflict
// nothing is mutated and the error lists the conflicting seats.
func (m *Manager) CreateHold(ctx context.Context, showtimeID, sessionID string, layout seatmap.Layout, seatIDs []string) (*Hold, error) {
	// A hold covers a set of seats; repeated ids collapse before the count
	// is validated so the customer is never charged for a seat twice.
	seatIDs = dedupeSeatIDs(seatIDs)
	if len(seatIDs) < MinSeatsPerHold || len(seatIDs) > MaxSeatsPerHold {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeatCount, len(seatIDs))
	}

	sm := m.seats.Get(showtimeID, layout)

	// Durable bookings confirmed before this process started are not in the
	// in-memory map yet; reject collisions with them up front.
	if m.booked != nil {
		booked, err := m.booked.BookedSeats(ctx, showtimeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check booked seats: %w", err)
		}
		if conflicts := intersect(seatIDs, booked); len(conflicts) > 0 {
			return nil, &seatmap.SeatUnavailableError{Conflicts: conflicts}
		}
	}

	holdID := uuid.New().String()
	if err := sm.TryHold(seatIDs, holdID); err != nil {
		return nil, err
	}

	now := time.Now()
	hold := &Hold{
		ID:         holdID,
		ShowtimeID: showtimeID,
		SessionID:  sessionID,
		SeatIDs:    append([]string(nil), seatIDs...),
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
		status:     StatusActive,
	}

	m.mu.Lock()
	m.holds[holdID] = hold
	m.mu.Unlock()

	hold.setTimer(time.AfterFunc(m.ttl, func() { m.expire(holdID) }))

	if m.mirror != nil {
		if err := m.mirror.RecordHold(ctx, hold, m.ttl); err != nil {
			logger.GetDefault().Warn("failed to mirror hold to redis",
				"hold_id", holdID, "error", err)
		}
	}

	logger.GetDefault().LogHoldCreated(ctx, holdID, showtimeID, sessionID, len(seatIDs))
	return hold, nil
}

// Get returns a snapshot of the hold.
func (m *Manager) Get(holdID string) (Info, error) {
	m.mu.RLock()
	hold, ok := m.holds[holdID]
	m.mu.RUnlock()
	if !ok {
		return Info{}, ErrHoldNotFound
	}
	return hold.Info(), nil
}

// CancelHold is the customer-initiated release. It is only valid while the
// hold is ACTIVE; winning the resolution releases the seats and cancels
// the pending expiry.
func (m *Manager) CancelHold(ctx context.Context, holdID string) error {
	m.mu.RLock()
	hold, ok := m.holds[holdID]
	m.mu.RUnlock()
	if !ok {
		return ErrHoldNotFound
	}

	if !hold.resolve(StatusReleased) {
		return m.resolutionError(hold)
	}

	hold.stopTimer()
	if sm, ok := m.seats.Lookup(hold.ShowtimeID); ok {
		sm.Release(hold.SeatIDs)
	}
	m.clearMirror(ctx, hold)

	logger.GetDefault().LogHoldReleased(ctx, holdID, hold.ShowtimeID, "cancelled")
	return nil
}

// ConvertHold resolves the hold into a confirmed booking: it wins the status
// transition first, so a concurrently firing expiry observes the change and
// no-ops, then moves the seats HELD -> BOOKED. A Confirm failure here is an
// internal consistency violation, not a recoverable condition.
func (m *Manager) ConvertHold(ctx context.Context, holdID, bookingID string) error {
	m.mu.RLock()
	hold, ok := m.holds[holdID]
	m.mu.RUnlock()
	if !ok {
		return ErrHoldNotFound
	}

	if !hold.resolve(StatusConverted) {
		return m.resolutionError(hold)
	}

	hold.stopTimer()
	sm, ok := m.seats.Lookup(hold.ShowtimeID)
	if !ok {
		return fmt.Errorf("%w: no seat map for showtime %s", seatmap.ErrInvalidState, hold.ShowtimeID)
	}
	if err := sm.Confirm(hold.SeatIDs, bookingID); err != nil {
		return fmt.Errorf("failed to confirm seats for hold %s: %w", holdID, err)
	}
	m.clearMirror(ctx, hold)

	logger.GetDefault().LogHoldConverted(ctx, holdID, hold.ShowtimeID, bookingID)
	return nil
}

// expire is the scheduled expiry action. It re-checks the hold's status by
// attempting the transition: if conversion or cancel already won, this is a
// no-op. Idempotent by construction.
func (m *Manager) expire(holdID string) {
	m.mu.RLock()
	hold, ok := m.holds[holdID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	if !hold.resolve(StatusExpired) {
		return
	}

	if sm, ok := m.seats.Lookup(hold.ShowtimeID); ok {
		sm.Release(hold.SeatIDs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.clearMirror(ctx, hold)

	logger.GetDefault().LogHoldReleased(ctx, holdID, hold.ShowtimeID, "expired")
}

// RunRetentionSweep prunes resolved holds once a minute until ctx is
// cancelled. Resolved holds are kept for retention so a late booking attempt
// still learns whether its hold expired or was already converted; after that
// the registry entry is dropped and the id resolves to ErrHoldNotFound.
func (m *Manager) RunRetentionSweep(ctx context.Context, retention time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.pruneResolved(time.Now(), retention); removed > 0 {
				logger.GetDefault().InfoWithContext(ctx, "pruned resolved holds",
					map[string]interface{}{"removed": removed})
			}
		}
	}
}

func (m *Manager) pruneResolved(now time.Time, retention time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, hold := range m.holds {
		resolvedAt, done := hold.resolvedTime()
		if done && now.Sub(resolvedAt) >= retention {
			delete(m.holds, id)
			removed++
		}
	}
	return removed
}

// Grid merges the live in-memory occupancy with the durable booked seats, so
// bookings confirmed by earlier process runs still show as taken.
func (m *Manager) Grid(ctx context.Context, showtimeID string, layout seatmap.Layout) (seatmap.Grid, error) {
	grid := m.seats.Get(showtimeID, layout).Snapshot()

	if m.booked != nil {
		booked, err := m.booked.BookedSeats(ctx, showtimeID)
		if err != nil {
			return seatmap.Grid{}, fmt.Errorf("failed to load booked seats: %w", err)
		}
		grid.BookedSeats = mergeSeatLists(grid.BookedSeats, booked)
	}

	// The redis mirror also tracks holds placed by other process instances;
	// fold those in, but never fail the seat view on mirror trouble.
	if m.mirror != nil {
		mirrored, err := m.mirror.HeldSeats(ctx, showtimeID)
		if err != nil {
			logger.GetDefault().Warn("failed to read held-seat mirror",
				"showtime_id", showtimeID, "error", err)
		} else if len(mirrored) > 0 {
			seats := make([]string, 0, len(mirrored))
			for seatID := range mirrored {
				seats = append(seats, seatID)
			}
			sort.Strings(seats)
			grid.HeldSeats = mergeSeatLists(grid.HeldSeats, seats)
		}
	}
	return grid, nil
}

// resolutionError maps a lost resolution to the error describing why.
func (m *Manager) resolutionError(hold *Hold) error {
	switch hold.Status() {
	case StatusExpired:
		return ErrHoldExpired
	case StatusConverted:
		return ErrDuplicateBooking
	case StatusReleased:
		return ErrHoldNotActive
	default:
		return ErrHoldNotActive
	}
}

func (m *Manager) clearMirror(ctx context.Context, hold *Hold) {
	if m.mirror == nil {
		return
	}
	if err := m.mirror.ClearHold(ctx, hold); err != nil {
		logger.GetDefault().Warn("failed to clear hold mirror",
			"hold_id", hold.ID, "error", err)
	}
}

func dedupeSeatIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func mergeSeatLists(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
