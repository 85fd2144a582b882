package holds

import (
	"sync"
	"time"
)

// Status represents the lifecycle state of a hold. ACTIVE is the only
// non-terminal state; every transition out of it is one-way.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusConverted Status = "CONVERTED"
	StatusExpired   Status = "EXPIRED"
	StatusReleased  Status = "RELEASED"
)

// IsValid checks if the hold status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusConverted, StatusExpired, StatusReleased:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status can never change again.
func (s Status) IsTerminal() bool {
	return s != StatusActive
}

// Hold is a time-bounded lock on a seat set for one customer session. The
// seat set is immutable after creation; only the status field mutates, and
// only through resolve, so exactly one of expiry, conversion and explicit
// cancel can ever apply.
type Hold struct {
	ID         string
	ShowtimeID string
	SessionID  string
	SeatIDs    []string
	CreatedAt  time.Time
	ExpiresAt  time.Time

	mu         sync.Mutex
	status     Status
	resolvedAt time.Time
	timer      *time.Timer
}

// Status returns the hold's current status.
func (h *Hold) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// resolve attempts the one-way transition ACTIVE -> to and reports whether
// this caller won it. Losers must not touch the hold's seats: whoever wins
// the transition owns the follow-up seat mutation exclusively.
func (h *Hold) resolve(to Status) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status != StatusActive {
		return false
	}
	h.status = to
	h.resolvedAt = time.Now()
	return true
}

// resolvedTime returns when the hold left ACTIVE, if it has.
func (h *Hold) resolvedTime() (time.Time, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolvedAt, h.status != StatusActive
}

// setTimer attaches the pending expiry timer.
func (h *Hold) setTimer(t *time.Timer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.timer = t
}

// stopTimer cancels the pending expiry timer if it has not fired yet. Safe to
// call after the timer fired; the resolve guard makes the callback a no-op.
func (h *Hold) stopTimer() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Info is an immutable snapshot of a hold, safe to hand outside the package.
type Info struct {
	ID         string    `json:"hold_id"`
	ShowtimeID string    `json:"showtime_id"`
	SessionID  string    `json:"session_id"`
	SeatIDs    []string  `json:"seat_ids"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Info snapshots the hold's current state.
func (h *Hold) Info() Info {
	seats := make([]string, len(h.SeatIDs))
	copy(seats, h.SeatIDs)
	return Info{
		ID:         h.ID,
		ShowtimeID: h.ShowtimeID,
		SessionID:  h.SessionID,
		SeatIDs:    seats,
		Status:     h.Status(),
		CreatedAt:  h.CreatedAt,
		ExpiresAt:  h.ExpiresAt,
	}
}
