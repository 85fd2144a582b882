package seatmap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SeatStatus represents the lifecycle state of a single seat within a showtime
type SeatStatus string

const (
	StatusAvailable SeatStatus = "AVAILABLE"
	StatusHeld      SeatStatus = "HELD"
	StatusBooked    SeatStatus = "BOOKED"
	StatusBlocked   SeatStatus = "BLOCKED"
)

// IsValid checks if the seat status is valid
func (s SeatStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusHeld, StatusBooked, StatusBlocked:
		return true
	}
	return false
}

// String returns the string representation of SeatStatus
func (s SeatStatus) String() string {
	return string(s)
}

// Layout describes the physical seat arrangement of an auditorium.
// Seat ids are row letter plus 1-based seat number, e.g. "A5".
type Layout struct {
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seats_per_row"`
}

// SeatIDs expands the layout into the full list of seat ids, row by row.
func (l Layout) SeatIDs() []string {
	ids := make([]string, 0, len(l.Rows)*l.SeatsPerRow)
	for _, row := range l.Rows {
		for n := 1; n <= l.SeatsPerRow; n++ {
			ids = append(ids, fmt.Sprintf("%s%d", row, n))
		}
	}
	return ids
}

// Grid is a read-only snapshot of a showtime's seat occupancy, shaped for the
// seat-selection UI: the layout plus the ids that are not freely selectable.
type Grid struct {
	ShowtimeID  string   `json:"showtime_id"`
	Rows        []string `json:"rows"`
	SeatsPerRow int      `json:"seats_per_row"`
	HeldSeats   []string `json:"held_seats"`
	BookedSeats []string `json:"booked_seats"`
	BlockedSeats []string `json:"blocked_seats"`
}

// splitSeatID separates a seat id into its row prefix and seat number.
// The row is one or more leading letters, the number the trailing digits.
func splitSeatID(id string) (row string, num int, ok bool) {
	i := 0
	for i < len(id) && !isDigit(id[i]) {
		i++
	}
	if i == 0 || i == len(id) {
		return "", 0, false
	}
	num, err := strconv.Atoi(id[i:])
	if err != nil || num < 1 {
		return "", 0, false
	}
	return strings.ToUpper(id[:i]), num, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// sortSeatIDs returns a de-duplicated copy of ids in the canonical order used
// for lock acquisition: by row, then by seat number. All mutating paths must
// take per-seat locks in this exact order.
func sortSeatIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		ri, ni, oki := splitSeatID(out[i])
		rj, nj, okj := splitSeatID(out[j])
		if !oki || !okj {
			return out[i] < out[j]
		}
		if ri != rj {
			return ri < rj
		}
		return ni < nj
	})
	return out
}
