package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsFinal reports whether the booking can still change state.
func (s Status) IsFinal() bool {
	return s == StatusConfirmed || s == StatusFailed
}
