package holds

import "time"

type HoldResponse struct {
	HoldID     string    `json:"hold_id"`
	ShowtimeID string    `json:"showtime_id"`
	Seats      []string  `json:"seats"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

func toHoldResponse(info Info) HoldResponse {
	ttl := int(time.Until(info.ExpiresAt).Seconds())
	if ttl < 0 {
		ttl = 0
	}
	return HoldResponse{
		HoldID:     info.ID,
		ShowtimeID: info.ShowtimeID,
		Seats:      info.SeatIDs,
		Status:     info.Status.String(),
		ExpiresAt:  info.ExpiresAt,
		TTLSeconds: ttl,
	}
}

type SeatGridResponse struct {
	ShowtimeID     string   `json:"showtime_id"`
	MovieTitle     string   `json:"movie_title"`
	TheaterName    string   `json:"theater_name"`
	Price          float64  `json:"price"`
	Rows           []string `json:"rows"`
	SeatsPerRow    int      `json:"seats_per_row"`
	HeldSeats      []string `json:"held_seats"`
	BookedSeats    []string `json:"booked_seats"`
	BlockedSeats   []string `json:"blocked_seats"`
	AvailableSeats int      `json:"available_seats"`
}
