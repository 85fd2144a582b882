package holds

type CreateHoldRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required"`
	Seats      []string `json:"seats" binding:"required,min=1,dive,required" validate:"dive,seatid"`
}
