package bookings

type CreateBookingRequest struct {
	HoldID string `json:"hold_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone" binding:"omitempty,min=7,max=15"`
}
