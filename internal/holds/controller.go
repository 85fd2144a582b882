package holds

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"tickethub/internal/catalog"
	"tickethub/internal/seatmap"
	"tickethub/internal/shared/middleware"
	"tickethub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// seatLabelPattern matches seat ids like "A1" or "J20": one row letter
// followed by a 1- or 2-digit seat number.
var seatLabelPattern = regexp.MustCompile(`^[A-Z][1-9][0-9]?$`)

// ShowtimeSource resolves showtimes so the controller can validate ids and
// pick up seat layouts.
type ShowtimeSource interface {
	GetShowtimeDetail(ctx context.Context, showtimeID string) (*catalog.ShowtimeDetail, error)
}

type Controller interface {
	CreateHold(c *gin.Context)
	CancelHold(c *gin.Context)
	GetSeatGrid(c *gin.Context)
}

type controller struct {
	manager   *Manager
	showtimes ShowtimeSource
	validator *validator.Validate
}

func NewController(manager *Manager, showtimes ShowtimeSource) Controller {
	v := validator.New()
	v.RegisterValidation("seatid", func(fl validator.FieldLevel) bool {
		return seatLabelPattern.MatchString(fl.Field().String())
	})
	return &controller{manager: manager, showtimes: showtimes, validator: v}
}

func (ctrl *controller) CreateHold(c *gin.Context) {
	var req CreateHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Session not established", nil)
		return
	}

	detail, err := ctrl.showtimes.GetShowtimeDetail(c.Request.Context(), req.ShowtimeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Showtime not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to resolve showtime", nil)
		return
	}

	hold, err := ctrl.manager.CreateHold(c.Request.Context(), req.ShowtimeID, sessionID, detail.Layout(), req.Seats)
	if err != nil {
		var unavailable *seatmap.SeatUnavailableError
		switch {
		case errors.Is(err, ErrInvalidSeatCount):
			response.Error(c, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, seatmap.ErrUnknownSeat):
			response.Error(c, http.StatusBadRequest, "Request contains unknown seat ids", nil)
		case errors.As(err, &unavailable):
			response.Error(c, http.StatusConflict, "Some seats are not available", gin.H{
				"conflicting_seats": unavailable.Conflicts,
			})
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to create hold", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "Seats held successfully", toHoldResponse(hold.Info()))
}

func (ctrl *controller) CancelHold(c *gin.Context) {
	holdID := c.Param("holdId")

	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Session not established", nil)
		return
	}

	info, err := ctrl.manager.Get(holdID)
	if err != nil || info.SessionID != sessionID {
		// Hide other sessions' holds
		response.Error(c, http.StatusNotFound, "Hold not found", nil)
		return
	}

	if err := ctrl.manager.CancelHold(c.Request.Context(), holdID); err != nil {
		switch {
		case errors.Is(err, ErrHoldNotFound):
			response.Error(c, http.StatusNotFound, "Hold not found", nil)
		case errors.Is(err, ErrDuplicateBooking):
			response.Error(c, http.StatusConflict, "Hold was already converted into a booking", nil)
		case errors.Is(err, ErrHoldExpired), errors.Is(err, ErrHoldNotActive):
			// Seats are already free; cancellation is idempotent
			c.Status(http.StatusNoContent)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to cancel hold", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (ctrl *controller) GetSeatGrid(c *gin.Context) {
	showtimeID := c.Param("id")

	detail, err := ctrl.showtimes.GetShowtimeDetail(c.Request.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Showtime not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to resolve showtime", nil)
		return
	}

	layout := detail.Layout()
	grid, err := ctrl.manager.Grid(c.Request.Context(), showtimeID, layout)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to read seat availability", nil)
		return
	}

	total := len(layout.Rows) * layout.SeatsPerRow
	response.Success(c, http.StatusOK, "Seat availability retrieved successfully", SeatGridResponse{
		ShowtimeID:     showtimeID,
		MovieTitle:     detail.Movie.Title,
		TheaterName:    detail.Theater.Name,
		Price:          detail.Showtime.Price,
		Rows:           layout.Rows,
		SeatsPerRow:    layout.SeatsPerRow,
		HeldSeats:      grid.HeldSeats,
		BookedSeats:    grid.BookedSeats,
		BlockedSeats:   grid.BlockedSeats,
		AvailableSeats: total - len(grid.HeldSeats) - len(grid.BookedSeats) - len(grid.BlockedSeats),
	})
}
