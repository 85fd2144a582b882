package bookings

import (
	"errors"
	"net/http"

	"tickethub/internal/holds"
	"tickethub/internal/payments"
	"tickethub/internal/shared/middleware"
	"tickethub/internal/shared/utils/response"
	"tickethub/internal/tickets"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetTicket(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	sessionID, ok := middleware.SessionID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Session not established", nil)
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), sessionID, req)
	if err != nil {
		ctrl.respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Booking confirmed successfully", booking)
}

func (ctrl *controller) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, holds.ErrHoldNotFound):
		response.Error(c, http.StatusNotFound, "Hold not found", nil)
	case errors.Is(err, holds.ErrHoldExpired):
		response.Error(c, http.StatusGone, "Hold has expired", nil)
	case errors.Is(err, holds.ErrDuplicateBooking):
		response.Error(c, http.StatusConflict, "Hold was already used for a booking", nil)
	case errors.Is(err, holds.ErrHoldNotActive):
		response.Error(c, http.StatusConflict, "Hold is no longer active", nil)
	case errors.Is(err, payments.ErrPaymentTimeout):
		response.Error(c, http.StatusPaymentRequired, "Payment processing timed out", nil)
	case errors.Is(err, payments.ErrPaymentFailed):
		response.Error(c, http.StatusPaymentRequired, "Payment was declined", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Failed to create booking", nil)
	}
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID := c.Param("id")

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch booking", nil)
		return
	}

	response.Success(c, http.StatusOK, "Booking retrieved successfully", booking)
}

func (ctrl *controller) GetTicket(c *gin.Context) {
	bookingID := c.Param("id")

	ticket, err := ctrl.service.GetTicket(c.Request.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, tickets.ErrBookingNotConfirmed):
			response.Error(c, http.StatusConflict, "Ticket is only available for confirmed bookings", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "Failed to issue ticket", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "Ticket retrieved successfully", ticket)
}
