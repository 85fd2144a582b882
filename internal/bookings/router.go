package bookings

import (
	"tickethub/internal/shared/config"
	"tickethub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.SessionAuth(cfg))
	{
		bookings.POST("", controller.CreateBooking)          // POST /api/v1/bookings - Pay and convert a hold
		bookings.GET("/:id", controller.GetBooking)          // GET /api/v1/bookings/:id - Booking details
		bookings.GET("/:id/ticket", controller.GetTicket)    // GET /api/v1/bookings/:id/ticket - Issued ticket
	}
}
