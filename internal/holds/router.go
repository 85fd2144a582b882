package holds

import (
	"tickethub/internal/shared/config"
	"tickethub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupHoldRoutes configures hold and seat availability routes
func SetupHoldRoutes(rg *gin.RouterGroup, controller Controller, cfg *config.Config) {
	holds := rg.Group("/holds")
	holds.Use(middleware.SessionAuth(cfg))
	{
		holds.POST("", controller.CreateHold)            // POST /api/v1/holds - Hold seats
		holds.DELETE("/:holdId", controller.CancelHold)  // DELETE /api/v1/holds/:holdId - Release a hold
	}

	// Seat grids are public so browsers can render availability before a
	// session exists
	showtimes := rg.Group("/showtimes")
	{
		showtimes.GET("/:id/seats", controller.GetSeatGrid) // GET /api/v1/showtimes/:id/seats - Live seat map
	}
}
