package catalog

import (
	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse the catalog
	movies := router.Group("/movies")
	{
		movies.GET("", controller.GetMovies)            // GET /api/v1/movies - Browse movies
		movies.GET("/:id", controller.GetMovie)         // GET /api/v1/movies/:id - Movie details
		movies.GET("/:id/shows", controller.GetMovieShows) // GET /api/v1/movies/:id/shows - Showtimes grouped by theater
	}
}
