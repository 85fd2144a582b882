package catalog

import (
	"errors"
	"net/http"

	"tickethub/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	GetMovies(c *gin.Context)
	GetMovie(c *gin.Context)
	GetMovieShows(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetMovies(c *gin.Context) {
	filters := MovieFilters{
		Genre:    c.Query("genre"),
		Language: c.Query("language"),
		Search:   c.Query("search"),
	}

	movies, err := ctrl.service.ListMovies(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to fetch movies", nil)
		return
	}

	response.Success(c, http.StatusOK, "Movies retrieved successfully", gin.H{
		"movies": movies,
		"count":  len(movies),
	})
}

func (ctrl *controller) GetMovie(c *gin.Context) {
	movieID := c.Param("id")

	movie, err := ctrl.service.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch movie", nil)
		return
	}

	response.Success(c, http.StatusOK, "Movie retrieved successfully", movie)
}

func (ctrl *controller) GetMovieShows(c *gin.Context) {
	movieID := c.Param("id")
	showDate := c.Query("date")
	city := c.Query("city")

	theaters, err := ctrl.service.ListShowtimes(c.Request.Context(), movieID, showDate, city)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to fetch showtimes", nil)
		return
	}

	response.Success(c, http.StatusOK, "Showtimes retrieved successfully", gin.H{
		"movie_id": movieID,
		"theaters": theaters,
	})
}
