package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog record not found")

type Repository interface {
	ListMovies(ctx context.Context, filters MovieFilters) ([]Movie, error)
	GetMovie(ctx context.Context, movieID string) (*Movie, error)
	ListTheaters(ctx context.Context, city string) ([]Theater, error)
	GetTheater(ctx context.Context, theaterID string) (*Theater, error)
	ListShowtimesForMovie(ctx context.Context, movieID, showDate string) ([]Showtime, error)
	GetShowtime(ctx context.Context, showtimeID string) (*Showtime, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListMovies(ctx context.Context, filters MovieFilters) ([]Movie, error) {
	query := r.db.WithContext(ctx).Model(&Movie{})

	// Genres and languages are stored as JSON arrays of strings, so a
	// quoted substring match is an exact element match.
	if filters.Genre != "" {
		query = query.Where("genres LIKE ?", fmt.Sprintf("%%%q%%", filters.Genre))
	}
	if filters.Language != "" {
		query = query.Where("languages LIKE ?", fmt.Sprintf("%%%q%%", filters.Language))
	}
	if filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filters.Search+"%")
	}

	var movies []Movie
	if err := query.Order("release_date DESC").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

func (r *repository) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	var movie Movie
	err := r.db.WithContext(ctx).Where("id = ?", movieID).First(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &movie, nil
}

func (r *repository) ListTheaters(ctx context.Context, city string) ([]Theater, error) {
	query := r.db.WithContext(ctx).Model(&Theater{})
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var theaters []Theater
	if err := query.Order("name ASC").Find(&theaters).Error; err != nil {
		return nil, fmt.Errorf("failed to list theaters: %w", err)
	}
	return theaters, nil
}

func (r *repository) GetTheater(ctx context.Context, theaterID string) (*Theater, error) {
	var theater Theater
	err := r.db.WithContext(ctx).Where("id = ?", theaterID).First(&theater).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}
	return &theater, nil
}

func (r *repository) ListShowtimesForMovie(ctx context.Context, movieID, showDate string) ([]Showtime, error) {
	query := r.db.WithContext(ctx).Where("movie_id = ?", movieID)
	if showDate != "" {
		query = query.Where("show_date = ?", showDate)
	}

	var showtimes []Showtime
	if err := query.Order("show_time ASC").Find(&showtimes).Error; err != nil {
		return nil, fmt.Errorf("failed to list showtimes: %w", err)
	}
	return showtimes, nil
}

func (r *repository) GetShowtime(ctx context.Context, showtimeID string) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).Where("id = ?", showtimeID).First(&showtime).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return &showtime, nil
}
