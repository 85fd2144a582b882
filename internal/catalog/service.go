package catalog

import (
	"context"
	"fmt"

	"tickethub/internal/seatmap"
	"tickethub/internal/shared/constants"
	"tickethub/pkg/cache"
)

// SeatGridSource reports live seat state for a showtime. The hold manager
// implements it.
type SeatGridSource interface {
	Grid(ctx context.Context, showtimeID string, layout seatmap.Layout) (seatmap.Grid, error)
}

type Service interface {
	ListMovies(ctx context.Context, filters MovieFilters) ([]Movie, error)
	GetMovie(ctx context.Context, movieID string) (*Movie, error)
	ListShowtimes(ctx context.Context, movieID, showDate, city string) ([]TheaterShowtimes, error)
	GetShowtimeDetail(ctx context.Context, showtimeID string) (*ShowtimeDetail, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	grids SeatGridSource
}

// NewService wires the catalog service. cache and grids may be nil in tests.
func NewService(repo Repository, cacheService cache.Service, grids SeatGridSource) Service {
	return &service{repo: repo, cache: cacheService, grids: grids}
}

func (s *service) ListMovies(ctx context.Context, filters MovieFilters) ([]Movie, error) {
	if s.cache == nil {
		return s.repo.ListMovies(ctx, filters)
	}

	var movies []Movie
	key := constants.BuildMoviesListKey(filters.Genre, filters.Language, filters.Search)
	err := s.cache.GetOrSet(ctx, key, constants.TTL_MOVIES_LIST, func() (interface{}, error) {
		return s.repo.ListMovies(ctx, filters)
	}, &movies)
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *service) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	if s.cache == nil {
		return s.repo.GetMovie(ctx, movieID)
	}

	var movie Movie
	key := constants.BuildMovieDetailKey(movieID)
	err := s.cache.GetOrSet(ctx, key, constants.TTL_MOVIE_DETAIL, func() (interface{}, error) {
		return s.repo.GetMovie(ctx, movieID)
	}, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListShowtimes groups a movie's showtimes by theater and annotates each
// slot with its live available seat count. Availability is read from the
// seat maps directly, so this endpoint is never cached.
func (s *service) ListShowtimes(ctx context.Context, movieID, showDate, city string) ([]TheaterShowtimes, error) {
	if _, err := s.GetMovie(ctx, movieID); err != nil {
		return nil, err
	}

	showtimes, err := s.repo.ListShowtimesForMovie(ctx, movieID, showDate)
	if err != nil {
		return nil, err
	}

	theaters, err := s.repo.ListTheaters(ctx, city)
	if err != nil {
		return nil, err
	}
	theatersByID := make(map[string]Theater, len(theaters))
	for _, t := range theaters {
		theatersByID[t.ID] = t
	}

	grouped := make(map[string]*TheaterShowtimes)
	var order []string
	for _, st := range showtimes {
		theater, ok := theatersByID[st.TheaterID]
		if !ok {
			// Theater filtered out by city, or unknown
			continue
		}

		entry, ok := grouped[theater.ID]
		if !ok {
			entry = &TheaterShowtimes{
				ID:       theater.ID,
				Name:     theater.Name,
				Location: theater.Location,
			}
			grouped[theater.ID] = entry
			order = append(order, theater.ID)
		}

		entry.Showtimes = append(entry.Showtimes, ShowtimeSlot{
			ID:             st.ID,
			Time:           st.ShowTime,
			Format:         st.Format,
			Price:          st.Price,
			AvailableSeats: s.availableSeats(ctx, st.ID, theater.Layout()),
		})
	}

	result := make([]TheaterShowtimes, 0, len(order))
	for _, id := range order {
		result = append(result, *grouped[id])
	}
	return result, nil
}

func (s *service) GetShowtimeDetail(ctx context.Context, showtimeID string) (*ShowtimeDetail, error) {
	if s.cache == nil {
		return s.loadShowtimeDetail(ctx, showtimeID)
	}

	var detail ShowtimeDetail
	key := constants.BuildShowtimeInfoKey(showtimeID)
	err := s.cache.GetOrSet(ctx, key, constants.TTL_SHOWTIME_INFO, func() (interface{}, error) {
		return s.loadShowtimeDetail(ctx, showtimeID)
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) loadShowtimeDetail(ctx context.Context, showtimeID string) (*ShowtimeDetail, error) {
	showtime, err := s.repo.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.GetMovie(ctx, showtime.MovieID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve movie for showtime %s: %w", showtimeID, err)
	}

	theater, err := s.repo.GetTheater(ctx, showtime.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve theater for showtime %s: %w", showtimeID, err)
	}

	return &ShowtimeDetail{
		Showtime: *showtime,
		Movie:    *movie,
		Theater:  *theater,
	}, nil
}

func (s *service) availableSeats(ctx context.Context, showtimeID string, layout seatmap.Layout) int {
	total := len(layout.Rows) * layout.SeatsPerRow
	if s.grids == nil {
		return total
	}

	grid, err := s.grids.Grid(ctx, showtimeID, layout)
	if err != nil {
		return total
	}
	return total - len(grid.HeldSeats) - len(grid.BookedSeats) - len(grid.BlockedSeats)
}
