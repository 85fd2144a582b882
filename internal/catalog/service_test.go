package catalog

import (
	"context"
	"strings"
	"testing"

	"tickethub/internal/seatmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	movies    []Movie
	theaters  []Theater
	showtimes []Showtime
}

func (r *fakeRepo) ListMovies(_ context.Context, filters MovieFilters) ([]Movie, error) {
	var out []Movie
	for _, m := range r.movies {
		if filters.Search != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeRepo) GetMovie(_ context.Context, id string) (*Movie, error) {
	for i := range r.movies {
		if r.movies[i].ID == id {
			return &r.movies[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListTheaters(_ context.Context, city string) ([]Theater, error) {
	var out []Theater
	for _, t := range r.theaters {
		if city != "" && t.City != city {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeRepo) GetTheater(_ context.Context, id string) (*Theater, error) {
	for i := range r.theaters {
		if r.theaters[i].ID == id {
			return &r.theaters[i], nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListShowtimesForMovie(_ context.Context, movieID, showDate string) ([]Showtime, error) {
	var out []Showtime
	for _, st := range r.showtimes {
		if st.MovieID != movieID {
			continue
		}
		if showDate != "" && st.ShowDate != showDate {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *fakeRepo) GetShowtime(_ context.Context, id string) (*Showtime, error) {
	for i := range r.showtimes {
		if r.showtimes[i].ID == id {
			return &r.showtimes[i], nil
		}
	}
	return nil, ErrNotFound
}

type fakeGrids struct {
	grids map[string]seatmap.Grid
}

func (f *fakeGrids) Grid(_ context.Context, showtimeID string, _ seatmap.Layout) (seatmap.Grid, error) {
	return f.grids[showtimeID], nil
}

func seededRepo() *fakeRepo {
	return &fakeRepo{
		movies: []Movie{
			{ID: "1", Title: "Pushpa 2: The Rule"},
			{ID: "2", Title: "Stree 2"},
		},
		theaters: []Theater{
			{ID: "theater1", Name: "PVR: Phoenix MarketCity", Location: "Kurla, Mumbai", City: "Mumbai",
				LayoutRows: []string{"A", "B"}, SeatsPerRow: 5},
			{ID: "theater2", Name: "INOX: R City Mall", Location: "Ghatkopar, Mumbai", City: "Mumbai",
				LayoutRows: []string{"A", "B"}, SeatsPerRow: 5},
		},
		showtimes: []Showtime{
			{ID: "s1", MovieID: "1", TheaterID: "theater1", ShowDate: "2026-08-30", ShowTime: "10:30 AM", Format: "2D", Price: 220},
			{ID: "s2", MovieID: "1", TheaterID: "theater1", ShowDate: "2026-08-30", ShowTime: "06:45 PM", Format: "IMAX", Price: 450},
			{ID: "s3", MovieID: "1", TheaterID: "theater2", ShowDate: "2026-08-30", ShowTime: "02:15 PM", Format: "3D", Price: 350},
		},
	}
}

func TestListShowtimes_GroupsByTheater(t *testing.T) {
	svc := NewService(seededRepo(), nil, nil)

	grouped, err := svc.ListShowtimes(context.Background(), "1", "2026-08-30", "")
	require.NoError(t, err)

	require.Len(t, grouped, 2)
	assert.Equal(t, "theater1", grouped[0].ID)
	require.Len(t, grouped[0].Showtimes, 2)
	assert.Equal(t, "s1", grouped[0].Showtimes[0].ID)
	assert.Equal(t, 220.0, grouped[0].Showtimes[0].Price)
	assert.Equal(t, "theater2", grouped[1].ID)
	require.Len(t, grouped[1].Showtimes, 1)

	// With no grid source, every 2x5 auditorium reports all seats free.
	assert.Equal(t, 10, grouped[0].Showtimes[0].AvailableSeats)
}

func TestListShowtimes_LiveAvailability(t *testing.T) {
	grids := &fakeGrids{grids: map[string]seatmap.Grid{
		"s1": {HeldSeats: []string{"A1", "A2"}, BookedSeats: []string{"B1"}, BlockedSeats: []string{"B5"}},
	}}
	svc := NewService(seededRepo(), nil, grids)

	grouped, err := svc.ListShowtimes(context.Background(), "1", "2026-08-30", "")
	require.NoError(t, err)

	require.NotEmpty(t, grouped)
	assert.Equal(t, 10-2-1-1, grouped[0].Showtimes[0].AvailableSeats)
	// Untouched showtime stays fully available.
	assert.Equal(t, 10, grouped[0].Showtimes[1].AvailableSeats)
}

func TestListShowtimes_UnknownMovie(t *testing.T) {
	svc := NewService(seededRepo(), nil, nil)

	_, err := svc.ListShowtimes(context.Background(), "missing", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetShowtimeDetail_AssemblesMovieAndTheater(t *testing.T) {
	svc := NewService(seededRepo(), nil, nil)

	detail, err := svc.GetShowtimeDetail(context.Background(), "s2")
	require.NoError(t, err)

	assert.Equal(t, "s2", detail.Showtime.ID)
	assert.Equal(t, "Pushpa 2: The Rule", detail.Movie.Title)
	assert.Equal(t, "PVR: Phoenix MarketCity", detail.Theater.Name)
	assert.Equal(t, seatmap.Layout{Rows: []string{"A", "B"}, SeatsPerRow: 5}, detail.Layout())

	_, err = svc.GetShowtimeDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListMovies_SearchFilter(t *testing.T) {
	svc := NewService(seededRepo(), nil, nil)

	movies, err := svc.ListMovies(context.Background(), MovieFilters{Search: "stree"})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Stree 2", movies[0].Title)
}
