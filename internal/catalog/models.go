package catalog

import (
	"time"

	"tickethub/internal/seatmap"
)

// Movie is a catalog entry. Content management is out of scope; rows are
// written by the seeder and read everywhere else.
type Movie struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Title       string    `gorm:"not null;size:255;index" json:"title"`
	Poster      string    `gorm:"size:500" json:"poster"`
	Rating      float64   `json:"rating"`
	Votes       string    `gorm:"size:20" json:"votes"`
	Genres      []string  `gorm:"serializer:json" json:"genres"`
	Languages   []string  `gorm:"serializer:json" json:"languages"`
	Formats     []string  `gorm:"serializer:json" json:"formats"`
	Duration    string    `gorm:"size:20" json:"duration"`
	ReleaseDate string    `gorm:"size:10" json:"release_date"`
	Trailer     string    `gorm:"size:100" json:"trailer"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Theater is an auditorium with a fixed seat layout.
type Theater struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Location    string    `gorm:"size:255" json:"location"`
	City        string    `gorm:"size:100;index" json:"city"`
	TotalSeats  int       `json:"total_seats"`
	LayoutRows  []string  `gorm:"serializer:json" json:"layout_rows"`
	SeatsPerRow int       `json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`
}

// Layout returns the theater's seat layout for the seat map.
func (t *Theater) Layout() seatmap.Layout {
	return seatmap.Layout{Rows: t.LayoutRows, SeatsPerRow: t.SeatsPerRow}
}

// Showtime is one screening of a movie in a theater with a base seat price.
type Showtime struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	MovieID   string    `gorm:"size:64;index;not null" json:"movie_id"`
	TheaterID string    `gorm:"size:64;index;not null" json:"theater_id"`
	ShowDate  string    `gorm:"size:10;index" json:"show_date"`
	ShowTime  string    `gorm:"size:10" json:"show_time"`
	Format    string    `gorm:"size:10" json:"format"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name for Movie
func (Movie) TableName() string {
	return "movies"
}

// TableName sets the table name for Theater
func (Theater) TableName() string {
	return "theaters"
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}

// ShowtimeDetail bundles a showtime with its movie and theater for callers
// that need titles, prices and the seat layout in one lookup.
type ShowtimeDetail struct {
	Showtime Showtime `json:"showtime"`
	Movie    Movie    `json:"movie"`
	Theater  Theater  `json:"theater"`
}

// Layout returns the seat layout of the showtime's theater.
func (d *ShowtimeDetail) Layout() seatmap.Layout {
	return d.Theater.Layout()
}

// MovieFilters are the optional browse filters on the movie listing.
type MovieFilters struct {
	Genre    string
	Language string
	Search   string
}

// TheaterShowtimes groups a theater with its showtimes for one movie, the
// shape the showtime picker renders.
type TheaterShowtimes struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Location  string         `json:"location"`
	Showtimes []ShowtimeSlot `json:"showtimes"`
}

// ShowtimeSlot is one bookable slot in the showtime picker.
type ShowtimeSlot struct {
	ID             string  `json:"id"`
	Time           string  `json:"time"`
	Format         string  `json:"format"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"available_seats"`
}
