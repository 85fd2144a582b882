package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for TicketHub
// Pattern: tickethub:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG   = 24 * time.Hour // 24 hours - for theater layouts
	TTL_STATIC_MEDIUM = 12 * time.Hour // 12 hours - for movie details
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for movie listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for showtime listings
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for booking details
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for availability counts
)

// Highly Dynamic (Micro TTL: real-time sensitive)
const (
	TTL_REALTIME_SHORT = 15 * time.Second // 15 seconds - for live seat grids
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tickethub"
)

// ================== CATALOG MODULE ==================

const (
	CACHE_KEY_MOVIES_LIST    = CACHE_PREFIX + ":catalog:movies:list"    // + :genre:X:language:Y:search:Z
	CACHE_KEY_MOVIE_DETAIL   = CACHE_PREFIX + ":catalog:movies:detail:" // + movie-id
	CACHE_KEY_MOVIE_SHOWS    = CACHE_PREFIX + ":catalog:shows:movie:"   // + movie-id:date:X:city:Y
	CACHE_KEY_SHOWTIME_INFO  = CACHE_PREFIX + ":catalog:showtime:"      // + showtime-id
	CACHE_KEY_THEATERS_LIST  = CACHE_PREFIX + ":catalog:theaters:city:" // + city
	CACHE_KEY_THEATER_DETAIL = CACHE_PREFIX + ":catalog:theater:"       // + theater-id
)

const (
	TTL_MOVIES_LIST    = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_MOVIE_DETAIL   = TTL_STATIC_MEDIUM      // 12 hours
	TTL_MOVIE_SHOWS    = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_SHOWTIME_INFO  = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_THEATER_DETAIL = TTL_STATIC_LONG        // 24 hours
)

// ================== SEAT MAP MODULE ==================

const (
	CACHE_KEY_SEAT_GRID = CACHE_PREFIX + ":seats:grid:showtime:" // + showtime-id
)

const (
	TTL_SEAT_GRID = TTL_REALTIME_SHORT // 15 seconds
)

// ================== HOLDS MODULE ==================

// Hold mirror keys. These are written by the hold manager itself, not the
// cache service; listed here so key ownership stays in one place.
const (
	KEY_HOLD_RECORD    = CACHE_PREFIX + ":holds:"           // + hold-id (hash)
	KEY_HELD_SEAT_LOCK = CACHE_PREFIX + ":seats:held:"      // + showtime-id:seat-id
	KEY_SESSION_HOLDS  = CACHE_PREFIX + ":sessions:holds:"  // + session-id
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_BOOKING_DETAIL = CACHE_PREFIX + ":bookings:detail:" // + booking-id
)

const (
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_CATALOG_ALL   = CACHE_PREFIX + ":catalog:*"
	PATTERN_INVALIDATE_SEAT_GRIDS    = CACHE_PREFIX + ":seats:grid:*"
	PATTERN_INVALIDATE_MOVIE_SHOWS   = CACHE_PREFIX + ":catalog:shows:*"
	PATTERN_INVALIDATE_BOOKINGS_ALL  = CACHE_PREFIX + ":bookings:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildMoviesListKey(genre, language, search string) string {
	return fmt.Sprintf("%s:genre:%s:language:%s:search:%s", CACHE_KEY_MOVIES_LIST, genre, language, search)
}

func BuildMovieDetailKey(movieID string) string {
	return CACHE_KEY_MOVIE_DETAIL + movieID
}

func BuildMovieShowsKey(movieID, date, city string) string {
	return fmt.Sprintf("%s%s:date:%s:city:%s", CACHE_KEY_MOVIE_SHOWS, movieID, date, city)
}

func BuildShowtimeInfoKey(showtimeID string) string {
	return CACHE_KEY_SHOWTIME_INFO + showtimeID
}

func BuildSeatGridKey(showtimeID string) string {
	return CACHE_KEY_SEAT_GRID + showtimeID
}

func BuildBookingDetailKey(bookingID string) string {
	return CACHE_KEY_BOOKING_DETAIL + bookingID
}
