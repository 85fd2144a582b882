package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tickethub/internal/catalog"
	"tickethub/internal/shared/config"
	"tickethub/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting TicketHub Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Order matters due to foreign key constraints
	// Delete in reverse dependency order
	tables := []string{
		"booked_seats",
		"bookings",
		"showtimes",
		"theaters",
		"movies",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Disable foreign key constraints temporarily
	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	// Re-enable foreign key constraints
	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	theaterIDs, err := s.SeedTheaters()
	if err != nil {
		return fmt.Errorf("failed to seed theaters: %w", err)
	}

	if err := s.SeedShowtimes(movieIDs, theaterIDs); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedMovies creates the movie catalog
func (s *Seeder) SeedMovies() ([]string, error) {
	fmt.Println("  🎬 Seeding movies...")

	moviesData := []catalog.Movie{
		{
			ID:          "1",
			Title:       "Pushpa 2: The Rule",
			Poster:      "https://images.unsplash.com/photo-1594908900066-3f47337549d8?w=300&h=450&fit=crop",
			Rating:      9.1,
			Votes:       "245K",
			Genres:      []string{"Action", "Drama", "Thriller"},
			Languages:   []string{"Hindi", "Telugu", "Tamil"},
			Formats:     []string{"2D", "3D", "IMAX"},
			Duration:    "3h 15m",
			ReleaseDate: "2024-12-05",
			Trailer:     "BhQTkdZFOyo",
			Description: "The clash is on as Pushpa and Bhanwar Singh continue their rivalry in this epic conclusion.",
		},
		{
			ID:          "2",
			Title:       "Stree 2",
			Poster:      "https://images.unsplash.com/photo-1536440136628-849c177e76a1?w=300&h=450&fit=crop",
			Rating:      8.5,
			Votes:       "189K",
			Genres:      []string{"Horror", "Comedy"},
			Languages:   []string{"Hindi"},
			Formats:     []string{"2D"},
			Duration:    "2h 30m",
			ReleaseDate: "2024-08-15",
			Trailer:     "KVnheWSKu0w",
			Description: "The women of Chanderi return with another mysterious entity.",
		},
		{
			ID:          "3",
			Title:       "Kalki 2898 AD",
			Poster:      "https://images.unsplash.com/photo-1626814026160-2237a95fc5a0?w=300&h=450&fit=crop",
			Rating:      8.9,
			Votes:       "312K",
			Genres:      []string{"Sci-Fi", "Action", "Adventure"},
			Languages:   []string{"Hindi", "Telugu", "Tamil", "English"},
			Formats:     []string{"2D", "3D", "IMAX"},
			Duration:    "3h 0m",
			ReleaseDate: "2024-06-27",
			Trailer:     "e3YzyAFric0",
			Description: "A modern avatar of Vishnu descends to Earth to protect the world from evil forces.",
		},
		{
			ID:          "4",
			Title:       "Jawan",
			Poster:      "https://images.unsplash.com/photo-1440404653325-ab127d49abc1?w=300&h=450&fit=crop",
			Rating:      8.2,
			Votes:       "278K",
			Genres:      []string{"Action", "Thriller"},
			Languages:   []string{"Hindi", "Tamil", "Telugu"},
			Formats:     []string{"2D", "IMAX"},
			Duration:    "2h 50m",
			ReleaseDate: "2024-09-07",
			Trailer:     "CEZbKlJJ0bU",
			Description: "A man is driven by a personal vendetta to rectify the wrongs in society.",
		},
		{
			ID:          "5",
			Title:       "Inception",
			Poster:      "https://images.unsplash.com/photo-1478720568477-152d9b164e26?w=300&h=450&fit=crop",
			Rating:      8.8,
			Votes:       "2.5M",
			Genres:      []string{"Sci-Fi", "Thriller", "Action"},
			Languages:   []string{"English", "Hindi"},
			Formats:     []string{"2D", "IMAX"},
			Duration:    "2h 28m",
			ReleaseDate: "2010-07-16",
			Trailer:     "YoHD9XEInc0",
			Description: "A thief who steals corporate secrets through dream-sharing technology.",
		},
		{
			ID:          "6",
			Title:       "Breaking Bad",
			Poster:      "https://images.unsplash.com/photo-1509281373149-e957c6296406?w=300&h=450&fit=crop",
			Rating:      9.5,
			Votes:       "1.8M",
			Genres:      []string{"Crime", "Drama", "Thriller"},
			Languages:   []string{"English", "Hindi"},
			Formats:     []string{"2D"},
			Duration:    "Series",
			ReleaseDate: "2008-01-20",
			Trailer:     "HhesaQXLuRY",
			Description: "A chemistry teacher turned methamphetamine producer partners with a former student.",
		},
		{
			ID:          "7",
			Title:       "Kantara: Chapter 1",
			Poster:      "https://images.unsplash.com/photo-1533928298208-27ff66555d8d?w=300&h=450&fit=crop",
			Rating:      8.3,
			Votes:       "156K",
			Genres:      []string{"Action", "Drama", "Thriller"},
			Languages:   []string{"Kannada", "Hindi", "Telugu", "Tamil"},
			Formats:     []string{"2D"},
			Duration:    "2h 28m",
			ReleaseDate: "2022-09-30",
			Trailer:     "8mrVmf239GU",
			Description: "A tale of a man and nature's fight for co-existence.",
		},
		{
			ID:          "8",
			Title:       "Avengers: Doomsday",
			Poster:      "https://images.unsplash.com/photo-1635805737707-575885ab0820?w=300&h=450&fit=crop",
			Rating:      9.2,
			Votes:       "3.2M",
			Genres:      []string{"Action", "Adventure", "Sci-Fi"},
			Languages:   []string{"English", "Hindi", "Tamil", "Telugu"},
			Formats:     []string{"2D", "3D", "IMAX"},
			Duration:    "3h 5m",
			ReleaseDate: "2026-05-01",
			Trailer:     "eOrNdBpGMv8",
			Description: "The Avengers face their greatest threat yet as Doctor Doom emerges.",
		},
	}

	movieIDs := make([]string, 0, len(moviesData))
	for i := range moviesData {
		movie := moviesData[i]
		movie.CreatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&movie).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", movie.Title, err)
		}

		movieIDs = append(movieIDs, movie.ID)
		fmt.Printf("    ✅ Created movie: %s\n", movie.Title)
	}

	return movieIDs, nil
}

// SeedTheaters creates the theaters with their seat layouts
func (s *Seeder) SeedTheaters() ([]string, error) {
	fmt.Println("  🏛️ Seeding theaters...")

	layoutRows := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	theatersData := []catalog.Theater{
		{
			ID:          "theater1",
			Name:        "PVR: Phoenix MarketCity",
			Location:    "Kurla, Mumbai",
			City:        "Mumbai",
			TotalSeats:  200,
			LayoutRows:  layoutRows,
			SeatsPerRow: 20,
		},
		{
			ID:          "theater2",
			Name:        "INOX: R City Mall",
			Location:    "Ghatkopar, Mumbai",
			City:        "Mumbai",
			TotalSeats:  200,
			LayoutRows:  layoutRows,
			SeatsPerRow: 20,
		},
		{
			ID:          "theater3",
			Name:        "Cinepolis: Viviana Mall",
			Location:    "Thane, Mumbai",
			City:        "Mumbai",
			TotalSeats:  200,
			LayoutRows:  layoutRows,
			SeatsPerRow: 20,
		},
	}

	theaterIDs := make([]string, 0, len(theatersData))
	for i := range theatersData {
		theater := theatersData[i]
		theater.CreatedAt = time.Now()

		if err := s.db.PostgreSQL.Create(&theater).Error; err != nil {
			return nil, fmt.Errorf("failed to create theater %s: %w", theater.Name, err)
		}

		theaterIDs = append(theaterIDs, theater.ID)
		fmt.Printf("    ✅ Created theater: %s (%d seats)\n", theater.Name, theater.TotalSeats)
	}

	return theaterIDs, nil
}

// SeedShowtimes creates today's showtimes for every movie in every theater
func (s *Seeder) SeedShowtimes(movieIDs, theaterIDs []string) error {
	fmt.Println("  🎟️ Seeding showtimes...")

	today := time.Now().Format("2006-01-02")

	slots := []struct {
		time   string
		format string
		price  float64
	}{
		{"10:30 AM", "2D", 220},
		{"02:15 PM", "3D", 350},
		{"06:45 PM", "IMAX", 450},
		{"09:30 PM", "2D", 220},
	}

	showtimeCounter := 1
	for _, movieID := range movieIDs {
		for _, theaterID := range theaterIDs {
			for _, slot := range slots {
				showtime := catalog.Showtime{
					ID:        fmt.Sprintf("%d", showtimeCounter),
					MovieID:   movieID,
					TheaterID: theaterID,
					ShowDate:  today,
					ShowTime:  slot.time,
					Format:    slot.format,
					Price:     slot.price,
					CreatedAt: time.Now(),
				}

				if err := s.db.PostgreSQL.Create(&showtime).Error; err != nil {
					return fmt.Errorf("failed to create showtime for movie %s at %s: %w", movieID, slot.time, err)
				}

				showtimeCounter++
			}
		}
	}

	fmt.Printf("    ✅ Created %d showtimes across %d theaters\n", showtimeCounter-1, len(theaterIDs))
	return nil
}
