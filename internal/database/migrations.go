package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order on startup. The listings table
// is append-only at seed time and read-only afterwards.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_listings",
		SQL: `
			CREATE TABLE IF NOT EXISTS listings (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				host_id INTEGER NOT NULL DEFAULT 0,
				host_name TEXT NOT NULL DEFAULT '',
				neighbourhood TEXT NOT NULL DEFAULT '',
				city TEXT NOT NULL DEFAULT '',
				state TEXT NOT NULL DEFAULT '',
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				room_type TEXT NOT NULL DEFAULT '',
				price REAL NOT NULL DEFAULT 0,
				minimum_nights INTEGER NOT NULL DEFAULT 0,
				review_count INTEGER NOT NULL DEFAULT 0,
				reviews_per_month REAL NOT NULL DEFAULT 0,
				host_listing_count INTEGER NOT NULL DEFAULT 0,
				availability_365 INTEGER NOT NULL DEFAULT 0,
				year INTEGER NOT NULL
			)
		`,
	},
	{
		Version: 2,
		Name:    "index_listings_geo",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_listings_year ON listings(year);
			CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city, state);
			CREATE INDEX IF NOT EXISTS idx_listings_neighbourhood ON listings(city, state, neighbourhood)
		`,
	},
}

// Migrate applies all pending migrations
func Migrate(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := db.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		log.Printf("[Database] Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}
