package database

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
)

// SeedFromCSV imports the listings dataset on first boot. The expected
// column order matches the published snapshot export:
//
//	id, name, host_id, host_name, neighbourhood, city, state,
//	latitude, longitude, room_type, price, minimum_nights,
//	review_count, reviews_per_month, host_listing_count,
//	availability_365, year
//
// A non-empty listings table skips the import entirely; the dataset is
// read-only after load.
func SeedFromCSV(db *sql.DB, path string) error {
	var count int64
	if err := db.QueryRow("SELECT COUNT(*) FROM listings").Scan(&count); err != nil {
		return fmt.Errorf("failed to count listings: %w", err)
	}
	if count > 0 {
		log.Printf("[Database] Listings already seeded (%d rows), skipping import", count)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 17

	// Header row
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read seed header: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (
			id, name, host_id, host_name, neighbourhood, city, state,
			latitude, longitude, room_type, price, minimum_nights,
			review_count, reviews_per_month, host_listing_count,
			availability_365, year
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	imported := 0
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read seed row: %w", err)
		}

		lat, latErr := strconv.ParseFloat(record[7], 64)
		lng, lngErr := strconv.ParseFloat(record[8], 64)
		if latErr != nil || lngErr != nil {
			// Rows without usable coordinates can never render
			skipped++
			continue
		}

		_, err = stmt.Exec(
			atoi64(record[0]), record[1], atoi64(record[2]), record[3],
			record[4], record[5], record[6],
			lat, lng, record[9],
			atof(record[10]), atoi(record[11]), atoi(record[12]),
			atof(record[13]), atoi(record[14]), atoi(record[15]),
			atoi(record[16]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert listing %s: %w", record[0], err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	log.Printf("[Database] Seeded %d listings (%d rows skipped)", imported, skipped)
	return nil
}

func atoi64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
