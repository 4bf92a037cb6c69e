package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/staymap/staymap-backend-go/internal/models"
)

// ListingRepository handles database reads for listings. The dataset is
// immutable after seeding, so there are no write paths here.
type ListingRepository struct {
	db *sql.DB
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, name, host_id, host_name, neighbourhood, city, state,
	latitude, longitude, room_type, price, minimum_nights,
	review_count, reviews_per_month, host_listing_count, availability_365, year`

// Find retrieves listings matching the filter. Zero-valued range bounds
// are treated as unset, matching the filter widget contract.
func (r *ListingRepository) Find(filter models.ListingFilter) ([]models.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings"

	var conditions []string
	var args []interface{}

	if filter.Year > 0 {
		conditions = append(conditions, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.City != "" {
		conditions = append(conditions, "city = ?")
		args = append(args, filter.City)
	}
	if filter.State != "" {
		conditions = append(conditions, "state = ?")
		args = append(args, filter.State)
	}
	if filter.Neighbourhood != "" {
		conditions = append(conditions, "neighbourhood = ?")
		args = append(args, filter.Neighbourhood)
	}
	if filter.RoomType != "" {
		conditions = append(conditions, "room_type = ?")
		args = append(args, filter.RoomType)
	}

	if filter.MinPrice > 0 {
		conditions = append(conditions, "price >= ?")
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, "price <= ?")
		args = append(args, filter.MaxPrice)
	}
	if filter.MinNights > 0 {
		conditions = append(conditions, "minimum_nights >= ?")
		args = append(args, filter.MinNights)
	}
	if filter.MaxNights > 0 {
		conditions = append(conditions, "minimum_nights <= ?")
		args = append(args, filter.MaxNights)
	}
	if filter.MinReviews > 0 {
		conditions = append(conditions, "review_count >= ?")
		args = append(args, filter.MinReviews)
	}
	if filter.MaxReviews > 0 {
		conditions = append(conditions, "review_count <= ?")
		args = append(args, filter.MaxReviews)
	}
	if filter.MinReviewsMonth > 0 {
		conditions = append(conditions, "reviews_per_month >= ?")
		args = append(args, filter.MinReviewsMonth)
	}
	if filter.MaxReviewsMonth > 0 {
		conditions = append(conditions, "reviews_per_month <= ?")
		args = append(args, filter.MaxReviewsMonth)
	}
	if filter.MinHostListings > 0 {
		conditions = append(conditions, "host_listing_count >= ?")
		args = append(args, filter.MinHostListings)
	}
	if filter.MaxHostListings > 0 {
		conditions = append(conditions, "host_listing_count <= ?")
		args = append(args, filter.MaxHostListings)
	}
	if filter.MinAvailability > 0 {
		conditions = append(conditions, "availability_365 >= ?")
		args = append(args, filter.MinAvailability)
	}
	if filter.MaxAvailability > 0 {
		conditions = append(conditions, "availability_365 <= ?")
		args = append(args, filter.MaxAvailability)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(
			&l.ID, &l.Name, &l.HostID, &l.HostName, &l.Neighbourhood, &l.City, &l.State,
			&l.Latitude, &l.Longitude, &l.RoomType, &l.Price, &l.MinimumNights,
			&l.ReviewCount, &l.ReviewsMonth, &l.HostListings, &l.Availability, &l.Year,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

// GetByID retrieves a single listing
func (r *ListingRepository) GetByID(id int64) (*models.Listing, error) {
	query := "SELECT " + listingColumns + " FROM listings WHERE id = ?"

	var l models.Listing
	err := r.db.QueryRow(query, id).Scan(
		&l.ID, &l.Name, &l.HostID, &l.HostName, &l.Neighbourhood, &l.City, &l.State,
		&l.Latitude, &l.Longitude, &l.RoomType, &l.Price, &l.MinimumNights,
		&l.ReviewCount, &l.ReviewsMonth, &l.HostListings, &l.Availability, &l.Year,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listing %d: %w", id, err)
	}
	return &l, nil
}

// CountByYear returns listing counts per snapshot year
func (r *ListingRepository) CountByYear() (map[int]int64, error) {
	rows, err := r.db.Query("SELECT year, COUNT(*) FROM listings GROUP BY year")
	if err != nil {
		return nil, fmt.Errorf("failed to count listings by year: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var year int
		var count int64
		if err := rows.Scan(&year, &count); err != nil {
			return nil, fmt.Errorf("failed to scan year count: %w", err)
		}
		counts[year] = count
	}
	return counts, nil
}
