package models

import (
	"fmt"
	"strings"
)

// ListingFilter represents filter parameters for querying listings.
// Zero-valued range bounds are treated as unset.
type ListingFilter struct {
	Year          int     `json:"year" form:"year"`
	City          string  `json:"city" form:"city"`
	State         string  `json:"state" form:"state"`
	Neighbourhood string  `json:"neighbourhood" form:"neighbourhood"`
	RoomType      string  `json:"roomType" form:"roomType"`

	MinPrice        float64 `json:"minPrice" form:"minPrice"`
	MaxPrice        float64 `json:"maxPrice" form:"maxPrice"`
	MinNights       int     `json:"minNights" form:"minNights"`
	MaxNights       int     `json:"maxNights" form:"maxNights"`
	MinReviews      int     `json:"minReviews" form:"minReviews"`
	MaxReviews      int     `json:"maxReviews" form:"maxReviews"`
	MinReviewsMonth float64 `json:"minReviewsPerMonth" form:"minReviewsPerMonth"`
	MaxReviewsMonth float64 `json:"maxReviewsPerMonth" form:"maxReviewsPerMonth"`
	MinHostListings int     `json:"minHostListings" form:"minHostListings"`
	MaxHostListings int     `json:"maxHostListings" form:"maxHostListings"`
	MinAvailability int     `json:"minAvailability" form:"minAvailability"`
	MaxAvailability int     `json:"maxAvailability" form:"maxAvailability"`
}

// Signature returns a stable key identifying the filter state.
// Aggregation results are memoized per signature; a signature change is
// what invalidates derived map state (aggregates, index, selection).
func (f ListingFilter) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "y=%d|c=%s|s=%s|n=%s|r=%s", f.Year, f.City, f.State, f.Neighbourhood, f.RoomType)
	fmt.Fprintf(&b, "|p=%g:%g|mn=%d:%d|rv=%d:%d", f.MinPrice, f.MaxPrice, f.MinNights, f.MaxNights, f.MinReviews, f.MaxReviews)
	fmt.Fprintf(&b, "|rm=%g:%g|hl=%d:%d|av=%d:%d", f.MinReviewsMonth, f.MaxReviewsMonth, f.MinHostListings, f.MaxHostListings, f.MinAvailability, f.MaxAvailability)
	return b.String()
}
