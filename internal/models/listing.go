package models

// Listing represents one short-term rental listing row from the dataset.
// The dataset is read-only; rows are never mutated after load.
type Listing struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	HostID        int64   `json:"hostId" db:"host_id"`
	HostName      string  `json:"hostName" db:"host_name"`
	Neighbourhood string  `json:"neighbourhood" db:"neighbourhood"`
	City          string  `json:"city" db:"city"`
	State         string  `json:"state" db:"state"`
	Latitude      float64 `json:"latitude" db:"latitude"`
	Longitude     float64 `json:"longitude" db:"longitude"`
	RoomType      string  `json:"roomType" db:"room_type"`
	Price         float64 `json:"price" db:"price"`
	MinimumNights int     `json:"minimumNights" db:"minimum_nights"`
	ReviewCount   int     `json:"reviewCount" db:"review_count"`
	ReviewsMonth  float64 `json:"reviewsPerMonth" db:"reviews_per_month"`
	HostListings  int     `json:"hostListingCount" db:"host_listing_count"`
	Availability  int     `json:"availability365" db:"availability_365"`
	Year          int     `json:"year" db:"year"` // snapshot year, one of two fixed years
}

// CityLabel returns the "City, ST" key used for city-level grouping
func (l *Listing) CityLabel() string {
	if l.State == "" {
		return l.City
	}
	return l.City + ", " + l.State
}

// ListingDetail is the persona-scoped view of a listing returned by the
// detail endpoint. Host-only metrics are omitted for the traveler persona.
type ListingDetail struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	HostName      string  `json:"hostName"`
	Neighbourhood string  `json:"neighbourhood"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RoomType      string  `json:"roomType"`
	Price         float64 `json:"price"`
	MinimumNights int     `json:"minimumNights"`
	ReviewCount   int     `json:"reviewCount"`
	ReviewsMonth  float64 `json:"reviewsPerMonth"`
	Year          int     `json:"year"`

	// Host-only metrics, hidden from travelers
	HostListings *int `json:"hostListingCount,omitempty"`
	Availability *int `json:"availability365,omitempty"`
}

// DetailFor builds the persona-scoped detail view of a listing
func (l *Listing) DetailFor(persona Persona) ListingDetail {
	d := ListingDetail{
		ID:            l.ID,
		Name:          l.Name,
		HostName:      l.HostName,
		Neighbourhood: l.Neighbourhood,
		City:          l.City,
		State:         l.State,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		RoomType:      l.RoomType,
		Price:         l.Price,
		MinimumNights: l.MinimumNights,
		ReviewCount:   l.ReviewCount,
		ReviewsMonth:  l.ReviewsMonth,
		Year:          l.Year,
	}

	if persona == PersonaHost {
		hostListings := l.HostListings
		availability := l.Availability
		d.HostListings = &hostListings
		d.Availability = &availability
	}

	return d
}
