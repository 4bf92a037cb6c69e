package aggregate

import (
	"testing"

	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/spatial"
)

var testOpts = Options{
	UnincorporatedMarker: "Unincorporated Areas",
	FallbackBufferDeg:    0.01,
}

func springfieldColumbus() []models.Listing {
	return []models.Listing{
		{ID: 1, City: "Springfield", State: "IL", Neighbourhood: "Downtown", Latitude: 39.80, Longitude: -89.65, Price: 100},
		{ID: 2, City: "Springfield", State: "IL", Neighbourhood: "Downtown", Latitude: 39.81, Longitude: -89.64, Price: 150},
		{ID: 3, City: "Springfield", State: "IL", Neighbourhood: "Enos Park", Latitude: 39.82, Longitude: -89.63, Price: 200},
		{ID: 4, City: "Columbus", State: "OH", Neighbourhood: "Short North", Latitude: 39.97, Longitude: -83.00, Price: 50},
		{ID: 5, City: "Columbus", State: "OH", Neighbourhood: "Short North", Latitude: 39.98, Longitude: -83.01, Price: 70},
	}
}

func TestByCityCountsAndMeans(t *testing.T) {
	bubbles := ByCity(springfieldColumbus())

	if len(bubbles) != 2 {
		t.Fatalf("expected 2 city bubbles, got %d", len(bubbles))
	}

	// Sorted by label: Columbus before Springfield
	columbus, springfield := bubbles[0], bubbles[1]

	if columbus.Label != "Columbus, OH" {
		t.Errorf("expected label Columbus, OH, got %s", columbus.Label)
	}
	if columbus.SizeValue != 2 || columbus.ColorValue != 60 {
		t.Errorf("Columbus: expected count 2 mean 60, got %f / %f", columbus.SizeValue, columbus.ColorValue)
	}

	if springfield.Label != "Springfield, IL" {
		t.Errorf("expected label Springfield, IL, got %s", springfield.Label)
	}
	if springfield.SizeValue != 3 || springfield.ColorValue != 150 {
		t.Errorf("Springfield: expected count 3 mean 150, got %f / %f", springfield.SizeValue, springfield.ColorValue)
	}
}

func TestByCityCountSumInvariant(t *testing.T) {
	listings := springfieldColumbus()
	bubbles := ByCity(listings)

	total := 0.0
	for _, b := range bubbles {
		total += b.SizeValue
	}
	if int(total) != len(listings) {
		t.Errorf("bubble counts sum to %d, expected %d", int(total), len(listings))
	}
}

func TestByCityRepresentativePoint(t *testing.T) {
	bubbles := ByCity(springfieldColumbus())

	// First listing seen in the group anchors the bubble
	for _, b := range bubbles {
		switch b.Label {
		case "Springfield, IL":
			if b.Lat != 39.80 || b.Lng != -89.65 {
				t.Errorf("Springfield anchored at (%f,%f)", b.Lat, b.Lng)
			}
		case "Columbus, OH":
			if b.Lat != 39.97 || b.Lng != -83.00 {
				t.Errorf("Columbus anchored at (%f,%f)", b.Lat, b.Lng)
			}
		}
	}
}

func TestByCityEmpty(t *testing.T) {
	bubbles := ByCity(nil)
	if bubbles == nil || len(bubbles) != 0 {
		t.Errorf("expected empty slice, got %v", bubbles)
	}
}

func TestNeighborhoodFieldsExcludesSingletons(t *testing.T) {
	fields := NeighborhoodFields(springfieldColumbus(), testOpts)

	// Enos Park has one listing and must not appear
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %+v", len(fields), fields)
	}
	for _, f := range fields {
		if f.Neighbourhood == "Enos Park" {
			t.Errorf("single-listing neighbourhood produced a field")
		}
		if f.Count < 2 {
			t.Errorf("field %s/%s has count %d", f.City, f.Neighbourhood, f.Count)
		}
	}
}

func TestNeighborhoodFieldsExcludesUnincorporated(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, City: "Dayton", State: "OH", Neighbourhood: "Unincorporated Areas", Latitude: 39.75, Longitude: -84.19, Price: 80},
		{ID: 2, City: "Dayton", State: "OH", Neighbourhood: "Unincorporated Areas", Latitude: 39.76, Longitude: -84.20, Price: 90},
		{ID: 3, City: "Dayton", State: "OH", Neighbourhood: "Unincorporated Areas", Latitude: 39.77, Longitude: -84.18, Price: 85},
	}

	if fields := NeighborhoodFields(listings, testOpts); len(fields) != 0 {
		t.Errorf("unincorporated group produced %d fields", len(fields))
	}

	// But city boundaries still include them
	boundaries := CityBoundaries(listings, testOpts)
	if len(boundaries) != 1 || boundaries[0].Count != 3 {
		t.Errorf("expected one 3-listing boundary, got %+v", boundaries)
	}
}

func TestNeighborhoodFieldsFallbackForTwoPoints(t *testing.T) {
	fields := NeighborhoodFields(springfieldColumbus(), testOpts)

	for _, f := range fields {
		if !f.Fallback {
			t.Errorf("field %s/%s: 2-point group should use the fallback rectangle", f.City, f.Neighbourhood)
		}
		if len(f.Hull) < 3 {
			t.Errorf("field %s/%s: hull has %d vertices", f.City, f.Neighbourhood, len(f.Hull))
		}
	}
}

func TestNeighborhoodFieldsProperHull(t *testing.T) {
	listings := []models.Listing{
		{ID: 1, City: "Austin", State: "TX", Neighbourhood: "East Side", Latitude: 30.26, Longitude: -97.72, Price: 120},
		{ID: 2, City: "Austin", State: "TX", Neighbourhood: "East Side", Latitude: 30.28, Longitude: -97.71, Price: 140},
		{ID: 3, City: "Austin", State: "TX", Neighbourhood: "East Side", Latitude: 30.27, Longitude: -97.69, Price: 160},
		{ID: 4, City: "Austin", State: "TX", Neighbourhood: "East Side", Latitude: 30.25, Longitude: -97.70, Price: 110},
	}

	fields := NeighborhoodFields(listings, testOpts)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}

	f := fields[0]
	if f.Fallback {
		t.Errorf("4 spread points should produce a real hull")
	}
	for _, l := range listings {
		p := spatial.Point{Lat: l.Latitude, Lon: l.Longitude}
		if !spatial.PointOnOrInPolygon(p, f.Hull) {
			t.Errorf("listing %d at %v outside its field hull", l.ID, p)
		}
	}
	if f.MeanPrice != 132.5 {
		t.Errorf("expected mean price 132.5, got %f", f.MeanPrice)
	}
}

func TestCityBoundariesCoverAllCities(t *testing.T) {
	boundaries := CityBoundaries(springfieldColumbus(), testOpts)

	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %d", len(boundaries))
	}
	if boundaries[0].City != "Columbus, OH" || boundaries[1].City != "Springfield, IL" {
		t.Errorf("unexpected boundary order: %s, %s", boundaries[0].City, boundaries[1].City)
	}

	for _, b := range boundaries {
		if len(b.Hull) < 3 {
			t.Errorf("boundary %s has %d hull vertices", b.City, len(b.Hull))
		}
	}
}

func TestMaxSizeValueFloor(t *testing.T) {
	if got := MaxSizeValue(nil); got != 1 {
		t.Errorf("expected floor of 1 for empty input, got %f", got)
	}

	bubbles := []Bubble{{SizeValue: 0.5}, {SizeValue: 7}}
	if got := MaxSizeValue(bubbles); got != 7 {
		t.Errorf("expected 7, got %f", got)
	}
}
