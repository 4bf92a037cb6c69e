// Package aggregate derives map-ready groupings from a filtered listing
// set: one bubble per city, one hull polygon per neighbourhood, one
// boundary polygon per city. All passes are pure functions of the input
// slice and are recomputed wholesale on every filter change; a single
// grouping pass at dataset scale is cheap enough that no incremental
// update is attempted.
package aggregate

import (
	"sort"

	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/spatial"
)

// Bubble is the city-level aggregate: a marker sized by listing count and
// colored by mean price. Rebuilt on every aggregation pass, never shared.
type Bubble struct {
	Label      string  `json:"label"`
	Lat        float64 `json:"lat"` // representative point: first listing seen in the group
	Lng        float64 `json:"lng"`
	SizeValue  float64 `json:"sizeValue"`  // listing count
	ColorValue float64 `json:"colorValue"` // mean price
}

// Field is a neighbourhood-level aggregate with its hull polygon
type Field struct {
	City          string          `json:"city"`
	Neighbourhood string          `json:"neighbourhood"`
	Count         int             `json:"count"`
	MeanPrice     float64         `json:"meanPrice"`
	Hull          []spatial.Point `json:"hull"`     // >= 3 vertices, consistent winding
	Fallback      bool            `json:"fallback"` // true when Hull is a buffered rectangle
}

// Boundary is a city-level outline polygon
type Boundary struct {
	City      string          `json:"city"`
	Count     int             `json:"count"`
	MeanPrice float64         `json:"meanPrice"`
	Hull      []spatial.Point `json:"hull"`
	Fallback  bool            `json:"fallback"`
}

// Options carries the data-quality heuristics of the hull passes. Both are
// configuration, not invariants; see config.Config.
type Options struct {
	UnincorporatedMarker string  // neighbourhood label excluded from field output
	FallbackBufferDeg    float64 // buffer for degenerate-group rectangles
}

type group struct {
	label    string
	sub      string
	count    int
	priceSum float64
	points   []spatial.Point
}

// ByCity groups listings by (city, state) and returns one bubble per
// group. Every listing with a non-empty city key is counted exactly once;
// an empty input yields an empty slice.
func ByCity(listings []models.Listing) []Bubble {
	groups := make(map[string]*group)
	order := []string{}

	for i := range listings {
		l := &listings[i]
		key := l.CityLabel()

		g, ok := groups[key]
		if !ok {
			g = &group{
				label:  key,
				points: []spatial.Point{{Lat: l.Latitude, Lon: l.Longitude}},
			}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.priceSum += l.Price
	}

	bubbles := make([]Bubble, 0, len(order))
	for _, key := range order {
		g := groups[key]
		bubbles = append(bubbles, Bubble{
			Label:      g.label,
			Lat:        g.points[0].Lat,
			Lng:        g.points[0].Lon,
			SizeValue:  float64(g.count),
			ColorValue: g.priceSum / float64(g.count),
		})
	}

	sort.Slice(bubbles, func(i, j int) bool { return bubbles[i].Label < bubbles[j].Label })
	return bubbles
}

// NeighborhoodFields groups listings by (city+state, neighbourhood) and
// computes a hull polygon per surviving group. Groups labeled with the
// unincorporated marker are excluded (not meaningful neighbourhoods), as
// are single-member groups (one point cannot define a field). Hulls that
// degenerate below 3 vertices get a buffered bounding rectangle instead.
func NeighborhoodFields(listings []models.Listing, opts Options) []Field {
	groups := make(map[string]*group)
	order := []string{}

	for i := range listings {
		l := &listings[i]
		if l.Neighbourhood == opts.UnincorporatedMarker {
			continue
		}
		key := l.CityLabel() + "\x00" + l.Neighbourhood

		g, ok := groups[key]
		if !ok {
			g = &group{label: l.CityLabel(), sub: l.Neighbourhood}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.priceSum += l.Price
		g.points = append(g.points, spatial.Point{Lat: l.Latitude, Lon: l.Longitude})
	}

	fields := make([]Field, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.count < 2 {
			continue
		}

		hull, fallback := hullOrFallback(g.points, opts.FallbackBufferDeg)
		fields = append(fields, Field{
			City:          g.label,
			Neighbourhood: g.sub,
			Count:         g.count,
			MeanPrice:     g.priceSum / float64(g.count),
			Hull:          hull,
			Fallback:      fallback,
		})
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].City != fields[j].City {
			return fields[i].City < fields[j].City
		}
		return fields[i].Neighbourhood < fields[j].Neighbourhood
	})
	return fields
}

// CityBoundaries computes one outline polygon per city. Unlike the
// neighbourhood pass, unincorporated listings are included: a city
// boundary should reflect all activity. Degenerate 1-2 point cities get a
// small buffered rectangle so they remain visible and clickable.
func CityBoundaries(listings []models.Listing, opts Options) []Boundary {
	groups := make(map[string]*group)
	order := []string{}

	for i := range listings {
		l := &listings[i]
		key := l.CityLabel()

		g, ok := groups[key]
		if !ok {
			g = &group{label: key}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
		g.priceSum += l.Price
		g.points = append(g.points, spatial.Point{Lat: l.Latitude, Lon: l.Longitude})
	}

	boundaries := make([]Boundary, 0, len(order))
	for _, key := range order {
		g := groups[key]

		hull, fallback := hullOrFallback(g.points, opts.FallbackBufferDeg)
		boundaries = append(boundaries, Boundary{
			City:      g.label,
			Count:     g.count,
			MeanPrice: g.priceSum / float64(g.count),
			Hull:      hull,
			Fallback:  fallback,
		})
	}

	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].City < boundaries[j].City })
	return boundaries
}

// hullOrFallback never fails: degenerate geometry is substituted with a
// deterministic rectangle, so every non-empty group stays renderable.
func hullOrFallback(points []spatial.Point, buf float64) ([]spatial.Point, bool) {
	hull := spatial.ConvexHull(points)
	if len(hull) >= 3 {
		return hull, false
	}
	return spatial.FallbackRect(points, buf), true
}

// MaxSizeValue returns the largest bubble size value, floored at 1 so
// radius scales never see a zero domain. A plain loop keeps it stack-safe
// for arbitrarily large inputs.
func MaxSizeValue(bubbles []Bubble) float64 {
	max := 1.0
	for _, b := range bubbles {
		if b.SizeValue > max {
			max = b.SizeValue
		}
	}
	return max
}
