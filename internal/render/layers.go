// Package render builds renderable layer documents from aggregates: marks
// with screen positions, typed SVG paths, tooltip payloads, and legends.
// It draws nothing itself; the client composites the documents.
package render

import (
	"fmt"
	"sort"

	"github.com/staymap/staymap-backend-go/internal/aggregate"
	"github.com/staymap/staymap-backend-go/internal/projection"
	"github.com/staymap/staymap-backend-go/internal/spatial"
	"github.com/staymap/staymap-backend-go/internal/stats"
)

// Tooltip is the hover payload attached to every mark
type Tooltip struct {
	Label     string `json:"label"`
	Count     int    `json:"count"`
	MeanPrice string `json:"meanPrice"`
}

// BubbleMark is a positioned, styled city bubble
type BubbleMark struct {
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
	Tooltip Tooltip `json:"tooltip"`
}

// FieldMark is a filled neighbourhood polygon
type FieldMark struct {
	City          string  `json:"city"`
	Neighbourhood string  `json:"neighbourhood"`
	Path          Path    `json:"path"`
	Color         string  `json:"color"`
	Fallback      bool    `json:"fallback"`
	Tooltip       Tooltip `json:"tooltip"`
}

// BoundaryMark is a dashed, non-interactive city outline
type BoundaryMark struct {
	City   string `json:"city"`
	Path   Path   `json:"path"`
	Dashed bool   `json:"dashed"`
}

// LegendEntry is one color swatch with its domain value
type LegendEntry struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Legend describes the active color ramp via quantile breaks
type Legend struct {
	Title   string        `json:"title"`
	Entries []LegendEntry `json:"entries"`
}

// CoarseLayer is the city-bubble rendering of the current listing set
type CoarseLayer struct {
	Mode    string       `json:"mode"`
	Bubbles []BubbleMark `json:"bubbles"`
	Legend  Legend       `json:"legend"`
}

// FineLayer is the boundary-plus-field rendering. Boundaries render
// beneath fields; fields are ordered largest-first so small polygons stay
// clickable on top of large ones.
type FineLayer struct {
	Mode       string         `json:"mode"`
	Boundaries []BoundaryMark `json:"boundaries"`
	Fields     []FieldMark    `json:"fields"`
	Legend     Legend         `json:"legend"`
}

// ScaleConfig carries the configured bubble radius clamp
type ScaleConfig struct {
	BubbleRadiusMin float64
	BubbleRadiusMax float64
}

// BuildCoarseLayer projects city bubbles into the frame, sizes them with a
// clamped sqrt scale, colors them by mean price, and sorts them
// largest-first so big bubbles render beneath small ones. Bubbles whose
// representative point falls outside the projection domain are dropped.
func BuildCoarseLayer(bubbles []aggregate.Bubble, proj projection.Projector, cfg ScaleConfig) CoarseLayer {
	radius := SqrtScale{
		DomainMax: aggregate.MaxSizeValue(bubbles),
		RangeMin:  cfg.BubbleRadiusMin,
		RangeMax:  cfg.BubbleRadiusMax,
	}
	color, legend := priceScaleFor(bubblePrices(bubbles))

	marks := make([]BubbleMark, 0, len(bubbles))
	for _, b := range bubbles {
		x, y, ok := proj.Project(b.Lng, b.Lat)
		if !ok {
			continue
		}

		marks = append(marks, BubbleMark{
			Label:  b.Label,
			X:      x,
			Y:      y,
			Radius: radius.Radius(b.SizeValue),
			Color:  color.Color(b.ColorValue),
			Tooltip: Tooltip{
				Label:     b.Label,
				Count:     int(b.SizeValue),
				MeanPrice: FormatPrice(b.ColorValue),
			},
		})
	}

	// Insertion order: largest first, beneath smaller bubbles
	sortBubblesBySize(marks)

	return CoarseLayer{Mode: "coarse", Bubbles: marks, Legend: legend}
}

// BuildFineLayer projects boundary and field hulls into the frame. Hull
// vertices outside the projection domain are skipped; a polygon that loses
// too many vertices to form a ring is dropped for this pass.
func BuildFineLayer(fields []aggregate.Field, boundaries []aggregate.Boundary, proj projection.Projector) FineLayer {
	color, legend := priceScaleFor(fieldPrices(fields))

	boundaryMarks := make([]BoundaryMark, 0, len(boundaries))
	for _, b := range boundaries {
		path, ok := hullPath("city/"+b.City, b.Hull, proj)
		if !ok {
			continue
		}
		boundaryMarks = append(boundaryMarks, BoundaryMark{City: b.City, Path: path, Dashed: true})
	}

	fieldMarks := make([]FieldMark, 0, len(fields))
	areas := make(map[string]float64, len(fields))
	for _, f := range fields {
		id := "field/" + f.City + "/" + f.Neighbourhood
		path, ok := hullPath(id, f.Hull, proj)
		if !ok {
			continue
		}

		label := fmt.Sprintf("%s (%s)", f.Neighbourhood, f.City)
		fieldMarks = append(fieldMarks, FieldMark{
			City:          f.City,
			Neighbourhood: f.Neighbourhood,
			Path:          path,
			Color:         color.Color(f.MeanPrice),
			Fallback:      f.Fallback,
			Tooltip: Tooltip{
				Label:     label,
				Count:     f.Count,
				MeanPrice: FormatPrice(f.MeanPrice),
			},
		})
		areas[id] = spatial.PolygonArea(f.Hull)
	}

	sortFieldsByArea(fieldMarks, areas)

	return FineLayer{
		Mode:       "fine",
		Boundaries: boundaryMarks,
		Fields:     fieldMarks,
		Legend:     legend,
	}
}

func hullPath(id string, hull []spatial.Point, proj projection.Projector) (Path, bool) {
	xs := make([]float64, 0, len(hull))
	ys := make([]float64, 0, len(hull))
	for _, p := range hull {
		x, y, ok := proj.Project(p.Lon, p.Lat)
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	if len(xs) < 3 {
		return Path{}, false
	}
	return RingPath(id, xs, ys), true
}

// priceScaleFor builds the color scale plus a quantile-break legend over
// the observed mean prices
func priceScaleFor(prices []float64) (SequentialScale, Legend) {
	min := stats.Min(prices)
	max := stats.Max(prices)
	scale := NewPriceScale(min, max)

	legend := Legend{Title: "Mean price"}
	if len(prices) == 0 {
		return scale, legend
	}

	for _, q := range []float64{0, 0.25, 0.5, 0.75, 1} {
		v := stats.Quantile(prices, q)
		legend.Entries = append(legend.Entries, LegendEntry{
			Value: v,
			Color: scale.Color(v),
		})
	}
	return scale, legend
}

func bubblePrices(bubbles []aggregate.Bubble) []float64 {
	prices := make([]float64, 0, len(bubbles))
	for _, b := range bubbles {
		prices = append(prices, b.ColorValue)
	}
	return prices
}

func fieldPrices(fields []aggregate.Field) []float64 {
	prices := make([]float64, 0, len(fields))
	for _, f := range fields {
		prices = append(prices, f.MeanPrice)
	}
	return prices
}

func sortBubblesBySize(marks []BubbleMark) {
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].Radius > marks[j].Radius
	})
}

func sortFieldsByArea(marks []FieldMark, areas map[string]float64) {
	sort.SliceStable(marks, func(i, j int) bool {
		return areas[marks[i].Path.ID] > areas[marks[j].Path.ID]
	})
}
