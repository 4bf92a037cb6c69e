package render

import (
	"fmt"
	"math"
)

// SqrtScale maps a count to a bubble pixel radius, so bubble area (not
// radius) tracks the listing count. Output is clamped to [RangeMin,
// RangeMax] regardless of domain.
type SqrtScale struct {
	DomainMax float64
	RangeMin  float64
	RangeMax  float64
}

// Radius maps a size value to a pixel radius
func (s SqrtScale) Radius(v float64) float64 {
	if v < 0 {
		v = 0
	}
	domain := s.DomainMax
	if domain < 1 {
		domain = 1
	}

	r := s.RangeMin + (s.RangeMax-s.RangeMin)*math.Sqrt(v)/math.Sqrt(domain)
	if r < s.RangeMin {
		r = s.RangeMin
	}
	if r > s.RangeMax {
		r = s.RangeMax
	}
	return r
}

// SequentialScale maps a metric onto a two-stop color ramp
type SequentialScale struct {
	DomainMin float64
	DomainMax float64
	start     [3]int
	end       [3]int
}

// NewPriceScale returns the sequential ramp used for mean price, light
// warm to deep red
func NewPriceScale(min, max float64) SequentialScale {
	return SequentialScale{
		DomainMin: min,
		DomainMax: max,
		start:     [3]int{0xff, 0xf7, 0xec},
		end:       [3]int{0x7f, 0x00, 0x00},
	}
}

// Color maps a value to a hex color, clamping outside the domain
func (s SequentialScale) Color(v float64) string {
	t := 0.0
	if s.DomainMax > s.DomainMin {
		t = (v - s.DomainMin) / (s.DomainMax - s.DomainMin)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	r := int(math.Round(float64(s.start[0]) + t*float64(s.end[0]-s.start[0])))
	g := int(math.Round(float64(s.start[1]) + t*float64(s.end[1]-s.start[1])))
	b := int(math.Round(float64(s.start[2]) + t*float64(s.end[2]-s.start[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// FormatPrice renders a mean price for tooltips
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.0f", v)
}
