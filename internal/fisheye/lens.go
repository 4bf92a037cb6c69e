// Package fisheye implements the focus+context lens used at high zoom: a
// local radial distortion around the pointer that magnifies nearby
// listings and basemap geometry without disturbing anything beyond the
// lens radius.
package fisheye

import "math"

// Lens is a radial cartesian-distortion lens in frame coordinates
type Lens struct {
	FocusX     float64
	FocusY     float64
	Radius     float64
	Distortion float64 // > 0, higher = stronger magnification
}

// RadiusForZoom shrinks the lens radius as the user zooms in, keeping its
// screen-space footprint visually consistent inside the scaled map group.
func RadiusForZoom(baseRadius, zoom, scaleFactor float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return baseRadius / (zoom * scaleFactor)
}

// Apply distorts a single point. Points at or beyond the lens radius are
// returned unchanged with scale 1; the focus itself is unmoved; points in
// between are pushed outward by
//
//	k = (d+1) * r * x / (d*r + x)
//
// where x is the undistorted distance from the focus and d the distortion
// constant. x appears in both numerator and denominator, so the scale
// tends to the finite limit (d+1)/d as x approaches zero.
func (l Lens) Apply(x, y float64) (float64, float64, float64) {
	dx := x - l.FocusX
	dy := y - l.FocusY
	dist := math.Hypot(dx, dy)

	if dist >= l.Radius || l.Radius <= 0 || l.Distortion <= 0 {
		return x, y, 1
	}
	if dist == 0 {
		return x, y, (l.Distortion + 1) / l.Distortion
	}

	k := (l.Distortion + 1) * l.Radius * dist / (l.Distortion*l.Radius + dist)
	scale := k / dist

	return l.FocusX + dx*scale, l.FocusY + dy*scale, scale
}

// Contains reports whether a point lies strictly inside the lens
func (l Lens) Contains(x, y float64) bool {
	dx := x - l.FocusX
	dy := y - l.FocusY
	return dx*dx+dy*dy < l.Radius*l.Radius
}
