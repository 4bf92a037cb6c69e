package spatial

import "sort"

// ConvexHull computes the 2D convex hull of a point set using the monotone
// chain algorithm, treating (Lon, Lat) as planar (x, y). The result is in
// counter-clockwise order without a repeated closing vertex, so rendering
// can assume a simple non-self-intersecting polygon.
//
// Degenerate inputs (fewer than 3 distinct points, or all collinear)
// return fewer than 3 vertices; callers substitute FallbackRect.
func ConvexHull(points []Point) []Point {
	if len(points) < 3 {
		hull := make([]Point, len(points))
		copy(hull, points)
		return hull
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Lon != sorted[j].Lon {
			return sorted[i].Lon < sorted[j].Lon
		}
		return sorted[i].Lat < sorted[j].Lat
	})

	// Drop exact duplicates so collinearity detection stays clean
	dedup := sorted[:1]
	for _, p := range sorted[1:] {
		last := dedup[len(dedup)-1]
		if p.Lon != last.Lon || p.Lat != last.Lat {
			dedup = append(dedup, p)
		}
	}
	if len(dedup) < 3 {
		return dedup
	}

	n := len(dedup)
	hull := make([]Point, 0, 2*n)

	// Lower chain
	for _, p := range dedup {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Upper chain
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := dedup[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Last point repeats the first
	return hull[:len(hull)-1]
}

// cross returns the z-component of (b-a) x (c-a); positive for a left turn
func cross(a, b, c Point) float64 {
	return (b.Lon-a.Lon)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lon-a.Lon)
}

// FallbackRect builds an axis-aligned rectangle over the extent of a
// degenerate point group, buffered by buf degrees on every side, so 1-2
// point groups and collinear groups remain visible and clickable.
// Vertices are counter-clockwise.
func FallbackRect(points []Point, buf float64) []Point {
	if len(points) == 0 {
		return nil
	}

	minLat, minLon, maxLat, maxLon := BoundingBox(points)
	minLat -= buf
	minLon -= buf
	maxLat += buf
	maxLon += buf

	return []Point{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
	}
}
