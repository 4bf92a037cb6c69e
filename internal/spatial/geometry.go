package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// BoundingBox calculates the bounding box of a set of points
// Returns (minLat, minLon, maxLat, maxLon)
func BoundingBox(points []Point) (float64, float64, float64, float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLon, maxLon := points[0].Lon, points[0].Lon

	for _, p := range points[1:] {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
		if p.Lon < minLon {
			minLon = p.Lon
		}
		if p.Lon > maxLon {
			maxLon = p.Lon
		}
	}

	return minLat, minLon, maxLat, maxLon
}

// PolygonArea calculates the absolute shoelace area of a polygon in
// squared degrees. Points should be in order (clockwise or
// counter-clockwise). Used for back-to-front ordering of rendered fields,
// not for surface area.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i].Lon*points[j].Lat - points[j].Lon*points[i].Lat
	}

	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// PointInPolygon checks if a point is inside a polygon using ray casting.
// Points on the boundary may land on either side; callers needing closed
// containment should combine this with an edge test.
func PointInPolygon(point Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		if ((polygon[i].Lat > point.Lat) != (polygon[j].Lat > point.Lat)) &&
			(point.Lon < (polygon[j].Lon-polygon[i].Lon)*(point.Lat-polygon[i].Lat)/(polygon[j].Lat-polygon[i].Lat)+polygon[i].Lon) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PointOnOrInPolygon is PointInPolygon plus an explicit vertex/edge check,
// so hull vertices themselves count as contained.
func PointOnOrInPolygon(point Point, polygon []Point) bool {
	if PointInPolygon(point, polygon) {
		return true
	}

	for i := 0; i < len(polygon); i++ {
		j := (i + 1) % len(polygon)
		if pointOnSegment(point, polygon[i], polygon[j]) {
			return true
		}
	}

	return false
}

const segmentEpsilon = 1e-9

func pointOnSegment(p, a, b Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if cross > segmentEpsilon || cross < -segmentEpsilon {
		return false
	}

	dot := (p.Lon-a.Lon)*(b.Lon-a.Lon) + (p.Lat-a.Lat)*(b.Lat-a.Lat)
	if dot < -segmentEpsilon {
		return false
	}

	lenSq := (b.Lon-a.Lon)*(b.Lon-a.Lon) + (b.Lat-a.Lat)*(b.Lat-a.Lat)
	return dot <= lenSq+segmentEpsilon
}
