package fisheye

import (
	"github.com/staymap/staymap-backend-go/internal/render"
	"github.com/staymap/staymap-backend-go/internal/spatial"
)

// DistortPath applies the lens to every vertex of a path, always starting
// from the cached undistorted original so repeated calls with moving foci
// never compound. The returned path carries the same ID.
func DistortPath(p render.Path, lens Lens, cache *GeometryCache) render.Path {
	orig := cache.Original(p)

	for i := range orig.Commands {
		c := &orig.Commands[i]
		if c.Op == render.OpClose {
			continue
		}
		c.X, c.Y, _ = lens.Apply(c.X, c.Y)
	}
	return orig
}

// DistortedPoint is a listing pushed outward by the lens
type DistortedPoint struct {
	Listing *spatial.IndexPoint
	X, Y    float64 // distorted position
	Scale   float64
	OrigX   float64
	OrigY   float64
}

// DistortPoints selects the indexed listings inside the lens and applies
// the radial distortion to each. Listings outside the radius are not
// returned; the caller renders only the magnified neighbourhood of the
// pointer.
func DistortPoints(index *spatial.Quadtree, lens Lens) []DistortedPoint {
	if index == nil {
		return nil
	}

	inside := index.QueryRadius(lens.FocusX, lens.FocusY, lens.Radius)
	out := make([]DistortedPoint, 0, len(inside))

	for i := range inside {
		p := inside[i]
		x, y, scale := lens.Apply(p.X, p.Y)
		out = append(out, DistortedPoint{
			Listing: &inside[i],
			X:       x,
			Y:       y,
			Scale:   scale,
			OrigX:   p.X,
			OrigY:   p.Y,
		})
	}
	return out
}
