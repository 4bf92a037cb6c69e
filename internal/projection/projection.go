package projection

// Projector converts geographic coordinates to screen coordinates.
// ok is false when the point lies outside the projection's domain; such
// points contribute to no bubble or field.
type Projector interface {
	Project(lng, lat float64) (x, y float64, ok bool)
}

// PathTransform maps already-projected coordinates. The basemap asset is
// pre-projected into the same frame, so it goes through Identity.
type PathTransform interface {
	Apply(x, y float64) (float64, float64)
}

// Identity is the null path transform for pre-projected geometry
type Identity struct{}

// Apply returns the coordinates unchanged
func (Identity) Apply(x, y float64) (float64, float64) {
	return x, y
}
