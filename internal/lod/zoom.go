package lod

// Controller wraps the continuous zoom gesture with a fixed scale extent
// and a multiplicative step for the zoom buttons. It is the sole source of
// truth for the current mode; every SetZoom reports whether the city
// threshold was crossed so callers re-render only on transitions.
type Controller struct {
	min       float64
	max       float64
	step      float64
	threshold float64

	zoom float64
	mode Mode
}

// NewController creates a zoom controller at the minimum zoom
func NewController(min, max, step, cityThreshold float64) *Controller {
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = min
	}
	if step <= 1 {
		step = 1.5
	}

	c := &Controller{
		min:       min,
		max:       max,
		step:      step,
		threshold: cityThreshold,
		zoom:      min,
	}
	c.mode = NextMode(c.mode, c.zoom, c.threshold)
	return c
}

// Zoom returns the current zoom factor
func (c *Controller) Zoom() float64 {
	return c.zoom
}

// Mode returns the current level-of-detail mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Threshold returns the configured city threshold
func (c *Controller) Threshold() float64 {
	return c.threshold
}

// SetZoom clamps the zoom to the scale extent and reports the resulting
// mode and whether the threshold was crossed by this update. Repeated
// updates on the same side of the threshold report crossed=false, so a
// wheel gesture produces at most one layer swap.
func (c *Controller) SetZoom(zoom float64) (Mode, bool) {
	if zoom < c.min {
		zoom = c.min
	}
	if zoom > c.max {
		zoom = c.max
	}

	c.zoom = zoom
	next := NextMode(c.mode, zoom, c.threshold)
	crossed := next != c.mode
	c.mode = next
	return next, crossed
}

// ZoomIn advances the zoom by one step factor
func (c *Controller) ZoomIn() (Mode, bool) {
	return c.SetZoom(c.zoom * c.step)
}

// ZoomOut retreats the zoom by one step factor
func (c *Controller) ZoomOut() (Mode, bool) {
	return c.SetZoom(c.zoom / c.step)
}
