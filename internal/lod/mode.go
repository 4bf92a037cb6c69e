// Package lod owns the zoom scalar and the level-of-detail state machine.
// Mode transitions fire only on threshold crossings, never on individual
// zoom ticks, which is what bounds re-aggregation and layer-swap cost.
package lod

// Mode is the rendering level of detail
type Mode string

const (
	// ModeCoarse renders one bubble per city
	ModeCoarse Mode = "coarse"
	// ModeFine renders city boundary outlines beneath neighbourhood fields
	ModeFine Mode = "fine"
)

// NextMode is the pure transition function of the state machine: the mode
// is fully determined by the zoom factor relative to the city threshold.
// The current mode is part of the signature so callers can detect
// crossings by comparison.
func NextMode(current Mode, zoom, cityThreshold float64) Mode {
	if zoom >= cityThreshold {
		return ModeFine
	}
	return ModeCoarse
}
