package service

import (
	"sync"

	"github.com/staymap/staymap-backend-go/internal/aggregate"
	"github.com/staymap/staymap-backend-go/internal/fisheye"
	"github.com/staymap/staymap-backend-go/internal/lod"
	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/spatial"
)

// Session holds all interaction state for one map view: the filter, the
// zoom controller, memoized aggregates, the spatial index, the fisheye
// geometry cache, and the selected listing. Derived state is keyed by the
// filter signature; a signature change rebuilds everything derived and
// clears the selection (a filter change can remove the listing from view).
type Session struct {
	ID      string
	Persona models.Persona

	mu        sync.Mutex
	filter    models.ListingFilter
	filterSig string
	zoom      *lod.Controller

	// Derived, memoized per filter signature
	listings   []models.Listing
	bubbles    []aggregate.Bubble
	fields     []aggregate.Field
	boundaries []aggregate.Boundary
	index      *spatial.Quadtree
	geom       *fisheye.GeometryCache

	lensActive bool
	lens       fisheye.Lens

	selected *models.Listing
}

// SessionState is the snapshot returned to clients after every mutation
type SessionState struct {
	ID           string               `json:"id"`
	Persona      models.Persona       `json:"persona"`
	Filter       models.ListingFilter `json:"filter"`
	Zoom         float64              `json:"zoom"`
	Mode         lod.Mode             `json:"mode"`
	ListingCount int                  `json:"listingCount"`
	LensActive   bool                 `json:"lensActive"`
	SelectedID   *int64               `json:"selectedId,omitempty"`
}

// snapshot must be called with s.mu held
func (s *Session) snapshot() SessionState {
	state := SessionState{
		ID:           s.ID,
		Persona:      s.Persona,
		Filter:       s.filter,
		Zoom:         s.zoom.Zoom(),
		Mode:         s.zoom.Mode(),
		ListingCount: len(s.listings),
		LensActive:   s.lensActive,
	}
	if s.selected != nil {
		id := s.selected.ID
		state.SelectedID = &id
	}
	return state
}
