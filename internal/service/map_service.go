package service

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/staymap/staymap-backend-go/internal/aggregate"
	"github.com/staymap/staymap-backend-go/internal/config"
	"github.com/staymap/staymap-backend-go/internal/fisheye"
	"github.com/staymap/staymap-backend-go/internal/lod"
	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/projection"
	"github.com/staymap/staymap-backend-go/internal/render"
	"github.com/staymap/staymap-backend-go/internal/spatial"
	"github.com/staymap/staymap-backend-go/internal/stats"
)

// ListingSource abstracts the listing store
type ListingSource interface {
	Find(filter models.ListingFilter) ([]models.Listing, error)
	GetByID(id int64) (*models.Listing, error)
}

// MapService owns map sessions and runs the aggregation/render pipeline
// for each of them
type MapService struct {
	cfg    *config.Config
	source ListingSource
	proj   projection.Projector

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMapService creates a map service over the given listing source
func NewMapService(cfg *config.Config, source ListingSource, proj projection.Projector) *MapService {
	return &MapService{
		cfg:      cfg,
		source:   source,
		proj:     proj,
		sessions: make(map[string]*Session),
	}
}

// CreateSession opens a session for a persona, scoped to the persona's
// default snapshot year, and runs the first aggregation pass.
func (s *MapService) CreateSession(persona models.Persona) (SessionState, error) {
	sess := &Session{
		ID:      uuid.NewString(),
		Persona: persona,
		filter:  models.ListingFilter{Year: persona.DefaultYear()},
		zoom:    lod.NewController(s.cfg.ZoomMin, s.cfg.ZoomMax, s.cfg.ZoomStep, s.cfg.CityZoomThreshold),
		geom:    fisheye.NewGeometryCache(),
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := s.recompute(sess); err != nil {
		return SessionState{}, err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Printf("[MapService] Created session %s (persona=%s, listings=%d)", sess.ID, persona, len(sess.listings))
	return sess.snapshot(), nil
}

// CloseSession discards a session
func (s *MapService) CloseSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MapService) session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return sess, nil
}

// recompute rebuilds all derived state from the current filter. Must be
// called with sess.mu held. The aggregation pass is a full rebuild: the
// quadtree cannot be patched incrementally, and at dataset scale the pass
// is cheap enough to run on every filter change.
func (s *MapService) recompute(sess *Session) error {
	listings, err := s.source.Find(sess.filter)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}

	opts := aggregate.Options{
		UnincorporatedMarker: s.cfg.UnincorporatedMarker,
		FallbackBufferDeg:    s.cfg.FallbackBufferDeg,
	}

	sess.listings = listings
	sess.filterSig = sess.filter.Signature()
	sess.bubbles = aggregate.ByCity(listings)
	sess.fields = aggregate.NeighborhoodFields(listings, opts)
	sess.boundaries = aggregate.CityBoundaries(listings, opts)
	sess.index = spatial.BuildIndex(listings, s.proj)

	// Undistorted geometry changed; cached originals are stale
	sess.geom.Invalidate()
	sess.lensActive = false

	return nil
}

// ApplyFilter replaces the session filter. Aggregation is memoized on the
// filter signature, so a no-op filter update does no work. A real change
// rebuilds derived state and clears the selection.
func (s *MapService) ApplyFilter(id string, filter models.ListingFilter) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if filter.Signature() == sess.filterSig {
		return sess.snapshot(), nil
	}

	sess.filter = filter
	if err := s.recompute(sess); err != nil {
		return SessionState{}, err
	}
	sess.selected = nil

	return sess.snapshot(), nil
}

// ZoomView reports the result of a zoom update
type ZoomView struct {
	State   SessionState `json:"state"`
	Crossed bool         `json:"crossed"` // threshold crossing: the layer must be swapped
}

// SetZoom updates the zoom factor. Crossing the city threshold into
// coarse mode tears down the lens and restores undistorted geometry;
// updates on the same side of the threshold swap no layers.
func (s *MapService) SetZoom(id string, zoom float64) (ZoomView, error) {
	sess, err := s.session(id)
	if err != nil {
		return ZoomView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	mode, crossed := sess.zoom.SetZoom(zoom)
	if crossed && mode == lod.ModeCoarse {
		sess.lensActive = false
	}

	return ZoomView{State: sess.snapshot(), Crossed: crossed}, nil
}

// ZoomIn advances zoom by the configured step
func (s *MapService) ZoomIn(id string) (ZoomView, error) {
	sess, err := s.session(id)
	if err != nil {
		return ZoomView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	mode, crossed := sess.zoom.ZoomIn()
	if crossed && mode == lod.ModeCoarse {
		sess.lensActive = false
	}
	return ZoomView{State: sess.snapshot(), Crossed: crossed}, nil
}

// ZoomOut retreats zoom by the configured step
func (s *MapService) ZoomOut(id string) (ZoomView, error) {
	sess, err := s.session(id)
	if err != nil {
		return ZoomView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	mode, crossed := sess.zoom.ZoomOut()
	if crossed && mode == lod.ModeCoarse {
		sess.lensActive = false
	}
	return ZoomView{State: sess.snapshot(), Crossed: crossed}, nil
}

// LayerDocument is the mode-selected renderable layer
type LayerDocument struct {
	Mode   lod.Mode            `json:"mode"`
	Coarse *render.CoarseLayer `json:"coarse,omitempty"`
	Fine   *render.FineLayer   `json:"fine,omitempty"`

	// The selected listing marker is re-emitted undistorted with every
	// layer, so it survives layer swaps.
	Selected *SelectedMarker `json:"selected,omitempty"`
}

// SelectedMarker is the persistent selected-listing bubble
type SelectedMarker struct {
	ID    int64   `json:"id"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Price float64 `json:"price"`
}

// Layer builds the renderable layer for the session's current mode
func (s *MapService) Layer(id string) (LayerDocument, error) {
	sess, err := s.session(id)
	if err != nil {
		return LayerDocument{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	doc := LayerDocument{Mode: sess.zoom.Mode()}

	switch sess.zoom.Mode() {
	case lod.ModeCoarse:
		layer := render.BuildCoarseLayer(sess.bubbles, s.proj, render.ScaleConfig{
			BubbleRadiusMin: s.cfg.BubbleRadiusMin,
			BubbleRadiusMax: s.cfg.BubbleRadiusMax,
		})
		doc.Coarse = &layer
	case lod.ModeFine:
		layer := render.BuildFineLayer(sess.fields, sess.boundaries, s.proj)
		doc.Fine = &layer
	}

	doc.Selected = s.selectedMarker(sess)
	return doc, nil
}

// selectedMarker must be called with sess.mu held
func (s *MapService) selectedMarker(sess *Session) *SelectedMarker {
	if sess.selected == nil {
		return nil
	}

	x, y, ok := s.proj.Project(sess.selected.Longitude, sess.selected.Latitude)
	if !ok {
		return nil
	}

	return &SelectedMarker{
		ID:    sess.selected.ID,
		Label: sess.selected.Name,
		X:     x,
		Y:     y,
		Price: sess.selected.Price,
	}
}

// ListingBubble is one magnified listing inside the lens
type ListingBubble struct {
	ID             int64   `json:"id"`
	Label          string  `json:"label"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Radius         float64 `json:"radius"`
	Color          string  `json:"color"`
	Price          float64 `json:"price"`
	DistanceMeters float64 `json:"distanceMeters"` // ground distance to the pointer's nearest listing
	Selected       bool    `json:"selected"`
}

// FisheyeOverlay is the distorted focus+context layer composited above the
// fine base layer
type FisheyeOverlay struct {
	Active     bool                  `json:"active"`
	FocusX     float64               `json:"focusX"`
	FocusY     float64               `json:"focusY"`
	Radius     float64               `json:"radius"`
	Listings   []ListingBubble       `json:"listings"`
	Boundaries []render.BoundaryMark `json:"boundaries"`
	Fields     []render.FieldMark    `json:"fields"`
	Selected   *SelectedMarker       `json:"selected,omitempty"`
}

// lensDotRadius is the undistorted pixel radius of a lens listing bubble
const lensDotRadius = 2.5

// PointerMove updates the fisheye focus. Outside fine mode the lens stays
// inactive and the overlay is empty. Inside fine mode the lens radius
// shrinks with zoom, nearby listings are selected through the spatial
// index and pushed outward, and every base polygon is re-distorted from
// its cached undistorted original.
func (s *MapService) PointerMove(id string, x, y float64) (FisheyeOverlay, error) {
	sess, err := s.session(id)
	if err != nil {
		return FisheyeOverlay{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.zoom.Mode() != lod.ModeFine {
		sess.lensActive = false
		return FisheyeOverlay{Active: false}, nil
	}

	lens := fisheye.Lens{
		FocusX:     x,
		FocusY:     y,
		Radius:     fisheye.RadiusForZoom(s.cfg.FisheyeBaseRadius, sess.zoom.Zoom(), s.cfg.FisheyeScaleFactor),
		Distortion: s.cfg.FisheyeDistortion,
	}
	sess.lens = lens
	sess.lensActive = true

	overlay := FisheyeOverlay{
		Active: true,
		FocusX: x,
		FocusY: y,
		Radius: lens.Radius,
	}

	// Magnified listings
	distorted := fisheye.DistortPoints(sess.index, lens)
	colors := s.lensColorScale(sess)

	var anchor *models.Listing
	if nearest, ok := sess.index.QueryNearest(x, y, lens.Radius); ok {
		anchor = nearest.Listing
	}

	for _, d := range distorted {
		l := d.Listing.Listing
		dist := 0.0
		if anchor != nil {
			dist = spatial.HaversineDistance(anchor.Latitude, anchor.Longitude, l.Latitude, l.Longitude)
		}

		overlay.Listings = append(overlay.Listings, ListingBubble{
			ID:             l.ID,
			Label:          l.Name,
			X:              d.X,
			Y:              d.Y,
			Radius:         lensDotRadius * d.Scale,
			Color:          colors.Color(l.Price),
			Price:          l.Price,
			DistanceMeters: dist,
			Selected:       sess.selected != nil && sess.selected.ID == l.ID,
		})
	}

	// Distorted base geometry, always derived from cached originals so
	// successive pointer moves never compound
	fine := render.BuildFineLayer(sess.fields, sess.boundaries, s.proj)
	for _, b := range fine.Boundaries {
		b.Path = fisheye.DistortPath(b.Path, lens, sess.geom)
		overlay.Boundaries = append(overlay.Boundaries, b)
	}
	for _, f := range fine.Fields {
		f.Path = fisheye.DistortPath(f.Path, lens, sess.geom)
		overlay.Fields = append(overlay.Fields, f)
	}

	overlay.Selected = s.selectedMarker(sess)
	return overlay, nil
}

// PointerLeave deactivates the lens. Restoration is idempotent: geometry
// is always rebuilt from undistorted sources, so a second leave (or a
// leave racing a move) is a no-op.
func (s *MapService) PointerLeave(id string) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lensActive = false
	return sess.snapshot(), nil
}

// Select promotes a listing to the persistent selection. The listing must
// be part of the currently filtered set; selecting a new one replaces the
// old.
func (s *MapService) Select(id string, listingID int64) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	for i := range sess.listings {
		if sess.listings[i].ID == listingID {
			sess.selected = &sess.listings[i]
			return sess.snapshot(), nil
		}
	}
	return SessionState{}, fmt.Errorf("listing %d is not in the current view", listingID)
}

// ClearSelection drops the selected listing
func (s *MapService) ClearSelection(id string) (SessionState, error) {
	sess, err := s.session(id)
	if err != nil {
		return SessionState{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.selected = nil
	return sess.snapshot(), nil
}

// ListingDetail returns the persona-scoped detail view of a listing
func (s *MapService) ListingDetail(listingID int64, persona models.Persona) (*models.ListingDetail, error) {
	l, err := s.source.GetByID(listingID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}

	detail := l.DetailFor(persona)
	return &detail, nil
}

// lensColorScale must be called with sess.mu held
func (s *MapService) lensColorScale(sess *Session) render.SequentialScale {
	prices := make([]float64, 0, len(sess.listings))
	for i := range sess.listings {
		prices = append(prices, sess.listings[i].Price)
	}
	return render.NewPriceScale(stats.Min(prices), stats.Max(prices))
}
