package service

import (
	"testing"

	"github.com/staymap/staymap-backend-go/internal/config"
	"github.com/staymap/staymap-backend-go/internal/lod"
	"github.com/staymap/staymap-backend-go/internal/models"
	"github.com/staymap/staymap-backend-go/internal/projection"
)

// fakeSource serves a fixed listing set scoped by snapshot year and counts
// Find calls so memoization can be asserted
type fakeSource struct {
	listings  []models.Listing
	findCalls int
}

func (f *fakeSource) Find(filter models.ListingFilter) ([]models.Listing, error) {
	f.findCalls++
	out := []models.Listing{}
	for _, l := range f.listings {
		if filter.Year != 0 && l.Year != filter.Year {
			continue
		}
		if filter.City != "" && l.City != filter.City {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeSource) GetByID(id int64) (*models.Listing, error) {
	for i := range f.listings {
		if f.listings[i].ID == id {
			return &f.listings[i], nil
		}
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ZoomMin:           1,
		ZoomMax:           100,
		ZoomStep:          1.5,
		CityZoomThreshold: 4,

		FisheyeBaseRadius:  120,
		FisheyeScaleFactor: 0.5,
		FisheyeDistortion:  3,

		FallbackBufferDeg:    0.01,
		UnincorporatedMarker: "Unincorporated Areas",

		BubbleRadiusMin: 3,
		BubbleRadiusMax: 28,
	}
}

func testListings() []models.Listing {
	return []models.Listing{
		{ID: 1, Name: "Downtown loft", City: "Springfield", State: "IL", Neighbourhood: "Downtown", Latitude: 39.800, Longitude: -89.650, Price: 100, HostListings: 4, Availability: 200, Year: 2019},
		{ID: 2, Name: "Capitol view", City: "Springfield", State: "IL", Neighbourhood: "Downtown", Latitude: 39.801, Longitude: -89.649, Price: 150, HostListings: 1, Availability: 90, Year: 2019},
		{ID: 3, Name: "Enos Park studio", City: "Springfield", State: "IL", Neighbourhood: "Enos Park", Latitude: 39.802, Longitude: -89.648, Price: 200, HostListings: 2, Availability: 10, Year: 2019},
		{ID: 4, Name: "Short North flat", City: "Columbus", State: "OH", Neighbourhood: "Short North", Latitude: 39.970, Longitude: -83.000, Price: 50, HostListings: 3, Availability: 365, Year: 2019},
		{ID: 5, Name: "Short North condo", City: "Columbus", State: "OH", Neighbourhood: "Short North", Latitude: 39.975, Longitude: -83.005, Price: 70, HostListings: 1, Availability: 120, Year: 2019},
		{ID: 6, Name: "Late snapshot", City: "Springfield", State: "IL", Neighbourhood: "Downtown", Latitude: 39.803, Longitude: -89.647, Price: 130, HostListings: 1, Availability: 30, Year: 2020},
	}
}

func newTestService() (*MapService, *fakeSource) {
	source := &fakeSource{listings: testListings()}
	return NewMapService(testConfig(), source, projection.NewAlbersUSA()), source
}

func TestCreateSessionDefaults(t *testing.T) {
	svc, _ := newTestService()

	state, err := svc.CreateSession(models.PersonaTraveler)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if state.ID == "" {
		t.Errorf("expected a session ID")
	}
	if state.Filter.Year != models.YearEarly {
		t.Errorf("traveler should start on %d, got %d", models.YearEarly, state.Filter.Year)
	}
	if state.Zoom != 1 || state.Mode != lod.ModeCoarse {
		t.Errorf("expected coarse mode at zoom 1, got %s at %f", state.Mode, state.Zoom)
	}
	if state.ListingCount != 5 {
		t.Errorf("expected 5 listings in the 2019 snapshot, got %d", state.ListingCount)
	}
	if state.LensActive {
		t.Errorf("lens must start inactive")
	}
}

func TestCreateSessionHostYear(t *testing.T) {
	svc, _ := newTestService()

	state, err := svc.CreateSession(models.PersonaHost)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if state.Filter.Year != models.YearLate {
		t.Errorf("host should start on %d, got %d", models.YearLate, state.Filter.Year)
	}
	if state.ListingCount != 1 {
		t.Errorf("expected 1 listing in the 2020 snapshot, got %d", state.ListingCount)
	}
}

func TestApplyFilterMemoizesOnSignature(t *testing.T) {
	svc, source := newTestService()

	state, err := svc.CreateSession(models.PersonaTraveler)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	calls := source.findCalls

	// Same filter again: no recompute
	if _, err := svc.ApplyFilter(state.ID, state.Filter); err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if source.findCalls != calls {
		t.Errorf("no-op filter triggered a recompute")
	}

	// A real change queries the source
	next := state.Filter
	next.City = "Springfield"
	updated, err := svc.ApplyFilter(state.ID, next)
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if source.findCalls != calls+1 {
		t.Errorf("expected one recompute, got %d extra calls", source.findCalls-calls)
	}
	if updated.ListingCount != 3 {
		t.Errorf("expected 3 Springfield listings, got %d", updated.ListingCount)
	}
}

func TestApplyFilterClearsSelection(t *testing.T) {
	svc, _ := newTestService()

	state, _ := svc.CreateSession(models.PersonaTraveler)
	selected, err := svc.Select(state.ID, 4)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if selected.SelectedID == nil || *selected.SelectedID != 4 {
		t.Fatalf("expected listing 4 selected")
	}

	next := state.Filter
	next.City = "Springfield"
	updated, err := svc.ApplyFilter(state.ID, next)
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if updated.SelectedID != nil {
		t.Errorf("filter change must clear the selection")
	}
}

func TestZoomCrossingSwapsLayer(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)

	doc, err := svc.Layer(state.ID)
	if err != nil {
		t.Fatalf("layer failed: %v", err)
	}
	if doc.Mode != lod.ModeCoarse || doc.Coarse == nil || doc.Fine != nil {
		t.Errorf("expected a coarse document at zoom 1")
	}
	if len(doc.Coarse.Bubbles) != 2 {
		t.Errorf("expected 2 city bubbles, got %d", len(doc.Coarse.Bubbles))
	}

	view, err := svc.SetZoom(state.ID, 5)
	if err != nil {
		t.Fatalf("zoom failed: %v", err)
	}
	if !view.Crossed || view.State.Mode != lod.ModeFine {
		t.Errorf("expected a crossing into fine mode, got crossed=%v mode=%s", view.Crossed, view.State.Mode)
	}

	doc, err = svc.Layer(state.ID)
	if err != nil {
		t.Fatalf("layer failed: %v", err)
	}
	if doc.Mode != lod.ModeFine || doc.Fine == nil || doc.Coarse != nil {
		t.Errorf("expected a fine document after crossing")
	}

	// Same side of the threshold: no swap
	view, _ = svc.SetZoom(state.ID, 6)
	if view.Crossed {
		t.Errorf("zoom update on the same side reported a crossing")
	}
}

func TestPointerMoveInactiveInCoarseMode(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)

	overlay, err := svc.PointerMove(state.ID, 500, 300)
	if err != nil {
		t.Fatalf("pointer failed: %v", err)
	}
	if overlay.Active {
		t.Errorf("lens must stay inactive in coarse mode")
	}
}

func TestPointerMoveMagnifiesNearbyListings(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)

	if _, err := svc.SetZoom(state.ID, 5); err != nil {
		t.Fatalf("zoom failed: %v", err)
	}

	// Focus on Springfield's projected position
	proj := projection.NewAlbersUSA()
	fx, fy, ok := proj.Project(-89.650, 39.800)
	if !ok {
		t.Fatalf("reference point out of projection domain")
	}

	overlay, err := svc.PointerMove(state.ID, fx, fy)
	if err != nil {
		t.Fatalf("pointer failed: %v", err)
	}
	if !overlay.Active {
		t.Fatalf("expected an active lens in fine mode")
	}
	if want := 120.0 / (5 * 0.5); overlay.Radius != want {
		t.Errorf("expected lens radius %f, got %f", want, overlay.Radius)
	}

	// The three Springfield listings sit within a pixel of the focus; the
	// Columbus pair is far outside the lens
	if len(overlay.Listings) != 3 {
		t.Fatalf("expected 3 magnified listings, got %d", len(overlay.Listings))
	}
	for _, b := range overlay.Listings {
		if b.ID == 4 || b.ID == 5 {
			t.Errorf("Columbus listing %d inside a Springfield lens", b.ID)
		}
		if b.Radius <= 0 {
			t.Errorf("listing %d has no visible radius", b.ID)
		}
	}

	state2, err := svc.PointerLeave(state.ID)
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if state2.LensActive {
		t.Errorf("lens still active after leave")
	}

	// Leaving twice is a no-op
	state3, err := svc.PointerLeave(state.ID)
	if err != nil || state3.LensActive {
		t.Errorf("second leave not idempotent: err=%v active=%v", err, state3.LensActive)
	}
}

func TestPointerMoveRepeatableAtSameFocus(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)
	svc.SetZoom(state.ID, 5)

	proj := projection.NewAlbersUSA()
	fx, fy, _ := proj.Project(-89.650, 39.800)

	first, err := svc.PointerMove(state.ID, fx, fy)
	if err != nil {
		t.Fatalf("pointer failed: %v", err)
	}
	// Wander away and back; distortion must not compound
	if _, err := svc.PointerMove(state.ID, fx+20, fy+20); err != nil {
		t.Fatalf("pointer failed: %v", err)
	}
	second, err := svc.PointerMove(state.ID, fx, fy)
	if err != nil {
		t.Fatalf("pointer failed: %v", err)
	}

	if len(first.Fields) != len(second.Fields) {
		t.Fatalf("field count changed between identical foci: %d vs %d", len(first.Fields), len(second.Fields))
	}
	for i := range first.Fields {
		a, b := first.Fields[i].Path, second.Fields[i].Path
		if a.String() != b.String() {
			t.Errorf("field %s geometry drifted across repeated foci", a.ID)
		}
	}
}

func TestZoomOutOfFineTearsDownLens(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)
	svc.SetZoom(state.ID, 5)

	proj := projection.NewAlbersUSA()
	fx, fy, _ := proj.Project(-89.650, 39.800)
	overlay, _ := svc.PointerMove(state.ID, fx, fy)
	if !overlay.Active {
		t.Fatalf("expected an active lens")
	}

	view, err := svc.SetZoom(state.ID, 2)
	if err != nil {
		t.Fatalf("zoom failed: %v", err)
	}
	if !view.Crossed || view.State.Mode != lod.ModeCoarse {
		t.Fatalf("expected a crossing back to coarse")
	}
	if view.State.LensActive {
		t.Errorf("crossing into coarse must deactivate the lens")
	}
}

func TestSelectRequiresListingInView(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)

	// Listing 6 belongs to the 2020 snapshot, not the current view
	if _, err := svc.Select(state.ID, 6); err == nil {
		t.Errorf("expected selection of an out-of-view listing to fail")
	}

	selected, err := svc.Select(state.ID, 1)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if selected.SelectedID == nil || *selected.SelectedID != 1 {
		t.Errorf("expected listing 1 selected")
	}

	// The selected marker survives a layer swap
	svc.SetZoom(state.ID, 5)
	doc, _ := svc.Layer(state.ID)
	if doc.Selected == nil || doc.Selected.ID != 1 {
		t.Errorf("selected marker missing from the fine document")
	}

	cleared, err := svc.ClearSelection(state.ID)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cleared.SelectedID != nil {
		t.Errorf("selection not cleared")
	}
}

func TestListingDetailPersonaScope(t *testing.T) {
	svc, _ := newTestService()

	traveler, err := svc.ListingDetail(1, models.PersonaTraveler)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if traveler == nil {
		t.Fatalf("expected a detail view")
	}
	if traveler.HostListings != nil || traveler.Availability != nil {
		t.Errorf("traveler view leaked host metrics")
	}

	host, err := svc.ListingDetail(1, models.PersonaHost)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if host.HostListings == nil || *host.HostListings != 4 {
		t.Errorf("host view missing host listing count")
	}
	if host.Availability == nil || *host.Availability != 200 {
		t.Errorf("host view missing availability")
	}

	missing, err := svc.ListingDetail(999, models.PersonaTraveler)
	if err != nil || missing != nil {
		t.Errorf("expected nil detail for an unknown listing")
	}
}

func TestCloseSession(t *testing.T) {
	svc, _ := newTestService()
	state, _ := svc.CreateSession(models.PersonaTraveler)

	svc.CloseSession(state.ID)
	if _, err := svc.Layer(state.ID); err == nil {
		t.Errorf("expected an error for a closed session")
	}
}
