package projection

import (
	"math"
	"testing"
)

func TestProjectKnownCities(t *testing.T) {
	p := NewAlbersUSA()

	// Frame positions must stay inside the fixed 975x610 viewport
	cases := []struct {
		name     string
		lng, lat float64
	}{
		{"Springfield IL", -89.65, 39.80},
		{"Columbus OH", -83.00, 39.96},
		{"Seattle WA", -122.33, 47.61},
		{"Miami FL", -80.19, 25.76},
		{"Anchorage AK", -149.90, 61.22},
		{"Honolulu HI", -157.86, 21.31},
	}

	for _, tc := range cases {
		x, y, ok := p.Project(tc.lng, tc.lat)
		if !ok {
			t.Errorf("%s: expected in-domain projection", tc.name)
			continue
		}
		if x < 0 || x > FrameWidth || y < 0 || y > FrameHeight {
			t.Errorf("%s: projected to (%f,%f), outside the frame", tc.name, x, y)
		}
	}
}

func TestProjectOutsideDomain(t *testing.T) {
	p := NewAlbersUSA()

	cases := []struct {
		name     string
		lng, lat float64
	}{
		{"London", -0.12, 51.50},
		{"Tokyo", 139.69, 35.68},
		{"Mexico City", -99.13, 19.43},
		{"null island", 0, 0},
	}

	for _, tc := range cases {
		if _, _, ok := p.Project(tc.lng, tc.lat); ok {
			t.Errorf("%s: expected out-of-domain rejection", tc.name)
		}
	}
}

func TestProjectRelativeGeometry(t *testing.T) {
	p := NewAlbersUSA()

	// West of the central meridian lands left of east; north lands above south
	wx, _, ok1 := p.Project(-110, 40)
	ex, _, ok2 := p.Project(-80, 40)
	if !ok1 || !ok2 {
		t.Fatalf("expected both reference points in domain")
	}
	if wx >= ex {
		t.Errorf("expected western point left of eastern: %f vs %f", wx, ex)
	}

	_, ny, ok3 := p.Project(-96, 45)
	_, sy, ok4 := p.Project(-96, 30)
	if !ok3 || !ok4 {
		t.Fatalf("expected both reference points in domain")
	}
	if ny >= sy {
		t.Errorf("expected northern point above southern: y %f vs %f", ny, sy)
	}
}

func TestProjectInsetsBelowLower48(t *testing.T) {
	p := NewAlbersUSA()

	_, anchorageY, ok := p.Project(-149.90, 61.22)
	if !ok {
		t.Fatalf("Anchorage out of domain")
	}
	_, honoluluY, ok := p.Project(-157.86, 21.31)
	if !ok {
		t.Fatalf("Honolulu out of domain")
	}
	_, elPasoY, ok := p.Project(-106.49, 31.76)
	if !ok {
		t.Fatalf("El Paso out of domain")
	}

	// Both insets sit in the bottom-left band, below the southern border
	if anchorageY <= elPasoY || honoluluY <= elPasoY {
		t.Errorf("insets not below the lower 48: alaska y=%f hawaii y=%f el paso y=%f",
			anchorageY, honoluluY, elPasoY)
	}
}

func TestProjectDeterministic(t *testing.T) {
	p := NewAlbersUSA()

	x1, y1, _ := p.Project(-89.65, 39.80)
	x2, y2, _ := p.Project(-89.65, 39.80)
	if x1 != x2 || y1 != y2 {
		t.Errorf("projection not deterministic: (%f,%f) vs (%f,%f)", x1, y1, x2, y2)
	}
	if math.IsNaN(x1) || math.IsNaN(y1) {
		t.Errorf("projection produced NaN")
	}
}
