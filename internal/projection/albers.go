package projection

import "math"

// Reference frame the fixed projection renders into. The basemap topology
// asset is pre-projected into this exact frame, so scale and translate
// below must never change independently of the asset.
const (
	FrameWidth  = 975.0
	FrameHeight = 610.0
)

// AlbersUSA is a fixed composite equal-area projection: the continental US
// on an Albers conic, with Alaska and Hawaii insets placed below the
// south-west corner. Scale and translate are frozen so freshly projected
// listing points align pixel-for-pixel with the pre-projected basemap.
type AlbersUSA struct {
	lower48 conic
	alaska  conic
	hawaii  conic
}

// NewAlbersUSA returns the fixed projection configuration
func NewAlbersUSA() *AlbersUSA {
	return &AlbersUSA{
		lower48: newConic(29.5, 45.5, 38.5, -96, 1300, 487.5, 305),
		alaska:  newConic(55, 65, 60, -154, 455, 130, 540),
		hawaii:  newConic(8, 18, 20, -157, 1300, 320, 565),
	}
}

// Project converts (lng, lat) to frame coordinates. Points outside all
// three component domains return ok=false.
func (p *AlbersUSA) Project(lng, lat float64) (x, y float64, ok bool) {
	switch {
	case lat >= 24 && lat <= 50 && lng >= -125 && lng <= -66:
		x, y = p.lower48.project(lng, lat)
	case lat >= 50 && lat <= 72 && lng >= -180 && lng <= -128:
		x, y = p.alaska.project(lng, lat)
	case lat >= 18 && lat <= 24 && lng >= -161 && lng <= -154:
		x, y = p.hawaii.project(lng, lat)
	default:
		return 0, 0, false
	}
	return x, y, true
}

// conic is a single Albers equal-area conic projection with fixed
// scale/translate applied after the spherical projection.
type conic struct {
	n       float64
	c       float64
	rho0    float64
	lambda0 float64 // central meridian, radians
	scale   float64
	tx, ty  float64
}

func newConic(phi1Deg, phi2Deg, phi0Deg, lambda0Deg, scale, tx, ty float64) conic {
	phi1 := phi1Deg * math.Pi / 180
	phi2 := phi2Deg * math.Pi / 180
	phi0 := phi0Deg * math.Pi / 180

	n := (math.Sin(phi1) + math.Sin(phi2)) / 2
	c := math.Cos(phi1)*math.Cos(phi1) + 2*n*math.Sin(phi1)

	return conic{
		n:       n,
		c:       c,
		rho0:    math.Sqrt(c-2*n*math.Sin(phi0)) / n,
		lambda0: lambda0Deg * math.Pi / 180,
		scale:   scale,
		tx:      tx,
		ty:      ty,
	}
}

func (p conic) project(lngDeg, latDeg float64) (float64, float64) {
	lambda := lngDeg*math.Pi/180 - p.lambda0
	phi := latDeg * math.Pi / 180

	rho := math.Sqrt(p.c-2*p.n*math.Sin(phi)) / p.n
	theta := p.n * lambda

	x := rho * math.Sin(theta)
	y := p.rho0 - rho*math.Cos(theta)

	return p.tx + p.scale*x, p.ty - p.scale*y
}
