package cropscape

// WGS-84 → CONUS Albers Equal Area (EPSG:5070), metres. CDL rasters are
// published in this CRS and GetCDLValue takes x/y in it. The NAD83/WGS-84
// datum shift is well under one 30 m CDL pixel and is ignored.

import "math"

const (
	albersLat0Deg = 23.0  // latitude of origin
	albersLat1Deg = 29.5  // standard parallel 1
	albersLat2Deg = 45.5  // standard parallel 2
	albersLon0Deg = -96.0 // central meridian

	grs80A = 6378137.0
	grs80F = 1 / 298.257222101
)

var albers = newAlbersProjection()

type albersProjection struct {
	e, e2 float64
	n     float64
	c     float64
	rho0  float64
	lon0  float64
}

func newAlbersProjection() albersProjection {
	p := albersProjection{e2: 2*grs80F - grs80F*grs80F}
	p.e = math.Sqrt(p.e2)
	p.lon0 = albersLon0Deg * math.Pi / 180

	phi0 := albersLat0Deg * math.Pi / 180
	phi1 := albersLat1Deg * math.Pi / 180
	phi2 := albersLat2Deg * math.Pi / 180

	m1 := p.m(phi1)
	m2 := p.m(phi2)
	q1 := p.q(phi1)
	q2 := p.q(phi2)

	p.n = (m1*m1 - m2*m2) / (q2 - q1)
	p.c = m1*m1 + p.n*q1
	p.rho0 = grs80A * math.Sqrt(p.c-p.n*p.q(phi0)) / p.n
	return p
}

func (p albersProjection) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e2*s*s)
}

func (p albersProjection) q(phi float64) float64 {
	s := math.Sin(phi)
	return (1 - p.e2) * (s/(1-p.e2*s*s) - (1/(2*p.e))*math.Log((1-p.e*s)/(1+p.e*s)))
}

// toAlbers projects decimal-degree latitude/longitude to EPSG:5070 easting and
// northing in metres.
func toAlbers(latDeg, lngDeg float64) (x, y float64) {
	p := albers
	phi := latDeg * math.Pi / 180
	lambda := lngDeg * math.Pi / 180

	rho := grs80A * math.Sqrt(p.c-p.n*p.q(phi)) / p.n
	theta := p.n * (lambda - p.lon0)

	x = rho * math.Sin(theta)
	y = p.rho0 - rho*math.Cos(theta)
	return x, y
}
