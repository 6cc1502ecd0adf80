package cropscape

import (
	"errors"

	"github.com/twpayne/go-geom"
)

// ErrOutsideCoverage is returned for points that fall outside the CDL raster extent.
var ErrOutsideCoverage = errors.New("point outside CDL coverage")

// Full extent of the national CDL raster in EPSG:5070 metres.
const (
	conusMinX = -2356095.0
	conusMinY = 276915.0
	conusMaxX = 2258235.0
	conusMaxY = 3172605.0
)

// Coverage is the projected extent in which CropScape has CDL values.
type Coverage struct {
	bounds *geom.Bounds
}

// CONUSCoverage returns the extent of the conterminous United States CDL layer.
func CONUSCoverage() *Coverage {
	return &Coverage{
		bounds: geom.NewBounds(geom.XY).Set(conusMinX, conusMinY, conusMaxX, conusMaxY),
	}
}

// Contains reports whether a projected point lies within the coverage,
// borders included.
func (c *Coverage) Contains(x, y float64) bool {
	return c.bounds.OverlapsPoint(geom.XY, geom.Coord{x, y})
}
