package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// WorldShape selects between a flat cylinder projection and a sphere,
// which changes how bearing and area are computed (§4.1).
type WorldShape string

const (
	ShapeCylinder WorldShape = "Cylinder"
	ShapeSphere   WorldShape = "Sphere"
)

// Bearing returns the clockwise-from-north bearing in [0,360) from a to b,
// using great-circle bearing on a sphere and planar atan2 on a cylinder.
func Bearing(shape WorldShape, a, b orb.Point) float64 {
	var deg float64
	switch shape {
	case ShapeSphere:
		deg = geo.Bearing(a, b)
	default:
		dx := b[0] - a[0]
		dy := b[1] - a[1]
		deg = math.Atan2(dx, dy) * 180 / math.Pi
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Area returns the polygon's area: planar on a cylinder, Chamberlain–Duquette
// spherical area on a sphere.
func Area(shape WorldShape, poly orb.Polygon) float64 {
	switch shape {
	case ShapeSphere:
		return math.Abs(geo.Area(poly))
	default:
		return math.Abs(planar.Area(poly))
	}
}

// BearingDelta returns the smallest absolute difference between two
// bearings, accounting for wraparound at 360.
func BearingDelta(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// WithinArc reports whether bearing b lies within +/-halfWidth degrees of
// the center bearing, used for the 45-degree wind-acceptance cone (§4.3).
func WithinArc(center, b, halfWidth float64) bool {
	return BearingDelta(center, b) <= halfWidth
}
