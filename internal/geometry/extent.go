// Package geometry holds the coordinate-system concerns shared across
// every stage: the map extent, world shape (cylinder vs sphere),
// bearing and area computation, and a nearest-site index.
package geometry

import "github.com/paulmach/orb"

// Extent is the map's bounding box in degrees (EPSG:4326).
type Extent struct {
	West, South, East, North float64
}

// Width returns the extent's longitude span in degrees.
func (e Extent) Width() float64 { return e.East - e.West }

// Height returns the extent's latitude span in degrees.
func (e Extent) Height() float64 { return e.North - e.South }

// Bound converts the extent to an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.West, e.South}, Max: orb.Point{e.East, e.North}}
}

// Contains reports whether a point lies within the extent (inclusive).
func (e Extent) Contains(p orb.Point) bool {
	return p[0] >= e.West && p[0] <= e.East && p[1] >= e.South && p[1] <= e.North
}

// WrapsMeridian reports whether the extent spans the full -180..180 range,
// which is when antimeridian wrapping applies (§4.1).
func (e Extent) WrapsMeridian() bool {
	return e.West <= -179.999999 && e.East >= 179.999999
}
