// Package terrain implements stage 3: the composable recipe engine
// that shapes elevation and ocean/continent grouping (§4.2).
package terrain

import (
	"math"

	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/store"
)

// Params holds the derived constants a recipe run needs: elevation
// scaling factors and the tile-count-tiered blob/line power exponents
// (values come from the original AFMG-derived tuning table).
type Params struct {
	Limits                store.ElevationLimits
	ExpanseAboveSeaLevel   float64
	PositiveElevationScale float64
	NegativeElevationScale float64
	BlobPower              float64
	LinePower              float64
	Extent                 geometry.Extent
}

func NewParams(limits store.ElevationLimits, ext geometry.Extent, tileCount int) Params {
	expanse := limits.Max - math.Max(limits.Min, 0)
	p := Params{
		Limits:               limits,
		ExpanseAboveSeaLevel: expanse,
		BlobPower:            blobPower(tileCount),
		LinePower:            linePower(tileCount),
		Extent:               ext,
	}
	p.PositiveElevationScale = 80.0 / limits.Max
	if limits.Min < 0 {
		p.NegativeElevationScale = 20.0 / math.Abs(limits.Min)
	}
	return p
}

func blobPower(tileCount int) float64 {
	switch {
	case tileCount <= 1001:
		return 0.93
	case tileCount <= 2001:
		return 0.95
	case tileCount <= 5001:
		return 0.97
	case tileCount <= 10001:
		return 0.98
	case tileCount <= 20001:
		return 0.99
	case tileCount <= 30001:
		return 0.991
	case tileCount <= 40001:
		return 0.993
	case tileCount <= 50001:
		return 0.994
	case tileCount <= 60001:
		return 0.995
	case tileCount <= 70001:
		return 0.9955
	case tileCount <= 80001:
		return 0.996
	case tileCount <= 90001:
		return 0.9964
	case tileCount <= 100001:
		return 0.9973
	default:
		return 0.998
	}
}

func linePower(tileCount int) float64 {
	switch {
	case tileCount <= 1001:
		return 0.75
	case tileCount <= 2001:
		return 0.77
	case tileCount <= 5001:
		return 0.79
	case tileCount <= 10001:
		return 0.81
	case tileCount <= 20001:
		return 0.82
	case tileCount <= 30001:
		return 0.83
	case tileCount <= 40001:
		return 0.84
	case tileCount <= 50001:
		return 0.86
	case tileCount <= 60001:
		return 0.87
	case tileCount <= 70001:
		return 0.88
	case tileCount <= 80001:
		return 0.91
	case tileCount <= 90001:
		return 0.92
	case tileCount <= 100001:
		return 0.93
	default:
		return 0.94
	}
}

// ConvertHeight turns a [-100,100] relative height value into an
// absolute elevation, scaling by the positive or negative bound.
func (p Params) ConvertHeight(value float64) float64 {
	switch {
	case value == 100:
		return p.Limits.Max
	case value == -100:
		return p.Limits.Min
	case value >= 0:
		return (value / 100.0) * p.Limits.Max
	case p.Limits.Min < 0:
		return -(value / 100.0) * p.Limits.Min
	default:
		return 0
	}
}

// ConvertHeightFloor and ConvertHeightCeil are ConvertHeight with
// floor/ceil truncation and clamping to the elevation bounds, used for
// filter range endpoints.
func (p Params) ConvertHeightFloor(value float64) float64 {
	return clampF(p.convertTruncated(math.Floor(value)), p.Limits.Min, p.Limits.Max)
}

func (p Params) ConvertHeightCeil(value float64) float64 {
	return clampF(p.convertTruncated(math.Ceil(value)), p.Limits.Min, p.Limits.Max)
}

func (p Params) convertTruncated(value float64) float64 {
	switch {
	case value == 100:
		return p.Limits.Max
	case value == -100:
		return p.Limits.Min
	case value >= 0:
		return (value / 100.0) * p.Limits.Max
	case p.Limits.Min < 0:
		return -(value / 100.0) * p.Limits.Min
	default:
		return 0
	}
}

// SignedHeightDelta converts a signed [-100,100] delta into an
// absolute elevation delta of the same sign, relative to the span
// above sea level (§4.2's "AddHill/AddRange height deltas").
func (p Params) SignedHeightDelta(value float64) float64 {
	abs, sign := math.Abs(value), sign(value)
	return p.ConvertHeight(abs) * sign
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// IsElevationWithin reports whether h lies within limitFraction of the
// world's elevation bounds, used by AddHill's 90%-of-range seed gate.
func (p Params) IsElevationWithin(h, limitFraction float64) bool {
	if h > p.Limits.Max*limitFraction {
		return false
	}
	if p.Limits.Min < 0 {
		return h >= p.Limits.Min*limitFraction
	}
	return h >= p.Limits.Max-(p.ExpanseAboveSeaLevel*limitFraction)
}

func (p Params) ClampElevation(e float64) float64 {
	return clampF(e, p.Limits.Min, p.Limits.Max)
}

// ScaleElevation maps an absolute elevation onto the display range
// [0,100] with sea level at 20, matching the map-rendering convention
// tiles carry in ElevationScaled.
func (p Params) ScaleElevation(e float64) int {
	var v int
	if e >= 0 {
		v = 20 + int(math.Floor(e*p.PositiveElevationScale))
	} else {
		v = 20 - int(math.Floor(math.Abs(e)*p.NegativeElevationScale))
	}
	return int(clampF(float64(v), 0, 100))
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
