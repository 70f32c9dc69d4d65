// Package raster provides the Raster sampling collaborator recipe
// primitives like SampleElevation read from (§6's external interface
// boundary): anything that can answer "what value lives at this
// lon/lat" can drive terrain shaping.
package raster

import (
	"math"

	"github.com/aquilax/go-perlin"
)

// Raster samples a scalar field at a geographic coordinate.
type Raster interface {
	Sample(lon, lat float64) float64
}

// PerlinSource is a Raster backed by layered Perlin noise, used by
// genesis recipes that want organic-looking elevation without an
// external heightmap file.
type PerlinSource struct {
	p     *perlin.Perlin
	scale float64
}

// NewPerlinSource builds a deterministic noise field. scale controls
// feature size: larger values produce broader, smoother terrain.
func NewPerlinSource(seed int64, scale float64) *PerlinSource {
	return &PerlinSource{
		p:     perlin.NewPerlin(2.0, 2.0, 3, seed),
		scale: scale,
	}
}

// Sample returns a value in [-1, 1].
func (s *PerlinSource) Sample(lon, lat float64) float64 {
	return s.p.Noise2D(lon/s.scale, lat/s.scale)
}

// SampleUnit returns a value in [0, 1], useful for threshold-style
// primitives (SampleOceanBelow, SampleOceanMasked).
func (s *PerlinSource) SampleUnit(lon, lat float64) float64 {
	v := s.Sample(lon, lat)
	return math.Max(0, math.Min(1, (v+1)/2))
}
