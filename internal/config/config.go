// Package config centralises the viper-bound options shared by every
// stage command, following the teacher's internal/cmd pattern of
// binding cobra flags to viper keys in each command's init().
package config

import (
	"math/rand"

	"github.com/worldforge/atlas/internal/geometry"
)

// Generation holds the parameters stage 1 needs and persists to the
// properties layer for later stages to read back (§6).
type Generation struct {
	Seed        uint64
	Extent      geometry.Extent
	TileCount   int
	WorldShape  geometry.WorldShape
}

// NewRand returns a PRNG seeded directly from seed, so a given seed
// always yields the same sequence of draws (§5).
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(seed)))
}

// TemperatureRange is the polar/equator temperature config for stage 5.
type TemperatureRange struct {
	Polar    float64
	Equator  float64
}

// DefaultTemperatureRange matches the reference implementation's curve fit (§4.3).
var DefaultTemperatureRange = TemperatureRange{Polar: -30, Equator: 27}

// WindsConfig maps a latitude band (whole degrees, the latitude truncated
// toward zero) to a bearing in degrees. Default wind (no entry matches) is 90 (westerly).
type WindsConfig map[int]float64

// DefaultWinds is the westerly-everywhere default from §4.3.
func DefaultWinds() WindsConfig { return WindsConfig{} }

// Lookup returns the configured bearing for a latitude, or the 90-degree
// default when no band matches.
func (w WindsConfig) Lookup(lat float64) float64 {
	band := int(lat)
	if v, ok := w[band]; ok {
		return v
	}
	return 90
}

// PrecipitationConfig scales the whole precipitation stage (§4.3).
type PrecipitationConfig struct {
	Factor float64
}

// DefaultPrecipitation is a neutral multiplier.
var DefaultPrecipitation = PrecipitationConfig{Factor: 1.0}

// RiverConfig gates which flow_to edges (§4.4) are materialized as
// river segments in stage 10.
type RiverConfig struct {
	MinFlow float64
}

// DefaultRivers only draws a river where flow exceeds a small
// threshold, so sheet runoff doesn't produce a river on every tile.
var DefaultRivers = RiverConfig{MinFlow: 10}

// PopulationConfig scales habitability and tile area into a
// population count for stage 12.
type PopulationConfig struct {
	DensityFactor float64
}

// DefaultPopulation yields a modest population per habitability point
// per unit area, tuned only for plausibility.
var DefaultPopulation = PopulationConfig{DensityFactor: 0.01}
