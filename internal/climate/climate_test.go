package climate

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

func TestTemperaturesFollowsPolarEquatorCurveWithAdiabaticLapse(t *testing.T) {
	equator := &worldmap.Tile{ID: 1, Site: orb.Point{0, 0}, Grouping: worldmap.GroupingContinent}
	pole := &worldmap.Tile{ID: 2, Site: orb.Point{0, 90}, Grouping: worldmap.GroupingContinent}
	highland := &worldmap.Tile{ID: 3, Site: orb.Point{0, 0}, Grouping: worldmap.GroupingContinent, Elevation: 2000}
	ocean := &worldmap.Tile{ID: 4, Site: orb.Point{0, 0}, Grouping: worldmap.GroupingOcean, Elevation: 5000}
	m := worldmap.NewTileMap([]*worldmap.Tile{equator, pole, highland, ocean})

	r := config.TemperatureRange{Polar: -30, Equator: 30}
	Temperatures(m, r, progress.Noop{})

	equator, _ = m.Get(1)
	if equator.Temperature != 30 {
		t.Errorf("equator temperature = %v, want 30", equator.Temperature)
	}
	pole, _ = m.Get(2)
	if pole.Temperature != -30 {
		t.Errorf("pole temperature = %v, want -30", pole.Temperature)
	}
	highland, _ = m.Get(3)
	if highland.Temperature != 17 {
		t.Errorf("highland temperature = %v, want 17 (30 equator minus 6.5*2km lapse)", highland.Temperature)
	}
	ocean, _ = m.Get(4)
	if ocean.Temperature != 30 {
		t.Errorf("ocean temperature = %v, want 30 (elevation ignored over water)", ocean.Temperature)
	}
}

func TestWindsLooksUpBearingByTruncatedLatitudeBand(t *testing.T) {
	banded := &worldmap.Tile{ID: 1, Site: orb.Point{0, 30.5}}
	unbanded := &worldmap.Tile{ID: 2, Site: orb.Point{0, 10}}
	m := worldmap.NewTileMap([]*worldmap.Tile{banded, unbanded})

	Winds(m, config.WindsConfig{30: 45}, progress.Noop{})

	banded, _ = m.Get(1)
	if banded.Wind != 45 {
		t.Errorf("banded tile wind = %v, want 45", banded.Wind)
	}
	unbanded, _ = m.Get(2)
	if unbanded.Wind != 90 {
		t.Errorf("unbanded tile wind = %v, want the 90-degree default", unbanded.Wind)
	}
}

// coastRow builds a west-to-east row of n tiles at a fixed latitude:
// tile 0 is ocean, the rest are flat land, each wired to its east/west
// neighbor only (no wraparound).
func coastRow(n int, lat float64) *worldmap.TileMap {
	tiles := make([]*worldmap.Tile, n)
	for i := 0; i < n; i++ {
		t := &worldmap.Tile{
			ID:          worldmap.TileID(i + 1),
			Site:        orb.Point{float64(i), lat},
			Temperature: 20,
		}
		if i == 0 {
			t.Grouping = worldmap.GroupingOcean
			t.Elevation = -50
		} else {
			t.Grouping = worldmap.GroupingContinent
			t.Elevation = 100
		}
		tiles[i] = t
	}
	for i, t := range tiles {
		if i > 0 {
			t.Neighbors = append(t.Neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(tiles[i-1].ID), Bearing: 270})
		}
		if i < n-1 {
			t.Neighbors = append(t.Neighbors, worldmap.NeighborAndBearing{Neighbor: worldmap.TileNeighbor(tiles[i+1].ID), Bearing: 90})
		}
	}
	return worldmap.NewTileMap(tiles)
}

// TestPrecipitationCapEnforcesMaxPerBand is E2E scenario #4
// ("Precipitation cap", §8): under uniform westerly winds blowing
// inland from a single ocean column, the easternmost land tile's
// accumulated precipitation must never exceed max_precipitation for
// its latitude band.
func TestPrecipitationCapEnforcesMaxPerBand(t *testing.T) {
	const lat = 0.0
	m := coastRow(6, lat)
	Winds(m, config.DefaultWinds(), progress.Noop{})
	Precipitation(m, geometry.ShapeCylinder, config.DefaultPrecipitation, progress.Noop{})

	bandCap := maxPrecipitation(lat)
	last, err := m.Get(6)
	if err != nil {
		t.Fatalf("Get(6): %v", err)
	}
	if last.Precipitation <= 0 {
		t.Fatalf("expected the easternmost land tile to receive some precipitation, got %v", last.Precipitation)
	}
	if last.Precipitation > bandCap {
		t.Errorf("easternmost land tile precipitation = %v, exceeds max_precipitation %v for its band", last.Precipitation, bandCap)
	}

	m.Each(func(tile *worldmap.Tile) {
		if c := maxPrecipitation(tile.Site[1]); tile.Precipitation > c {
			t.Errorf("tile %d precipitation = %v, exceeds max_precipitation %v", tile.ID, tile.Precipitation, c)
		}
	})
}
