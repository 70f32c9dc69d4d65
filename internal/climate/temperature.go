// Package climate implements stages 5-7: temperature, winds, and
// precipitation (§4.3). Each writes its own tile field; precipitation
// also reads the wind bearing the winds stage writes, so winds must
// run before it.
package climate

import (
	"math"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

const metersPerElevationKm = 1000.0

// Temperatures assigns each tile a temperature from the polar/equator
// parabolic fit, then applies adiabatic cooling on land.
func Temperatures(m *worldmap.TileMap, r config.TemperatureRange, obs progress.Observer) {
	obs.StartKnown("Computing temperatures", m.Len())
	a := (r.Polar - r.Equator) / 8100.0
	i := 0
	m.Each(func(t *worldmap.Tile) {
		base := a*t.Site[1]*t.Site[1] + r.Equator
		if !t.Grouping.IsOcean() {
			base -= 6.5 * (t.Elevation / metersPerElevationKm)
		}
		t.Temperature = math.Round(base*100) / 100
		i++
		obs.Update(i)
	})
	obs.Finish()
}
