package climate

import (
	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// Winds assigns each tile's prevailing wind bearing from a
// latitude-band lookup, with no spatial coupling between tiles.
func Winds(m *worldmap.TileMap, w config.WindsConfig, obs progress.Observer) {
	obs.StartKnown("Computing winds", m.Len())
	i := 0
	m.Each(func(t *worldmap.Tile) {
		t.Wind = w.Lookup(t.Site[1])
		i++
		obs.Update(i)
	})
	obs.Finish()
}
