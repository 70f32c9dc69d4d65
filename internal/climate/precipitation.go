package climate

import (
	"math"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// latitudeModifiers is the 18-band |latitude|/5° lookup table (§4.3),
// read verbatim from the reference implementation's tuning constants.
var latitudeModifiers = [18]float64{
	4.0, 2.0, 2.0, 2.0, 1.0, 1.0, 2.0, 2.0, 2.0, 2.0, 3.0, 3.0, 2.0, 2.0, 1.0, 1.0, 1.0, 0.5,
}

func latBand(lat float64) int {
	band := int(math.Abs(lat) / 5.0)
	if band > 17 {
		band = 17
	}
	return band
}

func latModifier(lat float64) float64 {
	return latitudeModifiers[latBand(lat)]
}

func maxPrecipitation(lat float64) float64 {
	return 120.0 * latModifier(lat)
}

type pending struct {
	tile     worldmap.TileID
	start    worldmap.TileID
	humidity float64
	has      bool
}

// Precipitation traces humidity across the map along each tile's wind
// bearing, depositing precipitation as described in §4.3. It uses a
// seen-set of (start, next) pairs to guarantee termination.
func Precipitation(m *worldmap.TileMap, shape geometry.WorldShape, cfg config.PrecipitationConfig, obs progress.Observer) {
	ids := m.OrderedIDs()
	queue := make([]pending, 0, len(ids))
	for _, id := range ids {
		queue = append(queue, pending{tile: id, start: id})
	}

	seen := map[[2]worldmap.TileID]bool{}
	obs.StartKnown("Tracing winds", len(queue))
	processed := 0

	for len(queue) > 0 {
		n := len(queue) - 1
		item := queue[n]
		queue = queue[:n]

		tile, err := m.Get(item.tile)
		if err != nil {
			continue
		}

		var humidity float64
		if item.has {
			humidity = item.humidity
		} else if tile.Grouping.IsOcean() {
			humidity = cfg.Factor * 5.0 * maxPrecipitation(tile.Site[1])
		} else {
			humidity = cfg.Factor
		}

		if humidity <= 0 {
			processed++
			obs.Update(processed)
			continue
		}

		var recipients []worldmap.NeighborAndBearing
		for _, n := range tile.Neighbors {
			if geometry.WithinArc(tile.Wind, n.Bearing, 45) {
				recipients = append(recipients, n)
			}
		}

		if len(recipients) == 0 {
			tile.Precipitation = math.Min(tile.Precipitation+humidity, maxPrecipitation(tile.Site[1]))
			processed++
			obs.Update(processed)
			continue
		}

		share := humidity / float64(len(recipients))
		for _, n := range recipients {
			var nextID worldmap.TileID
			isOffMap := n.Neighbor.Kind == worldmap.NeighborOffMap
			if !isOffMap {
				nextID = worldmap.TileID(n.Neighbor.ID)
			}
			key := [2]worldmap.TileID{item.start, nextID}
			if !isOffMap {
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			if isOffMap {
				precipitate(tile, nil, share)
				continue
			}

			next, err := m.Get(nextID)
			if err != nil {
				continue
			}
			remaining := precipitate(tile, next, share)
			queue = append(queue, pending{tile: nextID, start: item.start, humidity: remaining, has: true})
		}
		processed++
		obs.Update(processed)
	}
	obs.Finish()
}

// precipitate mutates tile's (and, when present, next's) precipitation
// and returns the humidity that continues on to next, following the
// ocean/coastal/land rules in §4.3.
func precipitate(tile *worldmap.Tile, next *worldmap.Tile, humidity float64) float64 {
	if tile.Temperature < -5 {
		return humidity
	}

	var deposit float64
	if tile.Grouping.IsOcean() {
		switch {
		case next == nil:
			return humidity
		case next.Grouping.IsOcean():
			deposit = 5.0
			humidity = 5.0*latModifier(tile.Site[1]) + humidity
		default:
			next.Precipitation += math.Max(humidity/15.0, 1.0)
			deposit = 0
		}
	} else {
		normalLoss := humidity / (10.0 * latModifier(tile.Site[1]))
		var diff, elevMod float64
		if next != nil {
			diff = math.Max(next.Elevation-tile.Elevation, 0) / 100.0
			elevMod = math.Pow(next.Elevation/700.0, 2)
		} else {
			elevMod = math.Pow(tile.Elevation/700.0, 2)
		}
		precip := math.Min(normalLoss+diff+elevMod, humidity)
		evaporation := 0.0
		if precip > 1.5 {
			evaporation = math.Min(precip, 10.0)
		}
		deposit = precip
		humidity = humidity - precip + evaporation
	}

	tile.Precipitation += deposit
	max := maxPrecipitation(tile.Site[1])
	if tile.Precipitation > max {
		extra := math.Min(tile.Precipitation-max, deposit)
		tile.Precipitation -= extra
		humidity += extra
	}
	return humidity
}
