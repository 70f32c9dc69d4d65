package hydrology

import (
	"math"
	"sort"

	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// FillLakes consumes the accumulation RouteFlow left pooled on
// low-points and grows lakes at those basins, merging, draining, and
// typing them per §4.4. It must run after RouteFlow in the same
// stage transaction.
func FillLakes(m *worldmap.TileMap, lakes *worldmap.LakeIndex, obs progress.Observer) {
	q := newTaskQueue()
	for _, id := range m.OrderedIDs() {
		t, err := m.Get(id)
		if err != nil || t.WaterAccumulation <= 0 || t.Grouping.IsOcean() {
			continue
		}
		q.push(task{tile: id, accumulation: t.WaterAccumulation})
		t.WaterAccumulation = 0
	}

	obs.StartKnown("Filling lakes", q.Len())
	processed := 0
	for q.Len() > 0 {
		processed++
		obs.Update(processed)
		item := q.pop()
		t, err := m.Get(item.tile)
		if err != nil || t.Grouping.IsOcean() {
			continue
		}

		if t.HasLake() {
			lake, err := lakes.Get(t.LakeID)
			if err != nil {
				continue
			}
			if len(lake.Outlets) > 0 {
				drainOutlets(lake, item.accumulation, q)
				continue
			}
			raiseLake(m, lakes, lake, item.accumulation, q)
			continue
		}

		if len(t.FlowTo) > 0 {
			t.WaterFlow += item.accumulation
			share := item.accumulation / float64(len(t.FlowTo))
			for _, id := range t.FlowTo {
				q.push(task{tile: id, accumulation: share})
			}
			continue
		}

		lake := lakes.New(t.Elevation, lowestNeighborElevation(m, t))
		lake.ContainedTiles[t.ID] = true
		lake.Temperatures[t.ID] = t.Temperature
		t.LakeID = lake.ID
		t.Grouping = worldmap.GroupingLake
		raiseLake(m, lakes, lake, item.accumulation, q)
	}
	obs.Finish()

	for _, id := range lakes.IDs() {
		lake, _ := lakes.Get(id)
		typeLake(m, lake)
	}
}

// drainOutlets splits accumulation equally across a lake's existing
// outlets and enqueues each, bypassing the basin entirely.
func drainOutlets(lake *worldmap.Lake, accumulation float64, q *taskQueue) {
	lake.Flow += accumulation
	share := accumulation / float64(len(lake.Outlets))
	for _, o := range lake.Outlets {
		q.push(task{tile: o.Outside, accumulation: share})
	}
}

// raiseLake raises a basin's water level by the incoming accumulation
// divided over its contained tile count, subtracts Penman-like
// evaporation, and clamps the level so it never drops below its prior
// value or above spillover. Any accumulation left after hitting
// spillover grows the lake outward.
func raiseLake(m *worldmap.TileMap, lakes *worldmap.LakeIndex, lake *worldmap.Lake, accumulation float64, q *taskQueue) {
	count := float64(len(lake.ContainedTiles))
	if count == 0 {
		count = 1
	}
	lake.Flow += accumulation

	raised := lake.Elevation + accumulation/count
	if raised > lake.SpilloverElev {
		raised = lake.SpilloverElev
	}
	evap := evaporation(lake, raised, count)
	lake.Evaporation += evap
	raised -= evap
	if raised < lake.Elevation {
		raised = lake.Elevation
	}

	consumed := (raised - lake.Elevation) * count
	lake.Elevation = raised
	remaining := accumulation - consumed
	if remaining <= 0 {
		return
	}
	growLake(m, lakes, lake, remaining, q)
}

// evaporation approximates Penman evapotranspiration scaled by basin
// size: ((700*(T+0.006*elev))/50+75) / (80-T) per contained tile.
func evaporation(lake *worldmap.Lake, elevation, count float64) float64 {
	t := lake.AvgTemperature
	denom := 80.0 - t
	if denom == 0 {
		denom = 0.0001
	}
	per := ((700.0*(t+0.006*elevation))/50.0 + 75.0) / denom
	return per * count
}

// growLake simulates raising the basin's water level in 0.001
// increments, walking outward from the shoreline to discover newly
// submerged tiles, new outlets, and lakes to merge, until the
// incoming accumulation is absorbed or the frontier runs dry.
func growLake(m *worldmap.TileMap, lakes *worldmap.LakeIndex, lake *worldmap.Lake, remaining float64, q *taskQueue) {
	frontier := shorelineFrontier(m, lake)
	lake.Shoreline = nil

	for remaining > 0 && len(frontier) > 0 {
		testLevel := lake.Elevation + 0.001
		var next []worldmap.ShoreEdge
		var newOutlets []worldmap.OutletEdge

		for _, edge := range frontier {
			cand, err := m.Get(edge.Shore)
			if err != nil {
				continue
			}
			switch {
			case cand.Grouping.IsOcean():
				newOutlets = append(newOutlets, worldmap.OutletEdge{Inside: edge.Sponsor, Outside: edge.Shore})

			case cand.HasLake() && cand.LakeID != lake.ID:
				other, err := lakes.Get(cand.LakeID)
				if err != nil {
					next = append(next, edge)
					continue
				}
				switch {
				case other.Elevation > lake.Elevation && other.Elevation < testLevel:
					mergeLakes(m, lake, other)
					lakes.Delete(other.ID)
				case other.Elevation < lake.Elevation:
					newOutlets = append(newOutlets, worldmap.OutletEdge{Inside: edge.Sponsor, Outside: edge.Shore})
				default:
					next = append(next, edge)
				}

			case cand.Elevation > testLevel:
				if cand.Elevation < lake.SpilloverElev {
					lake.SpilloverElev = cand.Elevation
				}
				lake.Shoreline = append(lake.Shoreline, edge)

			case cand.Elevation < lake.Elevation:
				newOutlets = append(newOutlets, worldmap.OutletEdge{Inside: edge.Sponsor, Outside: edge.Shore})

			default:
				lake.ContainedTiles[cand.ID] = true
				lake.Temperatures[cand.ID] = cand.Temperature
				cand.LakeID = lake.ID
				cand.Grouping = worldmap.GroupingLake
				for _, n := range cand.Neighbors {
					if n.Neighbor.Kind != worldmap.NeighborTile {
						continue
					}
					nid := worldmap.TileID(n.Neighbor.ID)
					if !lake.ContainedTiles[nid] {
						next = append(next, worldmap.ShoreEdge{Sponsor: cand.ID, Shore: nid})
					}
				}
			}
		}

		lake.Elevation = testLevel
		if len(newOutlets) > 0 {
			lake.Outlets = append(lake.Outlets, newOutlets...)
			drainOutlets(lake, remaining, q)
			return
		}
		frontier = next
	}
}

// mergeLakes absorbs other's contained tiles, temperatures, and
// shoreline into lake, repointing every absorbed tile's LakeID.
func mergeLakes(m *worldmap.TileMap, lake, other *worldmap.Lake) {
	for id := range other.ContainedTiles {
		lake.ContainedTiles[id] = true
		if t, err := m.Get(id); err == nil {
			t.LakeID = lake.ID
		}
	}
	for id, temp := range other.Temperatures {
		lake.Temperatures[id] = temp
	}
	lake.Shoreline = append(lake.Shoreline, other.Shoreline...)
	if other.SpilloverElev < lake.SpilloverElev {
		lake.SpilloverElev = other.SpilloverElev
	}
	if other.Elevation > lake.Elevation {
		lake.Elevation = other.Elevation
	}
	lake.Flow += other.Flow
}

// shorelineFrontier returns one shore edge per (contained tile,
// uncontained neighbor) pair, the starting candidate set for growLake.
func shorelineFrontier(m *worldmap.TileMap, lake *worldmap.Lake) []worldmap.ShoreEdge {
	ids := make([]worldmap.TileID, 0, len(lake.ContainedTiles))
	for id := range lake.ContainedTiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []worldmap.ShoreEdge
	for _, id := range ids {
		t, err := m.Get(id)
		if err != nil {
			continue
		}
		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			nid := worldmap.TileID(n.Neighbor.ID)
			if !lake.ContainedTiles[nid] {
				out = append(out, worldmap.ShoreEdge{Sponsor: id, Shore: nid})
			}
		}
	}
	return out
}

// lowestNeighborElevation returns the minimum elevation among t's
// tile neighbors, the initial spillover level for a freshly seeded lake.
func lowestNeighborElevation(m *worldmap.TileMap, t *worldmap.Tile) float64 {
	lowest := math.Inf(1)
	for _, n := range t.Neighbors {
		if n.Neighbor.Kind != worldmap.NeighborTile {
			continue
		}
		other, err := m.Get(worldmap.TileID(n.Neighbor.ID))
		if err != nil {
			continue
		}
		if other.Elevation < lowest {
			lowest = other.Elevation
		}
	}
	if math.IsInf(lowest, 1) {
		return t.Elevation
	}
	return lowest
}

// typeLake classifies a lake by temperature, outlet presence, and
// whether it has ever held water above its floor (§4.4).
func typeLake(m *worldmap.TileMap, lake *worldmap.Lake) {
	count := 0
	sum := 0.0
	for _, temp := range lake.Temperatures {
		sum += temp
		count++
	}
	if count > 0 {
		lake.AvgTemperature = sum / float64(count)
	}
	lake.Size = float64(len(lake.ContainedTiles))

	switch {
	case lake.AvgTemperature < -3:
		lake.Type = worldmap.LakeFrozen
	case len(lake.Outlets) == 0 && lake.Evaporation > 4*perTileFlow(lake):
		lake.Type = worldmap.LakeDry
	case len(lake.Outlets) == 0 && lake.BottomElevation == lake.Elevation:
		lake.Type = worldmap.LakePluvial
	case len(lake.Outlets) == 0:
		lake.Type = worldmap.LakeSalt
	case lake.BottomElevation == lake.Elevation:
		lake.Type = worldmap.LakeMarsh
	default:
		lake.Type = worldmap.LakeFresh
	}
}

func perTileFlow(lake *worldmap.Lake) float64 {
	if len(lake.ContainedTiles) == 0 {
		return 0
	}
	return lake.Flow / float64(len(lake.ContainedTiles))
}
