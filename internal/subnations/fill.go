package subnations

import (
	"container/heap"
	"math/rand"
	"sort"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// FillEmpty seeds a new subnation on the highest-population
// still-unassigned tile of every nation, then grows each outward with
// a flat per-hop cost (no elevation term), repeating until every tile
// that belongs to a nation also belongs to a subnation. Ports
// fill_empty_subnations.
func FillEmpty(m *worldmap.TileMap, nations []*worldmap.Nation, towns []*worldmap.Town, namers *naming.NamerSet, lookup CultureLookup, opts Options, rng *rand.Rand, obs progress.Observer) []*worldmap.Subnation {
	maxCost := subnationMaxCost(rng, opts.Percentage)

	townByID := make(map[worldmap.TownID]*worldmap.Town, len(towns))
	for _, t := range towns {
		townByID[t.ID] = t
	}

	byNation := map[worldmap.NationID][]*worldmap.Tile{}
	m.Each(func(t *worldmap.Tile) {
		if t.NationID != 0 && t.SubnationID == 0 {
			byNation[t.NationID] = append(byNation[t.NationID], t)
		}
	})

	nextID := nextSubnationID(m)
	var created []*worldmap.Subnation

	obs.StartUnknown("Filling empty subnation gaps")
	for _, nation := range nations {
		pool := byNation[nation.ID]
		if len(pool) == 0 {
			continue
		}
		sort.Slice(pool, func(i, j int) bool { return pool[i].Population > pool[j].Population })

		assigned := map[worldmap.TileID]bool{}
		for _, seedTile := range pool {
			if assigned[seedTile.ID] || seedTile.SubnationID != 0 {
				continue
			}

			sub := &worldmap.Subnation{
				ID:      nextID,
				Culture: seedTile.Culture,
				Center:  seedTile.ID,
				Nation:  nation.ID,
				Color:   nation.Color,
			}
			if info, ok := lookup(seedTile.Culture); ok {
				sub.Type = info.Type
			}
			if sub.Type == "" {
				sub.Type = worldmap.CultureGeneric
			}

			var bestSeat worldmap.TownID
			var bestPop float64 = -1

			costs := map[worldmap.TileID]float64{seedTile.ID: 0}
			q := &taskQueue{}
			heap.Init(q)
			heap.Push(q, task{tile: seedTile.ID, owner: int64(sub.ID), cost: 0})
			assigned[seedTile.ID] = true
			seedTile.SubnationID = sub.ID

			if seedTile.TownID != 0 {
				bestSeat = seedTile.TownID
				bestPop = seedTile.Population
			}

			for q.Len() > 0 {
				item := heap.Pop(q).(task)
				t, err := m.Get(item.tile)
				if err != nil {
					continue
				}

				for _, n := range t.Neighbors {
					if n.Neighbor.Kind != worldmap.NeighborTile {
						continue
					}
					nid := worldmap.TileID(n.Neighbor.ID)
					neighbor, err := m.Get(nid)
					if err != nil || neighbor.SubnationID != 0 || neighbor.ShoreDistance < -3 || neighbor.NationID != nation.ID {
						continue
					}

					total := item.cost + 10
					if total > maxCost {
						continue
					}
					if prev, ok := costs[nid]; ok && prev <= total {
						continue
					}
					costs[nid] = total
					if !neighbor.Grouping.IsOcean() {
						assigned[nid] = true
						neighbor.SubnationID = sub.ID
						if neighbor.TownID != 0 && neighbor.Population > bestPop {
							bestSeat = neighbor.TownID
							bestPop = neighbor.Population
						}
					}
					heap.Push(q, task{tile: nid, owner: item.owner, cost: total})
				}
			}

			sub.Seat = bestSeat

			var seatName string
			if seat, ok := townByID[bestSeat]; ok {
				seatName = seat.Name
			}

			name := seatName
			if seatName == "" || rng.Float64() >= 0.5 {
				if namerName := namerFor(sub.Culture, lookup, opts.DefaultNamer); namerName != "" {
					if namer, err := namers.Prepare(namerName); err == nil {
						name = namer.MakeStateName(rng)
					}
				}
			}
			sub.Name = name

			created = append(created, sub)
			nextID++
		}
	}
	obs.Finish()
	return created
}

func namerFor(c worldmap.CultureID, lookup CultureLookup, fallback string) string {
	if info, ok := lookup(c); ok && info.Namer != "" {
		return info.Namer
	}
	return fallback
}

func nextSubnationID(m *worldmap.TileMap) worldmap.SubnationID {
	var max worldmap.SubnationID
	m.Each(func(t *worldmap.Tile) {
		if t.SubnationID > max {
			max = t.SubnationID
		}
	})
	return max + 1
}
