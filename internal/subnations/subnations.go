// Package subnations implements stage 16: province-level entities
// seeded from a share of a nation's towns, expanded by a
// nation-scoped elevation cost flood, filled out to cover every
// national tile, and finally smoothed by a buddies-vs-adversaries
// normalization pass. Grounded on the reference implementation's
// algorithms/subnations.rs (generate_subnations/expand_subnations/
// subnation_expansion_cost/fill_empty_subnations/normalize_subnations).
package subnations

import (
	"container/heap"
	"math"
	"math/rand"
	"sort"

	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// CultureInfo resolves a culture's namer language and type for
// naming and typing newly-seeded subnations.
type CultureInfo struct {
	Namer string
	Type  worldmap.CultureType
}

type CultureLookup func(c worldmap.CultureID) (CultureInfo, bool)

// Options configures the percentage of a nation's towns that become
// subnation seats, and naming fallbacks.
type Options struct {
	Percentage   float64 // town-to-subnation ratio, e.g. 30 means ~30%
	DefaultNamer string
}

type nationTowns struct {
	tile *worldmap.Tile
	town *worldmap.Town
}

// subnationMaxCost ports subnation_max_cost: a fixed 1000 at 100%
// coverage, otherwise a noisy draw around 20 scaled by the square
// root of the requested percentage.
func subnationMaxCost(rng *rand.Rand, percentage float64) float64 {
	if percentage == 100 {
		return 1000
	}
	v := rng.NormFloat64()*5 + 20
	if v < 5 {
		v = 5
	}
	if v > 100 {
		v = 100
	}
	return v * math.Sqrt(percentage)
}

// Generate seeds one subnation per town for the first Percentage
// share (at least two) of each nation's towns, sorted ascending by a
// population score jittered per the reference implementation's
// Normal(1, 0.2) sort key, so the least populous come first; nations
// with fewer than two towns get none.
func Generate(m *worldmap.TileMap, towns []*worldmap.Town, nations []*worldmap.Nation, namers *naming.NamerSet, lookup CultureLookup, opts Options, rng *rand.Rand, obs progress.Observer) []*worldmap.Subnation {
	byNation := map[worldmap.NationID][]nationTowns{}
	for _, town := range towns {
		t, err := m.Get(town.Tile)
		if err != nil || t.NationID == 0 || town.ID == 0 {
			continue
		}
		byNation[t.NationID] = append(byNation[t.NationID], nationTowns{tile: t, town: town})
	}

	obs.StartKnown("Seeding subnations", len(nations))
	var result []*worldmap.Subnation
	id := worldmap.SubnationID(1)

	for i, nation := range nations {
		list := byNation[nation.ID]
		if len(list) >= 2 {
			count := int(float64(len(list)) * opts.Percentage / 100)
			if count < 2 {
				count = 2
			}
			sort.Slice(list, func(a, b int) bool {
				sa := list[a].town.Population * clampJitter(rng.NormFloat64()*0.2+1)
				sb := list[b].town.Population * clampJitter(rng.NormFloat64()*0.2+1)
				if sa != sb {
					return sa < sb
				}
				return !(list[a].town.ID == nation.Capital) && (list[b].town.ID == nation.Capital)
			})
			if count > len(list) {
				count = len(list)
			}

			for j := 0; j < count; j++ {
				nt := list[j]
				info, _ := lookup(nt.town.Culture)
				var name string
				if rng.Float64() < 0.5 {
					name = nt.town.Name
				} else {
					namerName := info.Namer
					if namerName == "" {
						namerName = opts.DefaultNamer
					}
					if namer, err := namers.Prepare(namerName); err == nil {
						name = namer.MakeStateName(rng)
					}
				}
				ct := info.Type
				if ct == "" {
					ct = worldmap.CultureGeneric
				}
				result = append(result, &worldmap.Subnation{
					ID:      id,
					Name:    name,
					Culture: nt.town.Culture,
					Center:  nt.tile.ID,
					Type:    ct,
					Seat:    nt.town.ID,
					Nation:  nation.ID,
					Color:   nation.Color,
				})
				id++
			}
		}
		obs.Update(i + 1)
	}
	obs.Finish()
	return result
}

func clampJitter(v float64) float64 {
	if v < 0.5 {
		return 0.5
	}
	if v > 1.5 {
		return 1.5
	}
	return v
}

// Expand floods territory outward from each subnation's center tile,
// restricted to its own nation and penalizing elevation, matching
// subnation_expansion_cost exactly.
func Expand(m *worldmap.TileMap, subnations []*worldmap.Subnation, percentage float64, rng *rand.Rand, obs progress.Observer) {
	maxCost := subnationMaxCost(rng, percentage)

	owner := map[worldmap.TileID]int64{}
	bestCost := map[worldmap.TileID]float64{}
	nationOf := map[int64]worldmap.NationID{}

	q := &taskQueue{}
	heap.Init(q)
	for _, s := range subnations {
		owner[s.Center] = int64(s.ID)
		bestCost[s.Center] = 0
		nationOf[int64(s.ID)] = s.Nation
		heap.Push(q, task{tile: s.Center, owner: int64(s.ID), cost: 0})
	}

	obs.StartUnknown("Expanding subnations")
	for q.Len() > 0 {
		item := heap.Pop(q).(task)
		if cur, ok := bestCost[item.tile]; ok && item.cost > cur {
			continue
		}
		t, err := m.Get(item.tile)
		if err != nil {
			continue
		}
		nation := nationOf[item.owner]

		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			nid := worldmap.TileID(n.Neighbor.ID)
			neighbor, err := m.Get(nid)
			if err != nil || neighbor.ShoreDistance < -3 || neighbor.NationID != nation {
				continue
			}

			cost := elevationCost(neighbor)
			total := item.cost + cost
			if total > maxCost {
				continue
			}
			if prev, ok := bestCost[nid]; ok && prev <= total {
				continue
			}
			bestCost[nid] = total
			if !neighbor.Grouping.IsOcean() {
				owner[nid] = item.owner
			}
			heap.Push(q, task{tile: nid, owner: item.owner, cost: total})
		}
	}
	obs.Finish()

	for tid, own := range owner {
		t, err := m.Get(tid)
		if err != nil {
			continue
		}
		t.SubnationID = worldmap.SubnationID(own)
	}
}

func elevationCost(t *worldmap.Tile) float64 {
	switch {
	case t.ElevationScaled >= 70:
		return 100
	case t.ElevationScaled >= 50:
		return 30
	case t.Grouping.IsWater():
		return 100
	default:
		return 10
	}
}
