package expansion

import (
	"container/heap"

	"github.com/worldforge/atlas/internal/worldmap"
)

// Seed is one expansion source: a culture center, a nation's capital
// tile, or a subnation's seat.
type Seed struct {
	Owner        int64
	Tile         worldmap.TileID
	Type         worldmap.CultureType
	Expansionism float64
	NativeBiome  string
	Culture      worldmap.CultureID // nation/subnation owning culture, for CultureAffinity
}

// Options toggles the nation-only population cost term and sets the
// per-domain flat step and river threshold.
type Options struct {
	RiverThreshold  float64
	PopulationCost  bool
	CultureAffinity bool // nation expansion: -9 cost into the capital's own culture, 100 otherwise
	TileCount       int
	LimitFactor     float64
	FlatStepBase    float64 // flat per-hop cost added after the other terms are divided by expansionism; 10 in the reference
}

type heapItem struct {
	tile  worldmap.TileID
	owner int64
	cost  float64
}

type costHeap []heapItem

func (h costHeap) Len() int            { return len(h) }
func (h costHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h costHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *costHeap) Push(x any)         { *h = append(*h, x.(heapItem)) }
func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Result is the owner assigned to each claimed tile and the maximum
// expansion cost that bounded the search.
type Result struct {
	Owner    map[worldmap.TileID]int64
	MaxCost  float64
}

// Expand runs the multi-source Dijkstra flood: every seed enters the
// heap at cost 0, and each popped (tile, owner) offers its neighbors a
// candidate cost computed from biome, height, river, shore (and,
// for nations, population) terms, divided by the owner's
// expansionism, plus the flat per-hop step. A neighbor is (re)claimed when the new cost is lower
// than any previously recorded cost. The search stops expanding a
// branch once its cost exceeds max_expansion_cost (§4.5).
func Expand(m *worldmap.TileMap, seeds []Seed, biomes map[worldmap.BiomeID]*worldmap.Biome, opts Options) Result {
	maxCost := opts.LimitFactor * float64(opts.TileCount)
	if opts.PopulationCost {
		maxCost /= 2
	} else {
		maxCost *= 0.6
	}

	owner := map[worldmap.TileID]int64{}
	bestCost := map[worldmap.TileID]float64{}
	seedByOwner := map[int64]Seed{}
	flat := opts.FlatStepBase
	if flat == 0 {
		flat = 10
	}

	h := &costHeap{}
	heap.Init(h)
	for _, s := range seeds {
		seedByOwner[s.Owner] = s
		owner[s.Tile] = s.Owner
		bestCost[s.Tile] = 0
		heap.Push(h, heapItem{tile: s.Tile, owner: s.Owner, cost: 0})
	}

	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		if cur, ok := bestCost[item.tile]; ok && item.cost > cur {
			continue // stale entry, a cheaper path already claimed this tile
		}
		seed := seedByOwner[item.owner]
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
			if err != nil {
				continue
			}

			cost := stepCost(seed, neighbor, biomes, opts)
			total := item.cost + flat + cost
			if total > maxCost {
				continue
			}
			if prev, ok := bestCost[nid]; ok && prev <= total {
				continue
			}
			bestCost[nid] = total
			owner[nid] = item.owner
			heap.Push(h, heapItem{tile: nid, owner: item.owner, cost: total})
		}
	}

	return Result{Owner: owner, MaxCost: maxCost}
}

func stepCost(seed Seed, neighbor *worldmap.Tile, biomes map[worldmap.BiomeID]*worldmap.Biome, opts Options) float64 {
	sum := biomeCost(seed.NativeBiome, biomes[neighbor.Biome], seed.Type)
	sum += heightCost(neighbor, seed.Type)
	sum += riverCost(neighbor, opts.RiverThreshold, seed.Type)
	sum += shoreCost(neighbor, seed.Type)
	if opts.PopulationCost {
		sum += populationCost(neighbor)
	}
	if opts.CultureAffinity {
		sum += cultureCost(seed.Culture, neighbor.Culture)
	}
	if sum < 0 {
		sum = 0
	}
	if seed.Expansionism <= 0 {
		return sum
	}
	return sum / seed.Expansionism
}
