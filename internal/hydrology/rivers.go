package hydrology

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/worldmap"
)

// DeriveRivers turns the flow_to graph RouteFlow/FillLakes left on the
// tiles into a river network: one segment per qualifying downstream
// edge, typed by branch/confluence/source/mouth role (§4.4 stage 10).
func DeriveRivers(m *worldmap.TileMap, cfg config.RiverConfig, obs progress.Observer) []worldmap.RiverSegment {
	ids := m.OrderedIDs()
	qualifies := map[worldmap.TileID]bool{}
	for _, id := range ids {
		t, err := m.Get(id)
		if err != nil {
			continue
		}
		qualifies[id] = t.WaterFlow >= cfg.MinFlow
	}

	outDegree := map[worldmap.TileID]int{}
	inDegree := map[worldmap.TileID]int{}
	for _, id := range ids {
		if !qualifies[id] {
			continue
		}
		t, _ := m.Get(id)
		for _, to := range t.FlowTo {
			outDegree[id]++
			inDegree[to]++
		}
	}

	obs.StartKnown("Deriving rivers", len(ids))
	var segments []worldmap.RiverSegment
	for i, id := range ids {
		obs.Update(i + 1)
		if !qualifies[id] {
			continue
		}
		t, err := m.Get(id)
		if err != nil {
			continue
		}

		downstream := make([]worldmap.TileID, 0, len(t.FlowTo))
		for _, to := range t.FlowTo {
			downstream = append(downstream, to)
		}
		sort.Slice(downstream, func(a, b int) bool { return downstream[a] < downstream[b] })
		t.Rivers = downstream

		for _, to := range downstream {
			next, err := m.Get(to)
			if err != nil {
				continue
			}
			seg := worldmap.RiverSegment{
				FromTile: id,
				ToTile:   to,
				FromType: fromType(t, inDegree[id], outDegree[id]),
				ToType:   toType(next, inDegree[to], outDegree[to]),
				Flows:    t.WaterFlow,
				Line:     orb.LineString{t.Site, next.Site},
			}
			segments = append(segments, seg)
		}
	}
	obs.Finish()
	return segments
}

func fromType(t *worldmap.Tile, in, out int) worldmap.RiverNodeKind {
	switch {
	case t.HasLake():
		return worldmap.RiverFromLake
	case in == 0:
		return worldmap.RiverFromSource
	case out > 1 && in > 1:
		return worldmap.RiverFromBranchingConfluence
	case out > 1:
		return worldmap.RiverFromBranch
	case in > 1:
		return worldmap.RiverFromConfluence
	default:
		return worldmap.RiverFromContinuing
	}
}

func toType(t *worldmap.Tile, in, out int) worldmap.RiverNodeKind {
	switch {
	case out == 0:
		return worldmap.RiverToMouth
	case out > 1 && in > 1:
		return worldmap.RiverToBranchingConfluence
	case out > 1:
		return worldmap.RiverToBranch
	case in > 1:
		return worldmap.RiverToConfluence
	default:
		return worldmap.RiverToContinuing
	}
}
