package subnations

import "github.com/worldforge/atlas/internal/worldmap"

// Normalize smooths subnation borders by reassigning a tile to its
// "worst adversary" subnation when that adversary dominates the
// tile's neighborhood and the tile's own subnation barely holds it.
// Ports normalize_subnations. Tiles hosting a town are left alone —
// a settlement's subnation never changes underfoot.
func Normalize(m *worldmap.TileMap) {
	type reassignment struct {
		tile worldmap.TileID
		to   worldmap.SubnationID
	}

	var moves []reassignment

	m.Each(func(t *worldmap.Tile) {
		if t.SubnationID == 0 || t.TownID != 0 {
			return
		}

		buddies := 0
		adversaries := map[worldmap.SubnationID]int{}

		for _, n := range t.Neighbors {
			if n.Neighbor.Kind != worldmap.NeighborTile {
				continue
			}
			neighbor, err := m.Get(worldmap.TileID(n.Neighbor.ID))
			if err != nil || neighbor.SubnationID == 0 || neighbor.NationID != t.NationID {
				continue
			}
			if neighbor.SubnationID == t.SubnationID {
				buddies++
			} else {
				adversaries[neighbor.SubnationID]++
			}
		}

		if len(adversaries) == 0 {
			return
		}

		var worst worldmap.SubnationID
		var worstCount int
		for sub, count := range adversaries {
			if count > worstCount {
				worst, worstCount = sub, count
			}
		}

		adversaryCount := 0
		for _, count := range adversaries {
			adversaryCount += count
		}

		if adversaryCount >= 2 && buddies <= 2 && len(adversaries) >= buddies && worstCount > buddies {
			moves = append(moves, reassignment{tile: t.ID, to: worst})
		}
	})

	for _, mv := range moves {
		t, err := m.Get(mv.tile)
		if err != nil {
			continue
		}
		t.SubnationID = mv.to
	}
}
