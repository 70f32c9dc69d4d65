package worldmap

import (
	"sort"

	"github.com/worldforge/atlas/internal/atlaserr"
)

// TileMap is the in-memory index a stage builds at its start and
// discards at its end (§5: "Reads within a stage use in-memory
// indices built at the stage's start").
type TileMap struct {
	tiles map[TileID]*Tile
	order []TileID // ids in ascending order, fixed once at construction
}

// NewTileMap builds an index over tiles, recording a stable ascending
// id order for deterministic iteration.
func NewTileMap(tiles []*Tile) *TileMap {
	m := &TileMap{tiles: make(map[TileID]*Tile, len(tiles))}
	for _, t := range tiles {
		m.tiles[t.ID] = t
	}
	m.order = make([]TileID, 0, len(tiles))
	for id := range m.tiles {
		m.order = append(m.order, id)
	}
	sort.Slice(m.order, func(i, j int) bool { return m.order[i] < m.order[j] })
	return m
}

// Get returns the tile by id, or an error if it does not exist.
func (m *TileMap) Get(id TileID) (*Tile, error) {
	t, ok := m.tiles[id]
	if !ok {
		return nil, atlaserr.MissingReference("worldmap", "tile %d does not exist", id)
	}
	return t, nil
}

// Len returns the number of tiles in the map.
func (m *TileMap) Len() int { return len(m.tiles) }

// OrderedIDs returns tile ids in fixed ascending order, the iteration
// order every deterministic stage must use (§5).
func (m *TileMap) OrderedIDs() []TileID { return m.order }

// Each calls fn for every tile in ascending id order.
func (m *TileMap) Each(fn func(*Tile)) {
	for _, id := range m.order {
		fn(m.tiles[id])
	}
}

// Slice returns every tile in ascending id order. Callers must not
// retain the slice across a stage boundary; the map itself owns the tiles.
func (m *TileMap) Slice() []*Tile {
	out := make([]*Tile, len(m.order))
	for i, id := range m.order {
		out[i] = m.tiles[id]
	}
	return out
}

// LakeIndex is the per-stage in-memory map of lake id to Lake, built
// during water-fill and discarded once rivers are derived.
type LakeIndex struct {
	lakes  map[LakeID]*Lake
	nextID LakeID
}

// NewLakeIndex creates an empty lake index.
func NewLakeIndex() *LakeIndex {
	return &LakeIndex{lakes: map[LakeID]*Lake{}}
}

// New allocates a fresh lake id and registers an empty lake for it.
func (l *LakeIndex) New(elevation, spillover float64) *Lake {
	l.nextID++
	lake := NewLake(l.nextID, elevation, spillover)
	l.lakes[lake.ID] = lake
	return lake
}

// Get returns the lake by id, or an error if absent.
func (l *LakeIndex) Get(id LakeID) (*Lake, error) {
	lake, ok := l.lakes[id]
	if !ok {
		return nil, atlaserr.MissingReference("worldmap", "lake %d does not exist", id)
	}
	return lake, nil
}

// Delete removes a lake, used when it has been absorbed by a merge.
func (l *LakeIndex) Delete(id LakeID) { delete(l.lakes, id) }

// Adopt registers a lake built elsewhere (e.g. reconstructed from a
// persisted lakes-layer row) under its own id, advancing nextID past it
// so a later New() never collides with an adopted id.
func (l *LakeIndex) Adopt(lake *Lake) {
	l.lakes[lake.ID] = lake
	if lake.ID > l.nextID {
		l.nextID = lake.ID
	}
}

// IDs returns lake ids in ascending order.
func (l *LakeIndex) IDs() []LakeID {
	ids := make([]LakeID, 0, len(l.lakes))
	for id := range l.lakes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Each calls fn for every lake in ascending id order.
func (l *LakeIndex) Each(fn func(*Lake)) {
	for _, id := range l.IDs() {
		fn(l.lakes[id])
	}
}
