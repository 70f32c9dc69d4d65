package cmd

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/naming"
	"github.com/worldforge/atlas/internal/progress"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

// openWorld opens the SQLite container named by the persistent --world
// flag, creating it if this is the first stage run against it.
func openWorld() (*store.Store, error) {
	return store.Open(viper.GetString("world"))
}

// observer builds the progress reporter every stage command shares,
// silenced by --progress=false the same way the teacher's worker.Progress
// is silenced by its --progress flag.
func observer() progress.Observer {
	return progress.NewText(!viper.GetBool("progress"))
}

// stageRand derives a stage-scoped PRNG from the run's base seed so that
// every stage draws an independent-looking but fully reproducible random
// stream, instead of every stage replaying the exact same sequence a
// naive rand.New(rand.NewSource(seed)) per stage would produce. The stage
// name is folded into the seed with FNV-1a; this is an implementation
// detail, not part of the persisted world format.
func stageRand(seed uint64, stage string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(stage))
	salt := h.Sum64()
	return rand.New(rand.NewSource(int64(seed ^ salt)))
}

// loadProperties reads back the stage-1 properties every later stage needs:
// elevation limits, extent, world shape, and the base seed.
func loadProperties(s *store.Store) (store.ElevationLimits, geometry.Extent, geometry.WorldShape, uint64, error) {
	db := s.DB()
	limits, err := store.GetElevationLimits(db)
	if err != nil {
		return store.ElevationLimits{}, geometry.Extent{}, "", 0, err
	}
	ext, err := store.GetExtent(db)
	if err != nil {
		return store.ElevationLimits{}, geometry.Extent{}, "", 0, err
	}
	shape, err := store.GetWorldShape(db)
	if err != nil {
		return store.ElevationLimits{}, geometry.Extent{}, "", 0, err
	}
	seed, err := store.GetSeed(db)
	if err != nil {
		return store.ElevationLimits{}, geometry.Extent{}, "", 0, err
	}
	return limits, ext, shape, seed, nil
}

// loadTileMap reads every persisted tile (with neighbors, grouping,
// climate and civilization fields already populated by whichever stages
// ran before) into a fresh in-memory TileMap.
func loadTileMap(s *store.Store) (*worldmap.TileMap, error) {
	tiles, err := store.ReadTiles(s.DB())
	if err != nil {
		return nil, err
	}
	if len(tiles) == 0 {
		return nil, atlaserr.MissingReference("cmd", "no tiles persisted; run the tiles stage first")
	}
	return worldmap.NewTileMap(tiles), nil
}

// saveTiles rewrites every tile in m back to the store in one transaction,
// the generic "whole layer changed" path stages that mutate existing
// tiles in place (rather than only adding new fields) use instead of
// tiles.Persist, which only applies to the stage-1 initial write.
func saveTiles(s *store.Store, m *worldmap.TileMap) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	w := store.NewTileWriter(tx)
	var writeErr error
	m.Each(func(t *worldmap.Tile) {
		if writeErr != nil {
			return
		}
		writeErr = w.Put(t)
	})
	if writeErr != nil {
		tx.Rollback()
		return writeErr
	}
	if err := w.Flush(); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// loadNamers builds a NamerSet from path: every file in path if it's a
// directory (matching the teacher convention of one namebase file per
// language), or just that one file otherwise.
func loadNamers(path string) (*naming.NamerSet, error) {
	set := naming.NewNamerSet()
	if path == "" {
		return set, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading namers path %s: %w", path, err)
	}
	if !info.IsDir() {
		return set, loadNamerFile(set, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading namers directory %s: %w", path, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := loadNamerFile(set, filepath.Join(path, e.Name())); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func loadNamerFile(set *naming.NamerSet, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening namer file %s: %w", path, err)
	}
	defer f.Close()
	if err := set.ExtendFromFile(path, f); err != nil {
		return fmt.Errorf("loading namer file %s: %w", path, err)
	}
	return nil
}

// rebuildLakeIndex reconstructs a worldmap.LakeIndex from the lakes layer
// and each tile's persisted LakeID, the only way to recover ContainedTiles
// membership across a process boundary since that set itself isn't
// columnized (only the summary row in LakeRow is).
func rebuildLakeIndex(s *store.Store, m *worldmap.TileMap) (*worldmap.LakeIndex, error) {
	rows, err := store.ReadLakes(s.DB())
	if err != nil {
		return nil, err
	}
	idx := worldmap.NewLakeIndex()
	byID := map[worldmap.LakeID]*worldmap.Lake{}
	for _, r := range rows {
		lake := worldmap.NewLake(r.ID, r.Elevation, 0)
		lake.Type = r.Type
		lake.Size = r.Size
		lake.AvgTemperature = r.Temperature
		lake.Flow = r.Flow
		byID[r.ID] = lake
		idx.Adopt(lake)
	}
	m.Each(func(t *worldmap.Tile) {
		if t.LakeID == 0 {
			return
		}
		if lake, ok := byID[t.LakeID]; ok {
			lake.ContainedTiles[t.ID] = true
			lake.Temperatures[t.ID] = t.Temperature
		}
	})
	return idx, nil
}
