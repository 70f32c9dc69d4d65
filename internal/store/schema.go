// Package store is the geospatial container: a single SQLite file
// holding one table per layer (§6), opened and batch-written the way
// the teacher's internal/mbtiles package writes raster tiles, but
// generalised to the world map's layers and to polygon/line/point
// geometry instead of PNG blobs.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/worldforge/atlas/internal/atlaserr"
)

// DefaultBatchSize is the number of rows buffered before a flush to disk,
// mirroring the teacher's mbtiles.DefaultBatchSize.
const DefaultBatchSize = 500

// Layer names, matching §6's required layer list exactly.
const (
	LayerTiles       = "tiles"
	LayerPoints      = "points"
	LayerTriangles   = "triangles"
	LayerRivers      = "rivers"
	LayerLakes       = "lakes"
	LayerBiomes      = "biomes"
	LayerCultures    = "cultures"
	LayerTowns       = "towns"
	LayerNations     = "nations"
	LayerSubnations  = "subnations"
	LayerCoastlines  = "coastlines"
	LayerOceans      = "oceans"
	LayerProperties  = "properties"
)

// Store wraps the SQLite handle and exposes per-layer writers/readers.
// Every stage opens one Store, builds its in-memory index, and either
// commits one transaction or rolls the whole thing back (§5).
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if absent) the container at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "opening %s", path)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, atlaserr.Backend("store", err, "setting pragma %q", p)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for the read-only helpers
// (ReadTiles, GetExtent, ...) that take a *sql.DB directly rather than
// a transaction.
func (s *Store) DB() *sql.DB { return s.db }

// Begin starts a transaction a stage will either Commit or Rollback
// in its entirety (§5: "a stage either commits its entire change set
// or the transaction is rolled back; partial writes never become
// visible").
func (s *Store) Begin() (*sql.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, atlaserr.Backend("store", err, "beginning transaction")
	}
	return tx, nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tiles (
			id INTEGER PRIMARY KEY,
			site_lon REAL NOT NULL,
			site_lat REAL NOT NULL,
			polygon_wkb BLOB NOT NULL,
			area REAL NOT NULL,
			edge TEXT NOT NULL DEFAULT '',
			neighbors TEXT NOT NULL DEFAULT '[]',
			elevation REAL NOT NULL DEFAULT 0,
			elevation_scaled INTEGER NOT NULL DEFAULT 20,
			grouping TEXT NOT NULL DEFAULT 'Continent',
			grouping_id INTEGER NOT NULL DEFAULT 0,
			shore_distance INTEGER NOT NULL DEFAULT 0,
			temperature REAL NOT NULL DEFAULT 0,
			wind REAL NOT NULL DEFAULT 0,
			precipitation REAL NOT NULL DEFAULT 0,
			water_flow REAL NOT NULL DEFAULT 0,
			water_accumulation REAL NOT NULL DEFAULT 0,
			flow_to TEXT NOT NULL DEFAULT '[]',
			lake_id INTEGER NOT NULL DEFAULT 0,
			outlet_from TEXT NOT NULL DEFAULT '[]',
			biome INTEGER NOT NULL DEFAULT 0,
			habitability REAL NOT NULL DEFAULT 0,
			population REAL NOT NULL DEFAULT 0,
			culture INTEGER NOT NULL DEFAULT 0,
			town_id INTEGER NOT NULL DEFAULT 0,
			nation_id INTEGER NOT NULL DEFAULT 0,
			subnation_id INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS points (
			id INTEGER PRIMARY KEY,
			point_wkb BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS triangles (
			id INTEGER PRIMARY KEY,
			polygon_wkb BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rivers (
			id INTEGER PRIMARY KEY,
			from_tile INTEGER NOT NULL,
			to_tile INTEGER NOT NULL,
			from_type TEXT NOT NULL,
			to_type TEXT NOT NULL,
			flows REAL NOT NULL,
			line_wkb BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lakes (
			id INTEGER PRIMARY KEY,
			elevation REAL NOT NULL,
			lake_type TEXT NOT NULL,
			size REAL NOT NULL,
			temperature REAL NOT NULL,
			flow REAL NOT NULL,
			multipolygon_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS biomes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			habitability REAL NOT NULL,
			movement_cost REAL NOT NULL,
			criteria TEXT NOT NULL,
			supports_nomadic INTEGER NOT NULL DEFAULT 0,
			supports_hunting INTEGER NOT NULL DEFAULT 0,
			color TEXT NOT NULL DEFAULT '#000000',
			multipolygon_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS cultures (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			namer TEXT NOT NULL,
			type TEXT NOT NULL,
			expansionism REAL NOT NULL,
			center INTEGER NOT NULL,
			color TEXT NOT NULL DEFAULT '#000000',
			multipolygon_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS towns (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			culture INTEGER NOT NULL,
			is_capital INTEGER NOT NULL DEFAULT 0,
			tile INTEGER NOT NULL,
			grouping TEXT NOT NULL,
			population REAL NOT NULL DEFAULT 0,
			is_port INTEGER NOT NULL DEFAULT 0,
			point_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS nations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			culture INTEGER NOT NULL,
			center INTEGER NOT NULL,
			type TEXT NOT NULL,
			expansionism REAL NOT NULL,
			capital INTEGER NOT NULL,
			color TEXT NOT NULL DEFAULT '#000000',
			multipolygon_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS subnations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			culture INTEGER NOT NULL,
			center INTEGER NOT NULL,
			type TEXT NOT NULL,
			seat INTEGER NOT NULL,
			nation INTEGER NOT NULL,
			color TEXT NOT NULL DEFAULT '#000000',
			multipolygon_wkb BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS coastlines (
			id INTEGER PRIMARY KEY,
			polygon_wkb BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS oceans (
			id INTEGER PRIMARY KEY,
			polygon_wkb BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return atlaserr.Backend("store", err, "creating schema")
		}
	}
	return nil
}

// layerNames lists every layer in insertion-sequence-significant order.
func layerNames() []string {
	return []string{
		LayerTiles, LayerPoints, LayerTriangles, LayerRivers, LayerLakes,
		LayerBiomes, LayerCultures, LayerTowns, LayerNations, LayerSubnations,
		LayerCoastlines, LayerOceans, LayerProperties,
	}
}

// ClearLayer truncates one named layer. No stage command calls it, and
// the stage commands have no --overwrite flag.
func (s *Store) ClearLayer(layer string) error {
	found := false
	for _, l := range layerNames() {
		if l == layer {
			found = true
			break
		}
	}
	if !found {
		return atlaserr.Schema("store", "unknown layer %q", layer)
	}
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", layer)); err != nil {
		return atlaserr.Backend("store", err, "clearing layer %s", layer)
	}
	return nil
}
