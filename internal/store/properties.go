package store

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/geometry"
)

// Property keys written at stage 1 and read by every later stage (§6).
const (
	PropElevationLimits = "elevation-limits"
	PropWorldShape      = "world-shape"
	PropSeed            = "seed"
	PropExtent          = "extent"
	PropTileCount       = "tile-count"
)

// SetProperty upserts a single key/value pair.
func SetProperty(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`INSERT INTO properties (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return atlaserr.Backend("store", err, "setting property %s", key)
	}
	return nil
}

// GetProperty reads a single value, or "" with ok=false if absent.
func GetProperty(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM properties WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, atlaserr.Backend("store", err, "reading property %s", key)
	}
	return value, true, nil
}

// ElevationLimits holds the min/max elevation established at stage 1.
type ElevationLimits struct {
	Min, Max float64
}

// PutElevationLimits persists §6's elevation-limits property.
func PutElevationLimits(tx *sql.Tx, limits ElevationLimits) error {
	return SetProperty(tx, PropElevationLimits, formatFloat(limits.Min)+","+formatFloat(limits.Max))
}

// GetElevationLimits reads back the persisted elevation limits.
func GetElevationLimits(db *sql.DB) (ElevationLimits, error) {
	v, ok, err := GetProperty(db, PropElevationLimits)
	if err != nil {
		return ElevationLimits{}, err
	}
	if !ok {
		return ElevationLimits{}, atlaserr.MissingReference("store", "elevation-limits property not set; run tiles first")
	}
	parts := strings.SplitN(v, ",", 2)
	if len(parts) != 2 {
		return ElevationLimits{}, atlaserr.Schema("store", "invalid elevation-limits value %q", v)
	}
	min, err1 := strconv.ParseFloat(parts[0], 64)
	max, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return ElevationLimits{}, atlaserr.Schema("store", "invalid elevation-limits value %q", v)
	}
	return ElevationLimits{Min: min, Max: max}, nil
}

// PutWorldShape persists §6's world-shape property.
func PutWorldShape(tx *sql.Tx, shape geometry.WorldShape) error {
	return SetProperty(tx, PropWorldShape, string(shape))
}

// GetWorldShape reads back the persisted world shape.
func GetWorldShape(db *sql.DB) (geometry.WorldShape, error) {
	v, ok, err := GetProperty(db, PropWorldShape)
	if err != nil {
		return "", err
	}
	if !ok {
		return geometry.ShapeCylinder, nil
	}
	switch geometry.WorldShape(v) {
	case geometry.ShapeCylinder, geometry.ShapeSphere:
		return geometry.WorldShape(v), nil
	default:
		return "", atlaserr.Schema("store", "invalid world-shape value %q", v)
	}
}

// PutExtent persists the map extent as "west,south,east,north".
func PutExtent(tx *sql.Tx, e geometry.Extent) error {
	v := strings.Join([]string{
		formatFloat(e.West), formatFloat(e.South), formatFloat(e.East), formatFloat(e.North),
	}, ",")
	return SetProperty(tx, PropExtent, v)
}

// GetExtent reads back the persisted map extent.
func GetExtent(db *sql.DB) (geometry.Extent, error) {
	v, ok, err := GetProperty(db, PropExtent)
	if err != nil {
		return geometry.Extent{}, err
	}
	if !ok {
		return geometry.Extent{}, atlaserr.MissingReference("store", "extent property not set; run tiles first")
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return geometry.Extent{}, atlaserr.Schema("store", "invalid extent value %q", v)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Extent{}, atlaserr.Schema("store", "invalid extent value %q", v)
		}
		vals[i] = f
	}
	return geometry.Extent{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, nil
}

// PutSeed persists the seed used to generate the tile sites.
func PutSeed(tx *sql.Tx, seed uint64) error {
	return SetProperty(tx, PropSeed, strconv.FormatUint(seed, 10))
}

// GetSeed reads back the persisted seed.
func GetSeed(db *sql.DB) (uint64, error) {
	v, ok, err := GetProperty(db, PropSeed)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, atlaserr.Schema("store", "invalid seed value %q", v)
	}
	return seed, nil
}
