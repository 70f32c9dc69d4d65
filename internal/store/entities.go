package store

import (
	"database/sql"

	"github.com/worldforge/atlas/internal/atlaserr"
	"github.com/worldforge/atlas/internal/worldmap"
)

// PutBiome upserts a biome definition row.
func PutBiome(tx *sql.Tx, b *worldmap.Biome) error {
	_, err := tx.Exec(`INSERT INTO biomes (id, name, habitability, movement_cost, criteria, supports_nomadic, supports_hunting, color)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, habitability=excluded.habitability,
			movement_cost=excluded.movement_cost, criteria=excluded.criteria,
			supports_nomadic=excluded.supports_nomadic, supports_hunting=excluded.supports_hunting,
			color=excluded.color`,
		int64(b.ID), b.Name, b.Habitability, b.MovementCost, EncodeBiomeCriteria(b.Criteria),
		EncodeBool(b.SupportsNomadic), EncodeBool(b.SupportsHunting), b.Color)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting biome %d", b.ID)
	}
	return nil
}

// ReadBiomes loads every biome definition in ascending id order.
func ReadBiomes(db *sql.DB) ([]*worldmap.Biome, error) {
	rows, err := db.Query(`SELECT id, name, habitability, movement_cost, criteria, supports_nomadic, supports_hunting, color FROM biomes ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying biomes")
	}
	defer rows.Close()

	var out []*worldmap.Biome
	for rows.Next() {
		b := &worldmap.Biome{}
		var id int64
		var criteria string
		var nomadic, hunting int
		if err := rows.Scan(&id, &b.Name, &b.Habitability, &b.MovementCost, &criteria, &nomadic, &hunting, &b.Color); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning biome row")
		}
		b.ID = worldmap.BiomeID(id)
		b.SupportsNomadic = DecodeBool(nomadic)
		b.SupportsHunting = DecodeBool(hunting)
		b.Criteria, err = DecodeBiomeCriteria(criteria)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// PutCulture upserts a culture row.
func PutCulture(tx *sql.Tx, c *worldmap.Culture) error {
	_, err := tx.Exec(`INSERT INTO cultures (id, name, namer, type, expansionism, center, color)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, namer=excluded.namer, type=excluded.type,
			expansionism=excluded.expansionism, center=excluded.center, color=excluded.color`,
		int64(c.ID), c.Name, c.Namer, string(c.Type), c.Expansionism, int64(c.Center), c.Color)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting culture %d", c.ID)
	}
	return nil
}

// ReadCultures loads every culture in ascending id order.
func ReadCultures(db *sql.DB) ([]*worldmap.Culture, error) {
	rows, err := db.Query(`SELECT id, name, namer, type, expansionism, center, color FROM cultures ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying cultures")
	}
	defer rows.Close()

	var out []*worldmap.Culture
	for rows.Next() {
		c := &worldmap.Culture{}
		var id, center int64
		var typ string
		if err := rows.Scan(&id, &c.Name, &c.Namer, &typ, &c.Expansionism, &center, &c.Color); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning culture row")
		}
		c.ID = worldmap.CultureID(id)
		c.Center = worldmap.TileID(center)
		c.Type = worldmap.CultureType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

// PutTown upserts a town row.
func PutTown(tx *sql.Tx, t *worldmap.Town, point []byte) error {
	_, err := tx.Exec(`INSERT INTO towns (id, name, culture, is_capital, tile, grouping, population, is_port, point_wkb)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, culture=excluded.culture,
			is_capital=excluded.is_capital, tile=excluded.tile, grouping=excluded.grouping,
			population=excluded.population, is_port=excluded.is_port, point_wkb=excluded.point_wkb`,
		int64(t.ID), t.Name, int64(t.Culture), EncodeBool(t.IsCapital), int64(t.Tile),
		string(t.Grouping), t.Population, EncodeBool(t.IsPort), point)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting town %d", t.ID)
	}
	return nil
}

// ReadTowns loads every town in ascending id order.
func ReadTowns(db *sql.DB) ([]*worldmap.Town, error) {
	rows, err := db.Query(`SELECT id, name, culture, is_capital, tile, grouping, population, is_port FROM towns ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying towns")
	}
	defer rows.Close()

	var out []*worldmap.Town
	for rows.Next() {
		t := &worldmap.Town{}
		var id, culture, tile int64
		var isCapital, isPort int
		var grouping string
		if err := rows.Scan(&id, &t.Name, &culture, &isCapital, &tile, &grouping, &t.Population, &isPort); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning town row")
		}
		t.ID = worldmap.TownID(id)
		t.Culture = worldmap.CultureID(culture)
		t.Tile = worldmap.TileID(tile)
		t.IsCapital = DecodeBool(isCapital)
		t.IsPort = DecodeBool(isPort)
		t.Grouping = worldmap.Grouping(grouping)
		out = append(out, t)
	}
	return out, rows.Err()
}

// PutNation upserts a nation row.
func PutNation(tx *sql.Tx, n *worldmap.Nation) error {
	_, err := tx.Exec(`INSERT INTO nations (id, name, culture, center, type, expansionism, capital, color)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, culture=excluded.culture,
			center=excluded.center, type=excluded.type, expansionism=excluded.expansionism,
			capital=excluded.capital, color=excluded.color`,
		int64(n.ID), n.Name, int64(n.Culture), int64(n.Center), string(n.Type), n.Expansionism,
		int64(n.Capital), n.Color)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting nation %d", n.ID)
	}
	return nil
}

// ReadNations loads every nation in ascending id order.
func ReadNations(db *sql.DB) ([]*worldmap.Nation, error) {
	rows, err := db.Query(`SELECT id, name, culture, center, type, expansionism, capital, color FROM nations ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying nations")
	}
	defer rows.Close()

	var out []*worldmap.Nation
	for rows.Next() {
		n := &worldmap.Nation{}
		var id, culture, center, capital int64
		var typ string
		if err := rows.Scan(&id, &n.Name, &culture, &center, &typ, &n.Expansionism, &capital, &n.Color); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning nation row")
		}
		n.ID = worldmap.NationID(id)
		n.Culture = worldmap.CultureID(culture)
		n.Center = worldmap.TileID(center)
		n.Capital = worldmap.TownID(capital)
		n.Type = worldmap.CultureType(typ)
		out = append(out, n)
	}
	return out, rows.Err()
}

// PutSubnation upserts a subnation row.
func PutSubnation(tx *sql.Tx, s *worldmap.Subnation) error {
	_, err := tx.Exec(`INSERT INTO subnations (id, name, culture, center, type, seat, nation, color)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, culture=excluded.culture,
			center=excluded.center, type=excluded.type, seat=excluded.seat,
			nation=excluded.nation, color=excluded.color`,
		int64(s.ID), s.Name, int64(s.Culture), int64(s.Center), string(s.Type),
		int64(s.Seat), int64(s.Nation), s.Color)
	if err != nil {
		return atlaserr.Backend("store", err, "inserting subnation %d", s.ID)
	}
	return nil
}

// ReadSubnations loads every subnation in ascending id order.
func ReadSubnations(db *sql.DB) ([]*worldmap.Subnation, error) {
	rows, err := db.Query(`SELECT id, name, culture, center, type, seat, nation, color FROM subnations ORDER BY id ASC`)
	if err != nil {
		return nil, atlaserr.Backend("store", err, "querying subnations")
	}
	defer rows.Close()

	var out []*worldmap.Subnation
	for rows.Next() {
		s := &worldmap.Subnation{}
		var id, culture, center, seat, nation int64
		var typ string
		if err := rows.Scan(&id, &s.Name, &culture, &center, &typ, &seat, &nation, &s.Color); err != nil {
			return nil, atlaserr.Backend("store", err, "scanning subnation row")
		}
		s.ID = worldmap.SubnationID(id)
		s.Culture = worldmap.CultureID(culture)
		s.Center = worldmap.TileID(center)
		s.Seat = worldmap.TownID(seat)
		s.Nation = worldmap.NationID(nation)
		s.Type = worldmap.CultureType(typ)
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSubnations clears every subnation row, letting --regenerate rebuild
// the layer from scratch instead of upserting over a stale seat count.
func DeleteSubnations(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM subnations`); err != nil {
		return atlaserr.Backend("store", err, "clearing subnations")
	}
	return nil
}
