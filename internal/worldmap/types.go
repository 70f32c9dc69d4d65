// Package worldmap holds the tile graph and every entity type the
// generation pipeline mutates. Tiles are never deleted once created;
// later stages fill in the open set of optional fields described here.
package worldmap

import "github.com/paulmach/orb"

// TileID, LakeID and friends are "weak by id" references: the owning
// map is the single source of truth, and these are plain integers so
// that a Lake can reference contained tiles (and vice versa) without
// pointer cycles.
type (
	TileID      int64
	LakeID      int64
	BiomeID     int64
	CultureID   int64
	TownID      int64
	NationID    int64
	SubnationID int64
)

// Edge is one of the eight compass tags. A tile's Edge field, when
// non-empty, records which side(s) of the map it touches.
type Edge string

const (
	EdgeN  Edge = "N"
	EdgeNE Edge = "NE"
	EdgeE  Edge = "E"
	EdgeSE Edge = "SE"
	EdgeS  Edge = "S"
	EdgeSW Edge = "SW"
	EdgeW  Edge = "W"
	EdgeNW Edge = "NW"
)

// Opposite returns the compass tag 180 degrees from e.
func (e Edge) Opposite() Edge {
	switch e {
	case EdgeN:
		return EdgeS
	case EdgeNE:
		return EdgeSW
	case EdgeE:
		return EdgeW
	case EdgeSE:
		return EdgeNW
	case EdgeS:
		return EdgeN
	case EdgeSW:
		return EdgeNE
	case EdgeW:
		return EdgeE
	case EdgeNW:
		return EdgeSE
	default:
		return ""
	}
}

// NeighborKind discriminates the three Neighbor variants.
type NeighborKind int

const (
	NeighborTile NeighborKind = iota
	NeighborCrossMap
	NeighborOffMap
)

// Neighbor is one edge of the tile graph: a contiguous tile, a
// wrap-around tile reached across the antimeridian, or the map
// boundary itself.
type Neighbor struct {
	Kind NeighborKind
	ID   TileID // valid for NeighborTile and NeighborCrossMap
	Edge Edge   // valid for NeighborCrossMap and NeighborOffMap
}

func TileNeighbor(id TileID) Neighbor     { return Neighbor{Kind: NeighborTile, ID: id} }
func CrossMap(id TileID, e Edge) Neighbor { return Neighbor{Kind: NeighborCrossMap, ID: id, Edge: e} }
func OffMap(e Edge) Neighbor              { return Neighbor{Kind: NeighborOffMap, Edge: e} }

// NeighborAndBearing pairs a neighbor with the clockwise-from-north
// bearing, in degrees [0,360), at which it lies.
type NeighborAndBearing struct {
	Neighbor Neighbor
	Bearing  float64
}

// Grouping is the coarse classification of a tile.
type Grouping string

const (
	GroupingOcean      Grouping = "Ocean"
	GroupingLake       Grouping = "Lake"
	GroupingContinent  Grouping = "Continent"
	GroupingIsland     Grouping = "Island"
	GroupingIslet      Grouping = "Islet"
	GroupingLakeIsland Grouping = "LakeIsland"
)

// IsOcean reports whether the grouping is open water (not a lake).
func (g Grouping) IsOcean() bool { return g == GroupingOcean }

// IsWater reports whether the grouping is any kind of water.
func (g Grouping) IsWater() bool { return g == GroupingOcean || g == GroupingLake }

// Tile is a single Voronoi cell: a site, a polygon, and a large open
// set of attributes filled in by successive stages.
type Tile struct {
	ID      TileID
	Site    orb.Point // (lon, lat)
	Polygon orb.Polygon
	Area    float64
	Edge    Edge

	Neighbors []NeighborAndBearing

	Elevation       float64 // raw elevation in the world's elevation-limit units
	ElevationScaled int     // [0,100], 20 == sea level
	Grouping        Grouping
	GroupingID      int64

	ShoreDistance int // positive on land, negative in water

	Temperature float64
	Wind        float64 // bearing in degrees

	Precipitation float64

	WaterFlow         float64
	WaterAccumulation float64
	FlowTo            []TileID

	LakeID     LakeID
	OutletFrom []TileID

	Rivers []TileID // ordered downstream chain of river-bearing neighbor tiles

	Biome BiomeID

	Habitability float64
	Population   float64

	Culture CultureID

	TownID TownID

	NationID NationID

	SubnationID SubnationID
}

// HasLake reports whether the tile currently belongs to a lake.
func (t *Tile) HasLake() bool { return t.LakeID != 0 }

// LakeType classifies a lake by its water regime.
type LakeType string

const (
	LakeFresh   LakeType = "Fresh"
	LakeSalt    LakeType = "Salt"
	LakeFrozen  LakeType = "Frozen"
	LakePluvial LakeType = "Pluvial"
	LakeDry     LakeType = "Dry"
	LakeMarsh   LakeType = "Marsh"
)

// ShoreEdge pairs a tile inside a lake with a neighboring shore tile.
type ShoreEdge struct {
	Sponsor TileID
	Shore   TileID
}

// OutletEdge pairs an inside tile with the outside tile it spills into.
type OutletEdge struct {
	Inside  TileID
	Outside TileID
}

// Lake is a body of water grown by the basin-fill algorithm (§4.4).
type Lake struct {
	ID                LakeID
	Elevation         float64
	BottomElevation   float64
	Flow              float64
	SpilloverElev     float64
	ContainedTiles    map[TileID]bool
	Temperatures      map[TileID]float64
	Shoreline         []ShoreEdge
	Outlets           []OutletEdge
	Type              LakeType
	Size              float64
	AvgTemperature    float64
	Evaporation       float64
	MultiPolygon      orb.MultiPolygon
}

// NewLake creates an empty single-tile lake seed at the given elevation.
func NewLake(id LakeID, elevation, spillover float64) *Lake {
	return &Lake{
		ID:              id,
		Elevation:       elevation,
		BottomElevation: elevation,
		SpilloverElev:   spillover,
		ContainedTiles:  map[TileID]bool{},
		Temperatures:    map[TileID]float64{},
	}
}

// RiverNodeKind enumerates the semantic role of a river segment endpoint.
type RiverNodeKind string

const (
	RiverFromSource             RiverNodeKind = "Source"
	RiverFromLake               RiverNodeKind = "Lake"
	RiverFromBranch             RiverNodeKind = "Branch"
	RiverFromContinuing         RiverNodeKind = "Continuing"
	RiverFromBranchingLake      RiverNodeKind = "BranchingLake"
	RiverFromBranchingConfluence RiverNodeKind = "BranchingConfluence"
	RiverFromConfluence         RiverNodeKind = "Confluence"

	RiverToMouth               RiverNodeKind = "Mouth"
	RiverToConfluence          RiverNodeKind = "Confluence"
	RiverToContinuing          RiverNodeKind = "Continuing"
	RiverToBranch              RiverNodeKind = "Branch"
	RiverToBranchingConfluence RiverNodeKind = "BranchingConfluence"
)

// RiverSegment is one edge of the derived river network (stage 10).
type RiverSegment struct {
	FromTile TileID
	ToTile   TileID
	FromType RiverNodeKind
	ToType   RiverNodeKind
	Flows    float64
	Line     orb.LineString
}

// BiomeCriteriaKind discriminates the Biome.Criteria variants.
type BiomeCriteriaKind int

const (
	CriteriaMatrix BiomeCriteriaKind = iota
	CriteriaWetland
	CriteriaGlacier
	CriteriaOcean
)

// MoistureTempBand is one (moisture_band, temp_band) slot of a Matrix criteria.
type MoistureTempBand struct {
	Moisture int
	Temp     int
}

// BiomeCriteria selects which tiles a Biome applies to.
type BiomeCriteria struct {
	Kind        BiomeCriteriaKind
	MatrixSlots []MoistureTempBand // CriteriaMatrix
	WetThresh   float64            // CriteriaWetland: minimum water_flow
	GlacierTemp float64            // CriteriaGlacier: maximum temperature
}

// Biome is one classified terrain/climate category (stage 11).
type Biome struct {
	ID              BiomeID
	Name            string
	Habitability    float64
	MovementCost    float64
	Criteria        BiomeCriteria
	SupportsNomadic bool
	SupportsHunting bool
	Color           string
}

// CultureType affects expansion cost and namer choice.
type CultureType string

const (
	CultureGeneric  CultureType = "Generic"
	CultureLake     CultureType = "Lake"
	CultureNaval    CultureType = "Naval"
	CultureRiver    CultureType = "River"
	CultureNomadic  CultureType = "Nomadic"
	CultureHunting  CultureType = "Hunting"
	CultureHighland CultureType = "Highland"
)

// Culture is a cultural expansion seed and its resulting territory (stage 13).
type Culture struct {
	ID           CultureID
	Name         string
	Namer        string
	Type         CultureType
	Expansionism float64
	Center       TileID
	Color        string
}

// Town is a populated settlement (stage 14).
type Town struct {
	ID        TownID
	Name      string
	Culture   CultureID
	IsCapital bool
	Tile      TileID
	Grouping  Grouping
	Population float64
	IsPort    bool
}

// Nation is a political entity expanded from capital towns (stage 15).
type Nation struct {
	ID           NationID
	Name         string
	Culture      CultureID
	Center       TileID
	Type         CultureType
	Expansionism float64
	Capital      TownID
	Color        string
}

// Subnation is a province-level entity seeded from a seat town (stage 16).
type Subnation struct {
	ID      SubnationID
	Name    string
	Culture CultureID
	Center  TileID
	Type    CultureType
	Seat    TownID
	Nation  NationID
	Color   string
}
