// Package biomes implements stage 11: classifying every tile into a
// biome from temperature, precipitation, water_flow, and grouping
// (§4, table row 11). The default biome set and its moisture/temperature
// matrix are read verbatim from the reference implementation's
// DEFAULT_BIOMES/DEFAULT_MATRIX tables.
package biomes

import "github.com/worldforge/atlas/internal/worldmap"

const (
	hotDesert                = "Hot desert"
	coldDesert               = "Cold desert"
	savanna                  = "Savanna"
	grassland                = "Grassland"
	tropicalSeasonalForest   = "Tropical seasonal forest"
	temperateDeciduousForest = "Temperate deciduous forest"
	tropicalRainforest       = "Tropical rainforest"
	temperateRainforest      = "Temperate rainforest"
	taiga                    = "Taiga"
	tundra                   = "Tundra"
	glacier                  = "Glacier"
	wetland                  = "Wetland"
	ocean                    = "Ocean"
)

// glacierTemp is the temperature below which a land tile is glacier,
// matching the threshold precipitation already uses to halt tracing.
const glacierTemp = -5.0

// wetlandFlow is the water_flow above which a land tile is wetland.
// The reference implementation's default constant was not present in
// the retrieved source; this value is a reasonable domain default.
const wetlandFlow = 40.0

// defaultMatrix is DEFAULT_MATRIX: 5 moisture bands (dry to wet) by
// 26 temperature bands (hot, above 18°C, to cold, -6°C and below).
var defaultMatrix = [5][26]string{
	{hotDesert, hotDesert, hotDesert, hotDesert, hotDesert, hotDesert, hotDesert, hotDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, coldDesert, tundra},
	{savanna, savanna, savanna, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, grassland, taiga, taiga, taiga, taiga, tundra, tundra, tundra},
	{tropicalSeasonalForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, taiga, taiga, taiga, taiga, taiga, tundra, tundra, tundra},
	{tropicalSeasonalForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateDeciduousForest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, taiga, taiga, taiga, taiga, taiga, taiga, tundra, tundra, tundra},
	{tropicalRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, temperateRainforest, taiga, taiga, taiga, taiga, taiga, taiga, taiga, tundra, tundra},
}

type defaultEntry struct {
	name            string
	habitability    float64
	movementCost    float64
	supportsNomadic bool
	supportsHunting bool
	color           string
}

var defaultEntries = []defaultEntry{
	{ocean, 0, 10, false, false, "#1F78B4"},
	{hotDesert, 4, 200, true, false, "#FBE79F"},
	{coldDesert, 10, 150, true, false, "#B5B887"},
	{savanna, 22, 60, false, true, "#D2D082"},
	{grassland, 30, 50, true, false, "#C8D68F"},
	{tropicalSeasonalForest, 50, 70, false, false, "#B6D95D"},
	{temperateDeciduousForest, 100, 70, false, true, "#29BC56"},
	{tropicalRainforest, 80, 80, false, false, "#7DCB35"},
	{temperateRainforest, 90, 90, false, true, "#409C43"},
	{taiga, 12, 200, false, true, "#4B6B32"},
	{tundra, 4, 1000, false, true, "#96784B"},
	{glacier, 0, 5000, false, false, "#D5E7EB"},
	{wetland, 12, 150, false, true, "#0B9131"},
}

// DefaultBiomes builds the stock 13-biome set: one Ocean, one Glacier,
// one Wetland, and ten placed in the moisture/temperature matrix at
// every slot defaultMatrix assigns them.
func DefaultBiomes() []*worldmap.Biome {
	slots := map[string][]worldmap.MoistureTempBand{}
	for moisture, row := range defaultMatrix {
		for temp, name := range row {
			slots[name] = append(slots[name], worldmap.MoistureTempBand{Moisture: moisture, Temp: temp})
		}
	}

	out := make([]*worldmap.Biome, 0, len(defaultEntries))
	var id worldmap.BiomeID
	for _, e := range defaultEntries {
		id++
		b := &worldmap.Biome{
			ID:              id,
			Name:            e.name,
			Habitability:    e.habitability,
			MovementCost:    e.movementCost,
			SupportsNomadic: e.supportsNomadic,
			SupportsHunting: e.supportsHunting,
			Color:           e.color,
		}
		switch e.name {
		case ocean:
			b.Criteria = worldmap.BiomeCriteria{Kind: worldmap.CriteriaOcean}
		case glacier:
			b.Criteria = worldmap.BiomeCriteria{Kind: worldmap.CriteriaGlacier, GlacierTemp: glacierTemp}
		case wetland:
			b.Criteria = worldmap.BiomeCriteria{Kind: worldmap.CriteriaWetland, WetThresh: wetlandFlow}
		default:
			b.Criteria = worldmap.BiomeCriteria{Kind: worldmap.CriteriaMatrix, MatrixSlots: slots[e.name]}
		}
		out = append(out, b)
	}
	return out
}
