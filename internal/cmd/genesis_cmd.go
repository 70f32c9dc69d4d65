package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/geometry"
)

// genesisFlags are bound to the very same viper keys each individual stage
// command reads, so running the aggregate command is indistinguishable
// from running all thirteen stage commands back to back against a fresh
// --world file.
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Run every stage in sequence against a fresh world file",
	Long:  `Generates tiles, wires neighbors, sculpts terrain, classifies the coastline, runs the climate and hydrology stages, places biomes, population, cultures, towns, nations, subnations, and finally dissolves territory boundaries, committing each stage's transaction before moving to the next.`,
	RunE:  runGenesis,
}

// bigBangCmd is the same pipeline under the name the reference tooling's
// users call it by when standing up a brand new setting from nothing.
var bigBangCmd = &cobra.Command{
	Use:   "big-bang",
	Short: "Alias for genesis: run every stage in sequence",
	RunE:  runGenesis,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
	rootCmd.AddCommand(bigBangCmd)

	for _, c := range []*cobra.Command{genesisCmd, bigBangCmd} {
		c.Flags().Int("count", 10000, "number of tiles to generate")
		c.Flags().Float64("west", -180, "west bound of the world extent")
		c.Flags().Float64("south", -90, "south bound of the world extent")
		c.Flags().Float64("east", 180, "east bound of the world extent")
		c.Flags().Float64("north", 90, "north bound of the world extent")
		c.Flags().String("shape", string(geometry.ShapeCylinder), "world shape: Cylinder or Sphere")
		c.Flags().Float64("elevation-min", -100, "lowest representable elevation")
		c.Flags().Float64("elevation-max", 100, "highest representable elevation")
		c.Flags().String("recipe", "", "terrain recipe file (required)")
		c.Flags().StringSlice("raster", nil, "repeatable name=scale perlin raster source for the recipe")
		c.Flags().Float64("temp-polar", config.DefaultTemperatureRange.Polar, "polar temperature")
		c.Flags().Float64("temp-equator", config.DefaultTemperatureRange.Equator, "equatorial temperature")
		c.Flags().String("winds", "", "optional JSON latitude-band -> degrees wind override file")
		c.Flags().Float64("precipitation-factor", config.DefaultPrecipitation.Factor, "global precipitation scale")
		c.Flags().Float64("min-flow", config.DefaultRivers.MinFlow, "minimum flow to become a river segment")
		c.Flags().Float64("density-factor", config.DefaultPopulation.DensityFactor, "population per habitability point per unit area")
		c.Flags().String("sources", "", "culture sources JSON file (required)")
		c.Flags().Int("culture-count", 15, "number of culture centers to place")
		c.Flags().String("namers", "", "namebase file or directory shared by cultures, towns, nations, subnations")
		c.Flags().String("default-namer", "english", "fallback namer language")
		c.Flags().Int("capitals", 8, "number of nation capitals to place")
		c.Flags().Int("towns", 0, "number of ordinary towns; 0 auto-derives")
		c.Flags().Float64("percentage", 30, "approximate percentage of each nation's towns that become subnation seats")
		c.Flags().Int("smooth-steps", 4, "Catmull-Rom subdivisions per boundary segment")
		c.Flags().Float64("simplify-tolerance", 0.01, "Douglas-Peucker tolerance in degrees")

		binds := map[string]string{
			"count":                "tiles.count",
			"west":                 "tiles.west",
			"south":                "tiles.south",
			"east":                 "tiles.east",
			"north":                "tiles.north",
			"shape":                "tiles.shape",
			"elevation-min":        "tiles.elevation-min",
			"elevation-max":        "tiles.elevation-max",
			"recipe":               "terrain.recipe",
			"raster":               "terrain.raster",
			"temp-polar":           "climate.temp-polar",
			"temp-equator":         "climate.temp-equator",
			"winds":                "climate.winds",
			"precipitation-factor": "climate.precipitation-factor",
			"min-flow":             "water.min-flow",
			"density-factor":       "population.density-factor",
			"sources":              "cultures.sources",
			"culture-count":        "cultures.count",
			"namers":               "towns.namers",
			"default-namer":        "towns.default-namer",
			"capitals":             "towns.capitals",
			"towns":                "towns.towns",
			"percentage":           "subnations.percentage",
			"smooth-steps":         "dissolve.smooth-steps",
			"simplify-tolerance":   "dissolve.simplify-tolerance",
		}
		for flag, key := range binds {
			if err := viper.BindPFlag(key, c.Flags().Lookup(flag)); err != nil {
				panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
			}
		}
	}
}

func runGenesis(cmd *cobra.Command, args []string) error {
	if viper.GetString("terrain.recipe") == "" {
		return fmt.Errorf("--recipe is required")
	}
	if viper.GetString("cultures.sources") == "" {
		return fmt.Errorf("--sources is required")
	}

	// nations and subnations share the culture/town namer path and default,
	// since genesis never asks the operator to repeat the same flags
	// per stage the way running each command separately would.
	viper.Set("nations.namers", viper.GetString("towns.namers"))
	viper.Set("nations.default-namer", viper.GetString("towns.default-namer"))
	viper.Set("subnations.namers", viper.GetString("towns.namers"))
	viper.Set("subnations.default-namer", viper.GetString("towns.default-namer"))
	viper.Set("subnations.regenerate", true)

	stages := []struct {
		name string
		run  func(*cobra.Command, []string) error
	}{
		{"tiles", runTiles},
		{"neighbors", runNeighbors},
		{"terrain", runTerrain},
		{"coastline", runCoastline},
		{"climate", runClimate},
		{"water", runWater},
		{"biomes", runBiomes},
		{"population", runPopulation},
		{"cultures", runCultures},
		{"towns", runTowns},
		{"nations", runNations},
		{"subnations", runSubnations},
		{"dissolve", runDissolve},
	}

	for _, stage := range stages {
		logger.Info("running stage", "stage", stage.name)
		if err := stage.run(cmd, nil); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}
	logger.Info("genesis complete")
	return nil
}
