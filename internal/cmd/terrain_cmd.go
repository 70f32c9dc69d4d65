package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/raster"
	"github.com/worldforge/atlas/internal/terrain"
)

var terrainCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Stage 3: run a recipe against the tile graph",
	Long:  `Executes a terrain recipe (JSON) against the persisted tile graph, shaping elevation and ocean/continent grouping through the composable primitive engine.`,
	RunE:  runTerrain,
}

func init() {
	rootCmd.AddCommand(terrainCmd)

	terrainCmd.Flags().String("recipe", "", "path to the top-level recipe JSON file (required)")
	terrainCmd.Flags().StringSlice("raster", nil, "name=scale pairs wiring a deterministic Perlin raster for SampleElevation/SampleOceanBelow/SampleOceanMasked steps, e.g. --raster heightmap=40")

	for _, key := range []string{"recipe", "raster"} {
		if err := viper.BindPFlag("terrain."+key, terrainCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runTerrain(cmd *cobra.Command, args []string) error {
	recipePath := viper.GetString("terrain.recipe")
	if recipePath == "" {
		return fmt.Errorf("--recipe is required")
	}

	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	limits, ext, _, seed, err := loadProperties(s)
	if err != nil {
		return err
	}
	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(recipePath)
	if err != nil {
		return fmt.Errorf("reading recipe %s: %w", recipePath, err)
	}
	recipe, err := terrain.ParseRecipeFile(data, filenameStem(recipePath))
	if err != nil {
		return fmt.Errorf("parsing recipe %s: %w", recipePath, err)
	}

	rasters, err := parseRasterFlags(viper.GetStringSlice("terrain.raster"), seed)
	if err != nil {
		return err
	}

	params := terrain.NewParams(limits, ext, m.Len())
	rng := stageRand(seed, "terrain")
	obs := observer()
	driver := terrain.NewDriver(m, params, rng, obs, loadRecipeFile, rasters)

	logger.Info("running terrain recipe", "recipe", recipePath, "steps", len(recipe))
	if err := driver.Run(recipe); err != nil {
		return fmt.Errorf("running recipe: %w", err)
	}

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving shaped tiles: %w", err)
	}
	logger.Info("terrain recipe applied")
	return nil
}

func loadRecipeFile(path string) ([]byte, error) { return os.ReadFile(path) }

func filenameStem(path string) string {
	base := path[strings.LastIndexByte(path, '/')+1:]
	return strings.TrimSuffix(base, ".json")
}

func parseRasterFlags(pairs []string, seed uint64) (map[string]raster.Raster, error) {
	out := map[string]raster.Raster{}
	for _, pair := range pairs {
		name, scaleStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --raster %q: expected name=scale", pair)
		}
		scale, err := strconv.ParseFloat(scaleStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --raster scale %q: %w", pair, err)
		}
		out[name] = raster.NewPerlinSource(int64(seed), scale)
	}
	return out, nil
}
