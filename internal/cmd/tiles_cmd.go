package cmd

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/geometry"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/tiles"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Stage 1: place sites and build the tile graph",
	Long:  `Places quasi-random sites across the extent, triangulates them, and writes the derived Voronoi tile polygons — the world's first stage, run once per world file.`,
	RunE:  runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)

	tilesCmd.Flags().Int("count", 10000, "target tile count")
	tilesCmd.Flags().Float64("west", -180, "extent west bound (degrees)")
	tilesCmd.Flags().Float64("south", -90, "extent south bound (degrees)")
	tilesCmd.Flags().Float64("east", 180, "extent east bound (degrees)")
	tilesCmd.Flags().Float64("north", 90, "extent north bound (degrees)")
	tilesCmd.Flags().String("shape", string(geometry.ShapeCylinder), "world shape: Cylinder or Sphere")
	tilesCmd.Flags().Float64("elevation-min", -100, "minimum elevation bound")
	tilesCmd.Flags().Float64("elevation-max", 100, "maximum elevation bound")

	for _, key := range []string{"count", "west", "south", "east", "north", "shape", "elevation-min", "elevation-max"} {
		if err := viper.BindPFlag("tiles."+key, tilesCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runTiles(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	seed := viper.GetUint64("seed")
	shape := geometry.WorldShape(viper.GetString("tiles.shape"))
	ext := geometry.Extent{
		West:  viper.GetFloat64("tiles.west"),
		South: viper.GetFloat64("tiles.south"),
		East:  viper.GetFloat64("tiles.east"),
		North: viper.GetFloat64("tiles.north"),
	}
	limits := store.ElevationLimits{Min: viper.GetFloat64("tiles.elevation-min"), Max: viper.GetFloat64("tiles.elevation-max")}
	count := viper.GetInt("tiles.count")

	logger.Info("generating tile graph", "seed", seed, "count", count, "shape", shape, "extent", ext)

	rng := config.NewRand(seed)
	obs := observer()
	generated := tiles.Generate(rng, ext, count, shape, obs)

	sites := make([]orb.Point, len(generated))
	for i, t := range generated {
		sites[i] = t.Site
	}

	if err := tiles.Persist(s.DB(), generated, sites, ext, shape, seed, limits); err != nil {
		return fmt.Errorf("persisting tiles: %w", err)
	}

	logger.Info("tile graph persisted", "tiles", len(generated))
	return nil
}
