package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/cultures"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

var culturesCmd = &cobra.Command{
	Use:   "cultures",
	Short: "Stage 13: place and expand culture territories",
	Long:  `Places up to --count culture centers, at most one per entry in --sources and one per 25 culturable tiles, classifies each culture's type, and grows its territory with the shared expansion engine.`,
	RunE:  runCultures,
}

func init() {
	rootCmd.AddCommand(culturesCmd)

	culturesCmd.Flags().String("sources", "", "path to a JSON array of {\"name\":..,\"namer\":..} culture sources (required)")
	culturesCmd.Flags().Int("count", 15, "number of culture centers to place, capped by --sources length")
	culturesCmd.Flags().Float64("size-variance", 2, "multiplier jitter applied to each culture's expansion budget")
	culturesCmd.Flags().Float64("river-threshold", 10, "water_flow above which a tile counts as riverine for type classification")
	culturesCmd.Flags().Float64("limit-factor", 1, "scales every culture's expansion cost ceiling")
	culturesCmd.Flags().Float64("bias-power", 5, "steepens preference toward top-ranked center candidates")

	for _, key := range []string{"sources", "count", "size-variance", "river-threshold", "limit-factor", "bias-power"} {
		if err := viper.BindPFlag("cultures."+key, culturesCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runCultures(cmd *cobra.Command, args []string) error {
	sourcesPath := viper.GetString("cultures.sources")
	if sourcesPath == "" {
		return fmt.Errorf("--sources is required")
	}
	sources, err := loadCultureSources(sourcesPath)
	if err != nil {
		return err
	}

	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	_, ext, _, seed, err := loadProperties(s)
	if err != nil {
		return err
	}
	m, err := loadTileMap(s)
	if err != nil {
		return err
	}
	lakes, err := rebuildLakeIndex(s, m)
	if err != nil {
		return err
	}
	biomeSet, err := store.ReadBiomes(s.DB())
	if err != nil {
		return fmt.Errorf("reading biomes: %w", err)
	}
	biomeByID := map[worldmap.BiomeID]*worldmap.Biome{}
	for _, b := range biomeSet {
		biomeByID[b.ID] = b
	}

	opts := cultures.Options{
		Count:          viper.GetInt("cultures.count"),
		SizeVariance:   viper.GetFloat64("cultures.size-variance"),
		RiverThreshold: viper.GetFloat64("cultures.river-threshold"),
		LimitFactor:    viper.GetFloat64("cultures.limit-factor"),
		MapWidth:       ext.Width(),
		MapHeight:      ext.Height(),
		BiasPower:      viper.GetFloat64("cultures.bias-power"),
	}

	rng := stageRand(seed, "cultures")
	logger.Info("placing cultures", "sources", len(sources), "count", opts.Count)
	result := cultures.Generate(m, lakes, biomeByID, sources, opts, rng, observer())

	if err := persistCultures(s, m, result); err != nil {
		return err
	}
	logger.Info("culture layer persisted", "cultures", len(result))
	return nil
}

func persistCultures(s *store.Store, m *worldmap.TileMap, result []*worldmap.Culture) error {
	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving culture assignments: %w", err)
	}
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	for _, c := range result {
		if err := store.PutCulture(tx, c); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func loadCultureSources(path string) ([]cultures.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading culture sources %s: %w", path, err)
	}
	var sources []cultures.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parsing culture sources %s: %w", path, err)
	}
	return sources, nil
}
