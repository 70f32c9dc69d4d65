package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/nations"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

var nationsCmd = &cobra.Command{
	Use:   "nations",
	Short: "Stage 15: found and expand nations",
	Long:  `Founds one nation per capital town, named and typed through its founding culture, then grows each nation's territory with the shared expansion engine.`,
	RunE:  runNations,
}

func init() {
	rootCmd.AddCommand(nationsCmd)

	nationsCmd.Flags().String("namers", "", "path to a namebase file or directory of namebase files")
	nationsCmd.Flags().String("default-namer", "english", "namer language used when a nation's founding culture has none assigned")
	nationsCmd.Flags().Float64("size-variance", 2, "multiplier jitter applied to each nation's expansion budget")
	nationsCmd.Flags().Float64("river-threshold", 10, "water_flow above which a tile counts as riverine for expansion cost")
	nationsCmd.Flags().Float64("limit-factor", 1, "scales every nation's expansion cost ceiling")

	for _, key := range []string{"namers", "default-namer", "size-variance", "river-threshold", "limit-factor"} {
		if err := viper.BindPFlag("nations."+key, nationsCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runNations(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	_, _, _, seed, err := loadProperties(s)
	if err != nil {
		return err
	}
	m, err := loadTileMap(s)
	if err != nil {
		return err
	}
	towns, err := store.ReadTowns(s.DB())
	if err != nil {
		return fmt.Errorf("reading towns: %w", err)
	}
	biomeSet, err := store.ReadBiomes(s.DB())
	if err != nil {
		return fmt.Errorf("reading biomes: %w", err)
	}
	biomeByID := map[worldmap.BiomeID]*worldmap.Biome{}
	for _, b := range biomeSet {
		biomeByID[b.ID] = b
	}
	namers, err := loadNamers(viper.GetString("nations.namers"))
	if err != nil {
		return err
	}
	cultureSet, err := store.ReadCultures(s.DB())
	if err != nil {
		return fmt.Errorf("reading cultures: %w", err)
	}
	cultureByID := map[worldmap.CultureID]*worldmap.Culture{}
	for _, c := range cultureSet {
		cultureByID[c.ID] = c
	}
	lookup := nations.CultureLookup(func(c worldmap.CultureID) (nations.CultureInfo, bool) {
		culture, ok := cultureByID[c]
		if !ok {
			return nations.CultureInfo{}, false
		}
		return nations.CultureInfo{Namer: culture.Namer, Type: culture.Type}, true
	})

	opts := nations.Options{
		SizeVariance:   viper.GetFloat64("nations.size-variance"),
		RiverThreshold: viper.GetFloat64("nations.river-threshold"),
		LimitFactor:    viper.GetFloat64("nations.limit-factor"),
		DefaultNamer:   viper.GetString("nations.default-namer"),
	}
	rng := stageRand(seed, "nations")
	logger.Info("founding nations", "towns", len(towns))
	result := nations.Generate(m, towns, biomeByID, namers, lookup, opts, rng, observer())

	if err := persistNations(s, m, result); err != nil {
		return err
	}
	logger.Info("nation layer persisted", "nations", len(result))
	return nil
}

func persistNations(s *store.Store, m *worldmap.TileMap, result []*worldmap.Nation) error {
	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving nation assignments: %w", err)
	}
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	for _, n := range result {
		if err := store.PutNation(tx, n); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
