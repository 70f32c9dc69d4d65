package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/population"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

var populationCmd = &cobra.Command{
	Use:   "population",
	Short: "Stage 12: habitability and population estimation",
	Long:  `Scores every tile's habitability from its biome and surroundings, then estimates a population count from habitability and tile area.`,
	RunE:  runPopulation,
}

func init() {
	rootCmd.AddCommand(populationCmd)

	populationCmd.Flags().Float64("density-factor", config.DefaultPopulation.DensityFactor, "population per habitability point per unit area")

	if err := viper.BindPFlag("population.density-factor", populationCmd.Flags().Lookup("density-factor")); err != nil {
		panic(fmt.Sprintf("failed to bind flag density-factor: %v", err))
	}
}

func runPopulation(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := loadTileMap(s)
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

	obs := observer()
	logger.Info("scoring habitability", "tiles", m.Len())
	population.Habitability(m, biomeByID, obs)

	cfg := config.PopulationConfig{DensityFactor: viper.GetFloat64("population.density-factor")}
	logger.Info("estimating population", "density_factor", cfg.DensityFactor)
	population.Populate(m, cfg, obs)

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving population fields: %w", err)
	}
	logger.Info("population stage persisted")
	return nil
}
