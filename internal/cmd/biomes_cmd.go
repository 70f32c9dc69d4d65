package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldforge/atlas/internal/biomes"
	"github.com/worldforge/atlas/internal/store"
)

var biomesCmd = &cobra.Command{
	Use:   "biomes",
	Short: "Stage 11: classify biomes",
	Long:  `Classifies every tile's biome from grouping, temperature, precipitation, and flow against the default Whittaker-style criteria table.`,
	RunE:  runBiomes,
}

func init() {
	rootCmd.AddCommand(biomesCmd)
}

func runBiomes(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	set := biomes.DefaultBiomes()
	logger.Info("classifying biomes", "tiles", m.Len(), "biome_count", len(set))
	if err := biomes.Classify(m, set, observer()); err != nil {
		return fmt.Errorf("classifying biomes: %w", err)
	}

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving biome assignments: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	for _, b := range set {
		if err := store.PutBiome(tx, b); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("biome layer persisted")
	return nil
}
