package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/config"
	"github.com/worldforge/atlas/internal/hydrology"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Stages 8-10: flow routing, lake fill, river derivation",
	Long:  `Routes water-flow accumulation downhill, grows lakes at the resulting basins, and derives the river segment network from the surviving flow graph.`,
	RunE:  runWater,
}

func init() {
	rootCmd.AddCommand(waterCmd)

	waterCmd.Flags().Float64("min-flow", config.DefaultRivers.MinFlow, "minimum flow required for a flow_to edge to become a river segment")

	if err := viper.BindPFlag("water.min-flow", waterCmd.Flags().Lookup("min-flow")); err != nil {
		panic(fmt.Sprintf("failed to bind flag min-flow: %v", err))
	}
}

func runWater(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	obs := observer()
	logger.Info("routing water flow", "tiles", m.Len())
	hydrology.RouteFlow(m, obs)

	lakes := worldmap.NewLakeIndex()
	logger.Info("filling lakes")
	hydrology.FillLakes(m, lakes, obs)

	riverCfg := config.RiverConfig{MinFlow: viper.GetFloat64("water.min-flow")}
	logger.Info("deriving rivers", "min_flow", riverCfg.MinFlow)
	rivers := hydrology.DeriveRivers(m, riverCfg, obs)

	if err := persistWater(s, m, lakes, rivers); err != nil {
		return err
	}
	logger.Info("hydrology stages persisted", "lakes", len(lakes.IDs()), "river_segments", len(rivers))
	return nil
}

func persistWater(s *store.Store, m *worldmap.TileMap, lakes *worldmap.LakeIndex, rivers []worldmap.RiverSegment) error {
	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving hydrology fields: %w", err)
	}

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	var putErr error
	lakes.Each(func(lake *worldmap.Lake) {
		if putErr != nil {
			return
		}
		putErr = store.PutLake(tx, lake)
	})
	if putErr != nil {
		tx.Rollback()
		return putErr
	}

	rw := store.NewRiverWriter(tx)
	for _, seg := range rivers {
		if err := rw.Put(seg); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := rw.Flush(); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
