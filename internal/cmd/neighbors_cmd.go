package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldforge/atlas/internal/neighbors"
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors",
	Short: "Stage 2: wire the tile adjacency graph",
	Long:  `Computes each tile's neighbor list, including antimeridian wrap and off-map boundary edges, and writes it back onto the tiles.`,
	RunE:  runNeighbors,
}

func init() {
	rootCmd.AddCommand(neighborsCmd)
}

func runNeighbors(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	_, ext, shape, _, err := loadProperties(s)
	if err != nil {
		return err
	}
	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	logger.Info("wiring tile neighbors", "tiles", m.Len())
	neighbors.Wire(m, ext, shape)

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving wired tiles: %w", err)
	}
	logger.Info("neighbor graph persisted")
	return nil
}
