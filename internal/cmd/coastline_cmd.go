package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worldforge/atlas/internal/coastline"
)

var coastlineCmd = &cobra.Command{
	Use:   "coastline",
	Short: "Stage 4: classify shore distance and landmass size",
	Long:  `Runs the shore-distance BFS and sizes connected landmasses into Continent/Island/Islet/LakeIsland.`,
	RunE:  runCoastline,
}

func init() {
	rootCmd.AddCommand(coastlineCmd)
}

func runCoastline(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	logger.Info("classifying coastline", "tiles", m.Len())
	coastline.Classify(m, observer())

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving classified tiles: %w", err)
	}
	logger.Info("coastline classification persisted")
	return nil
}
