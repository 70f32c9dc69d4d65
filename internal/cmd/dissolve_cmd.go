package cmd

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/dissolve"
	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/worldmap"
)

var dissolveCmd = &cobra.Command{
	Use:   "dissolve",
	Short: "Stage 17: dissolve culture/nation/subnation territories into boundaries",
	Long:  `Merges every tile sharing a culture, nation, or subnation into one smoothed, simplified boundary polygon per theme, ready for rendering.`,
	RunE:  runDissolve,
}

func init() {
	rootCmd.AddCommand(dissolveCmd)

	dissolveCmd.Flags().Int("smooth-steps", 4, "Catmull-Rom subdivisions inserted per boundary segment")
	dissolveCmd.Flags().Float64("simplify-tolerance", 0.01, "Douglas-Peucker tolerance, in degrees, applied after smoothing")

	for _, key := range []string{"smooth-steps", "simplify-tolerance"} {
		if err := viper.BindPFlag("dissolve."+key, dissolveCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runDissolve(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	steps := viper.GetInt("dissolve.smooth-steps")
	tolerance := viper.GetFloat64("dissolve.simplify-tolerance")

	shape := func(tiles []*worldmap.Tile) orb.MultiPolygon {
		mp := dissolve.Dissolve(tiles)
		mp = dissolve.Smooth(mp, steps)
		return dissolve.Simplify(mp, tolerance)
	}

	cultures := dissolve.Group(m, dissolve.CultureKey)
	nations := dissolve.Group(m, dissolve.NationKey)
	subnations := dissolve.Group(m, dissolve.SubnationKey)

	logger.Info("dissolving territories", "cultures", len(cultures), "nations", len(nations), "subnations", len(subnations))

	tx, err := s.Begin()
	if err != nil {
		return err
	}
	for id, tiles := range cultures {
		if err := store.PutCultureBoundary(tx, id, shape(tiles)); err != nil {
			tx.Rollback()
			return err
		}
	}
	for id, tiles := range nations {
		if err := store.PutNationBoundary(tx, id, shape(tiles)); err != nil {
			tx.Rollback()
			return err
		}
	}
	for id, tiles := range subnations {
		if err := store.PutSubnationBoundary(tx, id, shape(tiles)); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("boundary layer persisted")
	return nil
}
