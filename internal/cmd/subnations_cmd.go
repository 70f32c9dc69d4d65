package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/subnations"
	"github.com/worldforge/atlas/internal/worldmap"
)

var subnationsCmd = &cobra.Command{
	Use:   "subnations",
	Short: "Stage 16: carve subnations out of each nation's towns",
	Long: `Seats a subnation at a share of each nation's non-capital towns and assigns every remaining town to the nearest seat by travel cost.

Reuses the already-persisted towns and nations layers rather than recomputing them, so it can be re-run on its own with --regenerate to try a different --percentage without repeating the earlier stages.`,
	RunE: runSubnations,
}

func init() {
	rootCmd.AddCommand(subnationsCmd)

	subnationsCmd.Flags().String("namers", "", "path to a namebase file or directory of namebase files")
	subnationsCmd.Flags().String("default-namer", "english", "namer language used when a subnation's founding culture has none assigned")
	subnationsCmd.Flags().Float64("percentage", 30, "approximate percentage of each nation's towns that become subnation seats")
	subnationsCmd.Flags().Bool("regenerate", false, "clear any previously persisted subnations layer before seating new ones")

	for _, key := range []string{"namers", "default-namer", "percentage", "regenerate"} {
		if err := viper.BindPFlag("subnations."+key, subnationsCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runSubnations(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	_, _, _, seed, err := loadProperties(s)
	if err != nil {
		return err
	}

	existing, err := store.ReadSubnations(s.DB())
	if err != nil {
		return fmt.Errorf("reading subnations: %w", err)
	}
	regenerate := viper.GetBool("subnations.regenerate")
	if len(existing) > 0 && !regenerate {
		return fmt.Errorf("subnations already persisted (%d); pass --regenerate to rebuild the layer", len(existing))
	}

	m, err := loadTileMap(s)
	if err != nil {
		return err
	}
	townSet, err := store.ReadTowns(s.DB())
	if err != nil {
		return fmt.Errorf("reading towns: %w", err)
	}
	nationSet, err := store.ReadNations(s.DB())
	if err != nil {
		return fmt.Errorf("reading nations: %w", err)
	}
	namers, err := loadNamers(viper.GetString("subnations.namers"))
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
	lookup := subnations.CultureLookup(func(c worldmap.CultureID) (subnations.CultureInfo, bool) {
		culture, ok := cultureByID[c]
		if !ok {
			return subnations.CultureInfo{}, false
		}
		return subnations.CultureInfo{Namer: culture.Namer, Type: culture.Type}, true
	})

	opts := subnations.Options{
		Percentage:   viper.GetFloat64("subnations.percentage"),
		DefaultNamer: viper.GetString("subnations.default-namer"),
	}

	rng := stageRand(seed, "subnations")
	logger.Info("seating subnations", "nations", len(nationSet), "regenerate", regenerate)
	result := subnations.Generate(m, townSet, nationSet, namers, lookup, opts, rng, observer())

	if err := persistSubnations(s, m, result, regenerate); err != nil {
		return err
	}
	logger.Info("subnation layer persisted", "subnations", len(result))
	return nil
}

func persistSubnations(s *store.Store, m *worldmap.TileMap, result []*worldmap.Subnation, regenerate bool) error {
	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving subnation assignments: %w", err)
	}
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if regenerate {
		if err := store.DeleteSubnations(tx); err != nil {
			tx.Rollback()
			return err
		}
	}
	for _, sn := range result {
		if err := store.PutSubnation(tx, sn); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
