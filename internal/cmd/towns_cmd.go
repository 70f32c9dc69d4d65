package cmd

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/store"
	"github.com/worldforge/atlas/internal/towns"
	"github.com/worldforge/atlas/internal/worldmap"
)

var townsCmd = &cobra.Command{
	Use:   "towns",
	Short: "Stage 14: score, place, and name settlements",
	Long:  `Scores every habitable tile for capital- and town-worthiness, places spaced-out settlements, and names each one through its culture's namer.`,
	RunE:  runTowns,
}

func init() {
	rootCmd.AddCommand(townsCmd)

	townsCmd.Flags().String("namers", "", "path to a namebase file or directory of namebase files")
	townsCmd.Flags().String("default-namer", "english", "namer language used when a town's culture has none assigned")
	townsCmd.Flags().Int("capitals", 8, "number of nation capitals to place")
	townsCmd.Flags().Int("towns", 0, "number of ordinary towns to place; 0 auto-derives from populated tile count")

	for _, key := range []string{"namers", "default-namer", "capitals", "towns"} {
		if err := viper.BindPFlag("towns."+key, townsCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runTowns(cmd *cobra.Command, args []string) error {
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
	namers, err := loadNamers(viper.GetString("towns.namers"))
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
	lookup := towns.CultureLookup(func(c worldmap.CultureID) (string, bool) {
		culture, ok := cultureByID[c]
		if !ok {
			return "", false
		}
		return culture.Namer, true
	})

	opts := towns.Options{
		CapitalCount: viper.GetInt("towns.capitals"),
		TownCount:    viper.GetInt("towns.towns"),
		MapWidth:     ext.Width(),
		MapHeight:    ext.Height(),
		DefaultNamer: viper.GetString("towns.default-namer"),
	}

	rng := stageRand(seed, "towns")
	logger.Info("placing towns", "capitals", opts.CapitalCount)
	result := towns.Generate(m, namers, lookup, opts, rng, observer())

	if err := persistTowns(s, m, result); err != nil {
		return err
	}
	logger.Info("town layer persisted", "towns", len(result))
	return nil
}

func persistTowns(s *store.Store, m *worldmap.TileMap, result []*worldmap.Town) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	for _, t := range result {
		point := orb.Point{0, 0}
		if tile, err := m.Get(t.Tile); err == nil {
			point = tile.Site
		}
		b, err := wkb.Marshal(point)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding town site: %w", err)
		}
		if err := store.PutTown(tx, t, b); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
