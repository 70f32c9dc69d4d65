package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/worldforge/atlas/internal/climate"
	"github.com/worldforge/atlas/internal/config"
)

var climateCmd = &cobra.Command{
	Use:   "climate",
	Short: "Stages 5-7: temperature, winds, precipitation",
	Long:  `Derives temperature from latitude and elevation, prevailing wind bearing per latitude band, then orographic precipitation, in that order (each depends on the previous).`,
	RunE:  runClimate,
}

func init() {
	rootCmd.AddCommand(climateCmd)

	climateCmd.Flags().Float64("temp-polar", config.DefaultTemperatureRange.Polar, "temperature at the poles")
	climateCmd.Flags().Float64("temp-equator", config.DefaultTemperatureRange.Equator, "temperature at the equator")
	climateCmd.Flags().String("winds", "", "path to a JSON object mapping latitude band (integer degrees, latitude truncated toward zero) to bearing in degrees; omit for the westerly-everywhere default")
	climateCmd.Flags().Float64("precipitation-factor", config.DefaultPrecipitation.Factor, "multiplier applied to the whole precipitation pass")

	for _, key := range []string{"temp-polar", "temp-equator", "winds", "precipitation-factor"} {
		if err := viper.BindPFlag("climate."+key, climateCmd.Flags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", key, err))
		}
	}
}

func runClimate(cmd *cobra.Command, args []string) error {
	s, err := openWorld()
	if err != nil {
		return err
	}
	defer s.Close()

	_, _, shape, _, err := loadProperties(s)
	if err != nil {
		return err
	}
	m, err := loadTileMap(s)
	if err != nil {
		return err
	}

	tempRange := config.TemperatureRange{
		Polar:   viper.GetFloat64("climate.temp-polar"),
		Equator: viper.GetFloat64("climate.temp-equator"),
	}
	winds, err := loadWinds(viper.GetString("climate.winds"))
	if err != nil {
		return err
	}
	precip := config.PrecipitationConfig{Factor: viper.GetFloat64("climate.precipitation-factor")}

	obs := observer()
	logger.Info("deriving temperatures", "polar", tempRange.Polar, "equator", tempRange.Equator)
	climate.Temperatures(m, tempRange, obs)

	logger.Info("deriving winds")
	climate.Winds(m, winds, obs)

	logger.Info("deriving precipitation", "factor", precip.Factor)
	climate.Precipitation(m, shape, precip, obs)

	if err := saveTiles(s, m); err != nil {
		return fmt.Errorf("saving climate fields: %w", err)
	}
	logger.Info("climate stages persisted")
	return nil
}

func loadWinds(path string) (config.WindsConfig, error) {
	if path == "" {
		return config.DefaultWinds(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading winds config %s: %w", path, err)
	}
	var bands map[string]float64
	if err := json.Unmarshal(data, &bands); err != nil {
		return nil, fmt.Errorf("parsing winds config %s: %w", path, err)
	}
	winds := config.WindsConfig{}
	for band, bearing := range bands {
		var lat int
		if _, err := fmt.Sscanf(band, "%d", &lat); err != nil {
			return nil, fmt.Errorf("invalid latitude band key %q in %s: %w", band, path, err)
		}
		winds[lat] = bearing
	}
	return winds, nil
}
