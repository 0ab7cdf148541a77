package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/koulakhilesh/OpenEnergy/config"
)

func baseConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Battery.CapacityMWh = 1.0
	cfg.Battery.SetDefaults()
	cfg.Schedule.SetDefaults()
	cfg.Simulation.SetDefaults()
	cfg.Prices.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()
	return cfg
}

func TestNew_RunsSimulatedModel(t *testing.T) {
	cfg := baseConfig()
	cfg.Simulation.StartDate = "2015-02-01"
	cfg.Simulation.EndDate = "2015-02-02"

	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	state := svc.Battery().Snapshot()
	require.GreaterOrEqual(t, state.SOC, 0.0)
	require.LessOrEqual(t, state.SOC, 1.0)
}

func TestNew_RejectsInvalidBattery(t *testing.T) {
	cfg := baseConfig()
	cfg.Battery.CapacityMWh = -1

	_, err := New(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "battery")
}

func TestNew_HistoricalModelLoadsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.csv")
	data := "utc_timestamp,GB_GBN_price_day_ahead\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := baseConfig()
	cfg.Prices.Model = config.PriceModelHistorical
	cfg.Prices.CSVPath = path

	// A header-only file has no observations, which the price model rejects
	// at construction.
	_, err := New(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "price source")
}

func TestNew_MissingCSVFails(t *testing.T) {
	cfg := baseConfig()
	cfg.Prices.Model = config.PriceModelHistorical
	cfg.Prices.CSVPath = "/nonexistent/prices.csv"

	_, err := New(cfg)
	require.Error(t, err)
}
