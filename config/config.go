package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/metrics"
	"github.com/koulakhilesh/OpenEnergy/infra/mqtt"
)

// Config is the root configuration of the simulator.
type Config struct {
	LogLevel   string           `json:"log_level"`
	Battery    battery.Config   `json:"battery"`
	Schedule   ScheduleConfig   `json:"schedule"`
	Simulation SimulationConfig `json:"simulation"`
	Prices     PricesConfig     `json:"prices"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	API        APIConfig        `json:"api"`
}

// Load reads a YAML or JSON configuration file, applies OE_-prefixed
// environment overrides, then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. OE_BATTERY__CAPACITY_MWH.
	if err := k.Load(env.Provider("OE_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "oe_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	cfg.Battery.SetDefaults()
	cfg.Schedule.SetDefaults()
	cfg.Simulation.SetDefaults()
	cfg.Prices.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()

	if err := cfg.Schedule.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Prices.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
