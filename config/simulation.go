package config

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ScheduleConfig defines the planning horizon parameters.
type ScheduleConfig struct {
	IntervalsPerDay int     `json:"intervals_per_day"`
	TimestepHours   float64 `json:"timestep_hours"`
	MaxCycles       float64 `json:"max_cycles"`
}

// SetDefaults applies the hourly 24-interval horizon.
func (c *ScheduleConfig) SetDefaults() {
	if c.IntervalsPerDay == 0 {
		c.IntervalsPerDay = 24
	}
	if c.TimestepHours == 0 {
		c.TimestepHours = 1.0
	}
	if c.MaxCycles == 0 {
		c.MaxCycles = 5.0
	}
}

// Validate checks the horizon parameters are positive.
func (c ScheduleConfig) Validate() error {
	if c.IntervalsPerDay <= 0 {
		return fmt.Errorf("intervals_per_day must be positive")
	}
	if c.TimestepHours <= 0 {
		return fmt.Errorf("timestep_hours must be positive")
	}
	if c.MaxCycles <= 0 {
		return fmt.Errorf("max_cycles must be positive")
	}
	return nil
}

// SimulationConfig defines the simulated date range and environment.
type SimulationConfig struct {
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	AmbientTempC float64 `json:"ambient_temp_c"`
}

// SetDefaults applies the reference two-day range and 25°C ambient.
func (c *SimulationConfig) SetDefaults() {
	if c.StartDate == "" {
		c.StartDate = "2015-02-01"
	}
	if c.EndDate == "" {
		c.EndDate = "2015-02-02"
	}
	if c.AmbientTempC == 0 {
		c.AmbientTempC = 25.0
	}
}

// Validate checks the dates parse and are ordered.
func (c SimulationConfig) Validate() error {
	start, end, err := c.DateRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end_date %s is before start_date %s", c.EndDate, c.StartDate)
	}
	return nil
}

// DateRange parses the configured dates.
func (c SimulationConfig) DateRange() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad start_date %q: %w", c.StartDate, err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad end_date %q: %w", c.EndDate, err)
	}
	return start, end, nil
}

// Price model names accepted by PricesConfig.
const (
	PriceModelSimulated  = "simulated"
	PriceModelHistorical = "historical"
)

// PricesConfig selects and parameterises the price source.
type PricesConfig struct {
	Model           string `json:"model"`
	CSVPath         string `json:"csv_path"`
	PriceColumn     string `json:"price_column"`
	TimestampColumn string `json:"timestamp_column"`
	NoiseSeed       int64  `json:"noise_seed"`
}

// SetDefaults selects the simulated model.
func (c *PricesConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = PriceModelSimulated
	}
}

// Validate checks the model selection is coherent.
func (c PricesConfig) Validate() error {
	switch c.Model {
	case PriceModelSimulated:
		return nil
	case PriceModelHistorical:
		if c.CSVPath == "" {
			return fmt.Errorf("csv_path is required for the historical price model")
		}
		return nil
	default:
		return fmt.Errorf("unknown price model %q", c.Model)
	}
}

// APIConfig defines the HTTP service parameters.
type APIConfig struct {
	Port string `json:"port"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Port == "" {
		c.Port = ":8080"
	}
}
