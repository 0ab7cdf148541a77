package api

import "github.com/koulakhilesh/OpenEnergy/core/model"

// SimulateRequest carries per-run overrides applied on top of the server's
// base configuration. Zero values leave the base configuration untouched.
type SimulateRequest struct {
	BatteryCapacityMWh  float64 `json:"battery_capacity_mwh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	InitialSOC          float64 `json:"initial_soc"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	PriceModel          string  `json:"price_model"`
	CSVPath             string  `json:"csv_path"`
	MaxCycles           float64 `json:"max_cycles"`
	AmbientTempC        float64 `json:"ambient_temp_c"`
	NoiseSeed           int64   `json:"noise_seed"`
	LogLevel            string  `json:"log_level"`
}

// SimulateResponse returns the full run outcome.
type SimulateResponse struct {
	RunID      string                   `json:"run_id"`
	Results    []model.SimulationResult `json:"results"`
	TotalPnL   float64                  `json:"total_pnl"`
	FinalSOC   float64                  `json:"final_soc"`
	FinalSOH   float64                  `json:"final_soh"`
	CycleCount float64                  `json:"cycle_count"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
