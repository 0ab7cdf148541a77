package battery

import (
	"math"

	"github.com/koulakhilesh/OpenEnergy/core/model"
)

// Config defines the physical parameters of the storage asset.
type Config struct {
	CapacityMWh         float64 `json:"capacity_mwh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	InitialSOC          float64 `json:"initial_soc"`
	InitialSOH          float64 `json:"initial_soh"`
	MaxChargeRateMW     float64 `json:"max_charge_rate_mw"`
	MaxDischargeRateMW  float64 `json:"max_discharge_rate_mw"`
	DurationHours       float64 `json:"duration_hours"`
}

// SetDefaults applies the reference asset parameters for unset fields.
func (c *Config) SetDefaults() {
	if c.ChargeEfficiency == 0 {
		c.ChargeEfficiency = 0.9
	}
	if c.DischargeEfficiency == 0 {
		c.DischargeEfficiency = 0.9
	}
	if c.InitialSOC == 0 {
		c.InitialSOC = 0.5
	}
	if c.InitialSOH == 0 {
		c.InitialSOH = 1.0
	}
	if c.MaxChargeRateMW == 0 {
		c.MaxChargeRateMW = c.CapacityMWh
	}
	if c.MaxDischargeRateMW == 0 {
		c.MaxDischargeRateMW = c.CapacityMWh
	}
	if c.DurationHours == 0 {
		c.DurationHours = 1.0
	}
}

// State is a snapshot of the battery. It is the only view other components
// get: the scheduler plans over a copy and never touches the live battery.
type State struct {
	CapacityMWh         float64 `json:"capacity_mwh"`
	SOC                 float64 `json:"soc"`
	SOH                 float64 `json:"soh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	EnergyCycledMWh     float64 `json:"energy_cycled_mwh"`
	CycleCount          float64 `json:"cycle_count"`
	LastCycleSOC        float64 `json:"last_cycle_soc"`
}

// Battery is the physically modeled storage asset. All state mutation goes
// through Charge and Discharge; construction is the only place parameters
// are rejected, afterwards arithmetic saturates via clamping.
type Battery struct {
	state              State
	maxChargeRateMW    float64
	maxDischargeRateMW float64
	durationHours      float64
	adjuster           EfficiencyAdjuster
	soh                SOHCalculator
}

// Option customises battery construction.
type Option func(*Battery)

// WithEfficiencyAdjuster replaces the temperature policy.
func WithEfficiencyAdjuster(a EfficiencyAdjuster) Option {
	return func(b *Battery) { b.adjuster = a }
}

// WithSOHCalculator replaces the degradation policy.
func WithSOHCalculator(c SOHCalculator) Option {
	return func(b *Battery) { b.soh = c }
}

// New validates the configuration and builds a battery. Invalid capacity or
// an out-of-range initial SOC/SOH yields a ValidationError.
func New(cfg Config, opts ...Option) (*Battery, error) {
	cfg.SetDefaults()
	if cfg.CapacityMWh <= 0 {
		return nil, model.NewValidationError("battery capacity must be greater than 0, got %v", cfg.CapacityMWh)
	}
	if cfg.InitialSOC < 0 || cfg.InitialSOC > 1 {
		return nil, model.NewValidationError("initial SOC must be between 0 and 1, got %v", cfg.InitialSOC)
	}
	if cfg.InitialSOH < 0 || cfg.InitialSOH > 1 {
		return nil, model.NewValidationError("initial SOH must be between 0 and 1, got %v", cfg.InitialSOH)
	}

	b := &Battery{
		state: State{
			CapacityMWh:         cfg.CapacityMWh,
			SOC:                 cfg.InitialSOC,
			SOH:                 cfg.InitialSOH,
			ChargeEfficiency:    cfg.ChargeEfficiency,
			DischargeEfficiency: cfg.DischargeEfficiency,
			LastCycleSOC:        cfg.InitialSOC,
		},
		maxChargeRateMW:    cfg.MaxChargeRateMW,
		maxDischargeRateMW: cfg.MaxDischargeRateMW,
		durationHours:      cfg.DurationHours,
		adjuster:           TemperatureEfficiencyAdjuster{},
		soh:                BasicSOHCalculator{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Snapshot returns a copy of the current state.
func (b *Battery) Snapshot() State { return b.state }

// SOC returns the current state of charge.
func (b *Battery) SOC() float64 { return b.state.SOC }

// SOH returns the current state of health.
func (b *Battery) SOH() float64 { return b.state.SOH }

// CapacityMWh returns the nameplate capacity.
func (b *Battery) CapacityMWh() float64 { return b.state.CapacityMWh }

// ChargeEfficiency returns the current charge efficiency.
func (b *Battery) ChargeEfficiency() float64 { return b.state.ChargeEfficiency }

// DischargeEfficiency returns the current discharge efficiency.
func (b *Battery) DischargeEfficiency() float64 { return b.state.DischargeEfficiency }

// CycleCount returns the accumulated equivalent-cycle figure.
func (b *Battery) CycleCount() float64 { return b.state.CycleCount }

// EnergyCycledMWh returns the lifetime cycled energy.
func (b *Battery) EnergyCycledMWh() float64 { return b.state.EnergyCycledMWh }

// AdjustEfficiencyForTemperature replaces both efficiencies with the
// temperature-adjusted values.
func (b *Battery) AdjustEfficiencyForTemperature(temperatureC float64) {
	b.state.ChargeEfficiency, b.state.DischargeEfficiency = b.adjuster.AdjustEfficiency(
		temperatureC, b.state.ChargeEfficiency, b.state.DischargeEfficiency)
}

// Charge stores the requested energy, derated by charge efficiency and the
// maximum charge rate. SOH and cycle bookkeeping use the requested amount.
func (b *Battery) Charge(energyMWh, temperatureC float64) {
	b.AdjustEfficiencyForTemperature(temperatureC)
	energyMWh = math.Min(energyMWh, b.maxChargeRateMW*b.durationHours)
	actualEnergyMWh := energyMWh * b.state.ChargeEfficiency
	b.state.SOC = math.Min(b.state.SOC+actualEnergyMWh/b.state.CapacityMWh, 1.0)
	b.updateSOHAndCycles(energyMWh)
}

// Discharge releases the requested energy, derated by discharge efficiency
// and the maximum discharge rate.
func (b *Battery) Discharge(energyMWh, temperatureC float64) {
	b.AdjustEfficiencyForTemperature(temperatureC)
	energyMWh = math.Min(energyMWh, b.maxDischargeRateMW*b.durationHours)
	actualEnergyMWh := energyMWh * b.state.DischargeEfficiency
	b.state.SOC = math.Max(b.state.SOC-actualEnergyMWh/b.state.CapacityMWh, 0.0)
	b.updateSOHAndCycles(energyMWh)
}

func (b *Battery) updateSOHAndCycles(energyMWh float64) {
	b.state.EnergyCycledMWh += energyMWh
	// DOD is measured after the SOC update above.
	dod := 1.0 - b.state.SOC
	b.state.SOH = clamp01(b.soh.CalculateSOH(b.state.SOH, b.state.EnergyCycledMWh, dod))
	b.checkAndUpdateCycles()
}

// checkAndUpdateCycles accrues equivalent full cycles on every update. The
// cumulative cycled energy, not the increment, feeds each addition, so the
// count grows super-linearly with history. Downstream results are calibrated
// against this accounting; do not switch it to per-increment.
func (b *Battery) checkAndUpdateCycles() {
	cycles := b.state.EnergyCycledMWh / (2 * b.state.CapacityMWh)
	b.state.CycleCount += cycles
	b.state.LastCycleSOC = b.state.SOC
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
