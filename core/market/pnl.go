package market

import "github.com/koulakhilesh/OpenEnergy/core/model"

// PnLCalculator scores a realized schedule against actual market prices.
// The planning series never enters here: scoring against realized prices is
// where forecast error shows up in results.
type PnLCalculator struct {
	timestepHours float64
}

// NewPnLCalculator returns a calculator scaling prices by the interval
// duration. Non-positive durations fall back to hourly intervals.
func NewPnLCalculator(timestepHours float64) PnLCalculator {
	if timestepHours <= 0 {
		timestepHours = 1.0
	}
	return PnLCalculator{timestepHours: timestepHours}
}

// Compute sums per-interval profit and loss: discharging earns the price
// derated by discharge efficiency, charging pays the price grossed up by
// charge efficiency. Idle intervals contribute nothing.
func (c PnLCalculator) Compute(schedule model.DailySchedule, actualPrices []float64, chargeEfficiency, dischargeEfficiency float64) float64 {
	var pnl float64
	for i, price := range actualPrices {
		if i >= len(schedule) {
			break
		}
		iv := schedule[i]
		scaled := price * c.timestepHours
		switch {
		case iv.ChargeMWh > 0:
			pnl -= iv.ChargeMWh * scaled / chargeEfficiency
		case iv.DischargeMWh > 0:
			pnl += iv.DischargeMWh * scaled * dischargeEfficiency
		}
	}
	return pnl
}
