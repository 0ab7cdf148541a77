package battery

import "math"

// EfficiencyAdjuster derives charge and discharge efficiency from the
// ambient temperature before an energy transfer is applied.
type EfficiencyAdjuster interface {
	AdjustEfficiency(temperatureC, chargeEfficiency, dischargeEfficiency float64) (float64, float64)
}

// SOHCalculator computes the degraded state of health after an energy
// transfer. Implementations receive the battery's cumulative cycled energy
// and the depth of discharge at the time of the update.
type SOHCalculator interface {
	CalculateSOH(soh, energyCycledMWh, dod float64) float64
}

const (
	referenceTempC     = 25.0
	tempEffectPerDegC  = 0.01
	minEfficiency      = 0.5
	maxEfficiency      = 1.0
	baseDegradation    = 0.000005
	deepDischargeDOD   = 0.5
	deepDischargeSlope = 2.0
)

// TemperatureEfficiencyAdjuster degrades both efficiencies linearly with the
// distance from the 25°C reference temperature.
type TemperatureEfficiencyAdjuster struct{}

func (TemperatureEfficiencyAdjuster) AdjustEfficiency(temperatureC, chargeEfficiency, dischargeEfficiency float64) (float64, float64) {
	tempEffect := math.Abs(temperatureC-referenceTempC) * tempEffectPerDegC
	return clampEfficiency(chargeEfficiency - tempEffect), clampEfficiency(dischargeEfficiency - tempEffect)
}

// BasicSOHCalculator models degradation proportional to cycled energy, with
// deep discharges (DOD above 0.5) degrading twice as fast.
type BasicSOHCalculator struct{}

func (BasicSOHCalculator) CalculateSOH(soh, energyCycledMWh, dod float64) float64 {
	dodFactor := 1.0
	if dod > deepDischargeDOD {
		dodFactor = deepDischargeSlope
	}
	degradationRate := baseDegradation * energyCycledMWh * dodFactor
	return soh * (1 - degradationRate)
}

func clampEfficiency(eff float64) float64 {
	return math.Max(minEfficiency, math.Min(eff, maxEfficiency))
}
