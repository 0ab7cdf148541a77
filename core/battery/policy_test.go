package battery

import (
	"math"
	"testing"
)

func TestTemperatureEfficiencyAdjuster(t *testing.T) {
	adj := TemperatureEfficiencyAdjuster{}
	cases := []struct {
		name   string
		tempC  float64
		wantCE float64
	}{
		{"reference", 25, 0.9},
		{"warm", 35, 0.8},
		{"cold", 15, 0.8},
		{"extreme heat clamps", 100, 0.5},
		{"extreme cold clamps", -50, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce, de := adj.AdjustEfficiency(tc.tempC, 0.9, 0.9)
			if math.Abs(ce-tc.wantCE) > 1e-9 || math.Abs(de-tc.wantCE) > 1e-9 {
				t.Fatalf("at %vC expected %v got %v / %v", tc.tempC, tc.wantCE, ce, de)
			}
		})
	}
}

func TestBasicSOHCalculator_DeepDischargeDoublesDegradation(t *testing.T) {
	calc := BasicSOHCalculator{}
	shallow := calc.CalculateSOH(1.0, 10, 0.3)
	deep := calc.CalculateSOH(1.0, 10, 0.7)

	shallowLoss := 1.0 - shallow
	deepLoss := 1.0 - deep
	if math.Abs(deepLoss-2*shallowLoss) > 1e-12 {
		t.Fatalf("expected deep discharge loss %v to double shallow loss %v", deepLoss, shallowLoss)
	}
}

func TestBasicSOHCalculator_ScalesWithCycledEnergy(t *testing.T) {
	calc := BasicSOHCalculator{}
	small := calc.CalculateSOH(1.0, 1, 0.2)
	large := calc.CalculateSOH(1.0, 100, 0.2)
	if large >= small {
		t.Fatalf("expected more cycled energy to degrade faster: %v vs %v", small, large)
	}
}
