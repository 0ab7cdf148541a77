package battery

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/koulakhilesh/OpenEnergy/core/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero capacity", Config{CapacityMWh: 0}},
		{"negative capacity", Config{CapacityMWh: -1}},
		{"soc above one", Config{CapacityMWh: 1, InitialSOC: 1.5}},
		{"soc below zero", Config{CapacityMWh: 1, InitialSOC: -0.1}},
		{"soh above one", Config{CapacityMWh: 1, InitialSOH: 1.2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			if err == nil {
				t.Fatalf("expected error for %+v", tc.cfg)
			}
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError got %T", err)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	b, err := New(Config{CapacityMWh: 2})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !almostEqual(b.ChargeEfficiency(), 0.9) || !almostEqual(b.DischargeEfficiency(), 0.9) {
		t.Fatalf("expected default efficiencies 0.9, got %v / %v", b.ChargeEfficiency(), b.DischargeEfficiency())
	}
	if !almostEqual(b.SOC(), 0.5) {
		t.Fatalf("expected default SOC 0.5 got %v", b.SOC())
	}
	if !almostEqual(b.SOH(), 1.0) {
		t.Fatalf("expected default SOH 1.0 got %v", b.SOH())
	}
}

func TestCharge_IncreasesSOC(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.Charge(0.2, 25)
	if !almostEqual(b.SOC(), 0.7) {
		t.Fatalf("expected SOC 0.7 got %v", b.SOC())
	}
}

func TestCharge_ClampsAtFull(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1, MaxChargeRateMW: 10})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.Charge(5, 25)
	if b.SOC() != 1.0 {
		t.Fatalf("expected SOC clamped at 1.0 got %v", b.SOC())
	}
}

func TestDischarge_ClampsAtEmpty(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1, MaxDischargeRateMW: 10})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.Discharge(5, 25)
	if b.SOC() != 0.0 {
		t.Fatalf("expected SOC clamped at 0.0 got %v", b.SOC())
	}
}

func TestCharge_RespectsRateLimit(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1, MaxChargeRateMW: 0.1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.Charge(1.0, 25)
	if !almostEqual(b.SOC(), 0.6) {
		t.Fatalf("expected SOC 0.6 after rate-limited charge got %v", b.SOC())
	}
}

func TestAdjustEfficiencyForTemperature(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.AdjustEfficiencyForTemperature(35)
	if !almostEqual(b.ChargeEfficiency(), 0.8) || !almostEqual(b.DischargeEfficiency(), 0.8) {
		t.Fatalf("expected 0.8 at 35C got %v / %v", b.ChargeEfficiency(), b.DischargeEfficiency())
	}

	b.AdjustEfficiencyForTemperature(-40)
	if !almostEqual(b.ChargeEfficiency(), 0.5) || !almostEqual(b.DischargeEfficiency(), 0.5) {
		t.Fatalf("expected floor 0.5 at -40C got %v / %v", b.ChargeEfficiency(), b.DischargeEfficiency())
	}
}

func TestSOH_NonIncreasing(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	prev := b.SOH()
	for i := 0; i < 50; i++ {
		b.Charge(0.3, 25)
		b.Discharge(0.3, 25)
		if b.SOH() > prev {
			t.Fatalf("SOH increased at step %d: %v -> %v", i, prev, b.SOH())
		}
		prev = b.SOH()
	}
	if b.SOH() < 0 || b.SOH() > 1 {
		t.Fatalf("SOH out of range: %v", b.SOH())
	}
}

func TestCycleCount_AccruesFromCumulativeEnergy(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1, DischargeEfficiency: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b.Charge(1.0, 25)
	if !almostEqual(b.EnergyCycledMWh(), 1.0) {
		t.Fatalf("expected 1 MWh cycled got %v", b.EnergyCycledMWh())
	}
	if !almostEqual(b.CycleCount(), 0.5) {
		t.Fatalf("expected 0.5 cycles got %v", b.CycleCount())
	}
	b.Discharge(1.0, 25)
	if !almostEqual(b.EnergyCycledMWh(), 2.0) {
		t.Fatalf("expected 2 MWh cycled got %v", b.EnergyCycledMWh())
	}
	// Each update adds the cumulative figure over twice the capacity.
	if !almostEqual(b.CycleCount(), 1.5) {
		t.Fatalf("expected 1.5 cycles got %v", b.CycleCount())
	}
}

func TestSOC_StaysInRangeUnderArbitraryOps(t *testing.T) {
	b, err := New(Config{CapacityMWh: 2, InitialSOC: 0.4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		energy := rng.Float64() * 3
		temp := rng.Float64()*60 - 10
		if rng.Intn(2) == 0 {
			b.Charge(energy, temp)
		} else {
			b.Discharge(energy, temp)
		}
		if b.SOC() < 0 || b.SOC() > 1 {
			t.Fatalf("SOC out of range at step %d: %v", i, b.SOC())
		}
		if b.ChargeEfficiency() < 0.5 || b.ChargeEfficiency() > 1 {
			t.Fatalf("charge efficiency out of range at step %d: %v", i, b.ChargeEfficiency())
		}
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	b, err := New(Config{CapacityMWh: 1, ChargeEfficiency: 1})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	snap := b.Snapshot()
	snap.SOC = 0.99
	if almostEqual(b.SOC(), 0.99) {
		t.Fatal("mutating a snapshot changed the battery")
	}
}
