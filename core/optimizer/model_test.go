package optimizer

import (
	"errors"
	"testing"

	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/model"
)

func testSnapshot() battery.State {
	return battery.State{
		CapacityMWh:         1.0,
		SOC:                 0.5,
		SOH:                 1.0,
		ChargeEfficiency:    0.9,
		DischargeEfficiency: 0.9,
	}
}

func TestBuildModel_Dimensions(t *testing.T) {
	n := 4
	prices := []float64{10, 20, 30, 40}
	m, err := LPModelBuilder{}.BuildModel(n, prices, testSnapshot(), 1.0, 5.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.NumIntervals() != n {
		t.Fatalf("expected %d intervals got %d", n, m.NumIntervals())
	}
	if len(m.c) != 4*n {
		t.Fatalf("expected %d objective coefficients got %d", 4*n, len(m.c))
	}
	rows, cols := m.g.Dims()
	if rows != 8*n+1 || cols != 4*n {
		t.Fatalf("unexpected inequality dims %dx%d", rows, cols)
	}
	eqRows, eqCols := m.a.Dims()
	if eqRows != 2*n || eqCols != 4*n {
		t.Fatalf("unexpected equality dims %dx%d", eqRows, eqCols)
	}
}

func TestBuildModel_ObjectiveSigns(t *testing.T) {
	prices := []float64{10, 50}
	m, err := LPModelBuilder{}.BuildModel(2, prices, testSnapshot(), 1.0, 5.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for tIdx := 0; tIdx < 2; tIdx++ {
		if m.c[m.chargeIdx(tIdx)] <= 0 {
			t.Fatalf("charging must cost, got coefficient %v", m.c[m.chargeIdx(tIdx)])
		}
		if m.c[m.dischargeIdx(tIdx)] >= 0 {
			t.Fatalf("discharging must earn, got coefficient %v", m.c[m.dischargeIdx(tIdx)])
		}
	}
}

func TestBuildModel_InitialConditions(t *testing.T) {
	snap := testSnapshot()
	snap.SOC = 0.37
	m, err := LPModelBuilder{}.BuildModel(3, []float64{1, 2, 3}, snap, 1.0, 5.0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if m.b[0] != 0.37 {
		t.Fatalf("expected initial SOC pinned to 0.37 got %v", m.b[0])
	}
	if m.b[1] != 0 {
		t.Fatalf("expected initial cycled energy pinned to 0 got %v", m.b[1])
	}
}

func TestBuildModel_Validation(t *testing.T) {
	snap := testSnapshot()
	cases := []struct {
		name     string
		n        int
		prices   []float64
		snap     battery.State
		timestep float64
		cycles   float64
		wantData bool
	}{
		{"zero intervals", 0, nil, snap, 1, 5, false},
		{"price length mismatch", 3, []float64{1, 2}, snap, 1, 5, true},
		{"zero timestep", 2, []float64{1, 2}, snap, 0, 5, false},
		{"zero cycles", 2, []float64{1, 2}, snap, 1, 0, false},
		{"zero capacity", 2, []float64{1, 2}, battery.State{ChargeEfficiency: 0.9, DischargeEfficiency: 0.9}, 1, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LPModelBuilder{}.BuildModel(tc.n, tc.prices, tc.snap, tc.timestep, tc.cycles)
			if err == nil {
				t.Fatal("expected error")
			}
			var derr *model.DataError
			if tc.wantData != errors.As(err, &derr) {
				t.Fatalf("wrong error type %T: %v", err, err)
			}
		})
	}
}
