package market

import (
	"math"
	"testing"

	"github.com/koulakhilesh/OpenEnergy/core/model"
)

func TestPnL_ChargeCostsDischargeEarns(t *testing.T) {
	calc := NewPnLCalculator(1.0)
	schedule := model.DailySchedule{
		{Index: 0, ChargeMWh: 1.0},
		{Index: 1},
		{Index: 2, DischargeMWh: 1.0},
	}
	prices := []float64{10, 30, 50}

	pnl := calc.Compute(schedule, prices, 0.9, 0.9)
	want := -1.0*10/0.9 + 1.0*50*0.9
	if math.Abs(pnl-want) > 1e-9 {
		t.Fatalf("expected pnl %v got %v", want, pnl)
	}
}

func TestPnL_IdleScheduleIsZero(t *testing.T) {
	calc := NewPnLCalculator(1.0)
	schedule := model.DailySchedule{{Index: 0}, {Index: 1}}
	if pnl := calc.Compute(schedule, []float64{100, 200}, 0.9, 0.9); pnl != 0 {
		t.Fatalf("expected zero pnl got %v", pnl)
	}
}

func TestPnL_TimestepScalesPrices(t *testing.T) {
	schedule := model.DailySchedule{{Index: 0, DischargeMWh: 1.0}}
	prices := []float64{100}

	hourly := NewPnLCalculator(1.0).Compute(schedule, prices, 1, 1)
	halfHourly := NewPnLCalculator(0.5).Compute(schedule, prices, 1, 1)
	if math.Abs(halfHourly-hourly/2) > 1e-9 {
		t.Fatalf("expected half-hourly pnl %v to halve hourly %v", halfHourly, hourly)
	}
}

func TestPnL_ExtraPricesIgnored(t *testing.T) {
	calc := NewPnLCalculator(1.0)
	schedule := model.DailySchedule{{Index: 0, DischargeMWh: 1.0}}
	pnl := calc.Compute(schedule, []float64{10, 999, 999}, 1, 1)
	if math.Abs(pnl-10) > 1e-9 {
		t.Fatalf("expected pnl 10 got %v", pnl)
	}
}

func TestNewPnLCalculator_DefaultsNonPositiveTimestep(t *testing.T) {
	calc := NewPnLCalculator(-2)
	schedule := model.DailySchedule{{Index: 0, DischargeMWh: 1.0}}
	if pnl := calc.Compute(schedule, []float64{10}, 1, 1); math.Abs(pnl-10) > 1e-9 {
		t.Fatalf("expected hourly fallback pnl 10 got %v", pnl)
	}
}
