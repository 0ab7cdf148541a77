package market

import (
	"context"
	"fmt"
	"time"

	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/logger"
	"github.com/koulakhilesh/OpenEnergy/core/metrics"
	"github.com/koulakhilesh/OpenEnergy/core/model"
	"github.com/koulakhilesh/OpenEnergy/core/optimizer"
	"github.com/koulakhilesh/OpenEnergy/core/prices"
)

const dateLayout = "2006-01-02"

// SimulatorParams collects the collaborators and operating parameters of a
// simulation run.
type SimulatorParams struct {
	Start     time.Time
	End       time.Time
	Battery   *battery.Battery
	Prices    prices.PriceSource
	Scheduler optimizer.Scheduler
	PnL       PnLCalculator

	// TimestepHours defaults to 1, MaxCycles to 5, AmbientTempC to 25.
	TimestepHours float64
	MaxCycles     float64
	AmbientTempC  float64

	Sink metrics.Sink
	Log  logger.Logger
}

// EnergyMarketSimulator drives the day-by-day plan/apply/score loop. The
// battery it holds is the single piece of state carried across days, and
// this loop is its only writer.
type EnergyMarketSimulator struct {
	start, end    time.Time
	battery       *battery.Battery
	prices        prices.PriceSource
	scheduler     optimizer.Scheduler
	pnl           PnLCalculator
	timestepHours float64
	maxCycles     float64
	ambientTempC  float64
	sink          metrics.Sink
	log           logger.Logger
}

// NewEnergyMarketSimulator validates the parameters and builds a simulator.
func NewEnergyMarketSimulator(p SimulatorParams) (*EnergyMarketSimulator, error) {
	if p.Battery == nil {
		return nil, model.NewValidationError("battery is required")
	}
	if p.Prices == nil {
		return nil, model.NewValidationError("price source is required")
	}
	if p.Scheduler == nil {
		return nil, model.NewValidationError("scheduler is required")
	}
	if p.End.Before(p.Start) {
		return nil, model.NewValidationError("end date %s is before start date %s", p.End.Format(dateLayout), p.Start.Format(dateLayout))
	}
	if p.TimestepHours <= 0 {
		p.TimestepHours = 1.0
	}
	if p.MaxCycles <= 0 {
		p.MaxCycles = 5.0
	}
	if p.AmbientTempC == 0 {
		p.AmbientTempC = 25.0
	}
	if p.Sink == nil {
		p.Sink = metrics.NopSink{}
	}
	if p.Log == nil {
		p.Log = logger.NopLogger{}
	}
	return &EnergyMarketSimulator{
		start:         p.Start,
		end:           p.End,
		battery:       p.Battery,
		prices:        p.Prices,
		scheduler:     p.Scheduler,
		pnl:           p.PnL,
		timestepHours: p.TimestepHours,
		maxCycles:     p.MaxCycles,
		ambientTempC:  p.AmbientTempC,
		sink:          p.Sink,
		log:           p.Log,
	}, nil
}

// Simulate runs the whole date range and returns one result per day in
// order. Days are strictly sequential: the battery state at the end of day
// N seeds day N+1. Cancellation is honoured only at day boundaries, so an
// aborted run leaves the battery consistent.
func (s *EnergyMarketSimulator) Simulate(ctx context.Context) ([]model.SimulationResult, error) {
	var results []model.SimulationResult
	var totalPnL float64

	for day := s.start; !day.After(s.end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		planning, actual, err := s.prices.GetPrices(day)
		if err != nil {
			return results, fmt.Errorf("prices for %s: %w", day.Format(dateLayout), err)
		}

		res, err := s.runDailyOperation(day, planning, actual)
		if err != nil {
			return results, fmt.Errorf("daily operation for %s: %w", day.Format(dateLayout), err)
		}
		totalPnL += res.DailyPnL
		results = append(results, res)
	}

	s.log.Infof("total P&L from %s to %s: %.2f over %d days",
		s.start.Format(dateLayout), s.end.Format(dateLayout), totalPnL, len(results))
	return results, nil
}

func (s *EnergyMarketSimulator) runDailyOperation(day time.Time, planning, actual []float64) (model.SimulationResult, error) {
	solveStart := time.Now()
	schedule, status, err := s.scheduler.CreateSchedule(planning, s.battery, s.timestepHours, s.maxCycles)
	if recErr := s.sink.RecordSolve(metrics.SolveEvent{Date: day, Status: status.String(), Duration: time.Since(solveStart)}); recErr != nil {
		s.log.Warnf("record solve event: %v", recErr)
	}
	if err != nil {
		return model.SimulationResult{}, err
	}
	if status != optimizer.StatusOptimal {
		// A bad solve costs the day, not the run: record an empty
		// schedule with zero P&L and keep going.
		s.log.Warnf("no usable schedule for %s (solver status %s)", day.Format(dateLayout), status)
		return model.SimulationResult{Date: day, Schedule: model.DailySchedule{}}, nil
	}

	s.processDailySchedule(schedule)

	pnl := s.pnl.Compute(schedule, actual, s.battery.ChargeEfficiency(), s.battery.DischargeEfficiency())
	s.log.Debugf("%s: charged %.3f MWh, discharged %.3f MWh, pnl %.2f",
		day.Format(dateLayout), schedule.TotalChargeMWh(), schedule.TotalDischargeMWh(), pnl)

	snap := s.battery.Snapshot()
	if recErr := s.sink.RecordDailyResult(metrics.DailyResultEvent{
		Date:            day,
		PnL:             pnl,
		SOC:             snap.SOC,
		SOH:             snap.SOH,
		CycleCount:      snap.CycleCount,
		EnergyCycledMWh: snap.EnergyCycledMWh,
	}); recErr != nil {
		s.log.Warnf("record daily result: %v", recErr)
	}

	return model.SimulationResult{Date: day, Schedule: schedule, DailyPnL: pnl}, nil
}

// processDailySchedule applies the plan to the battery strictly in index
// order; SOC and SOH updates are path-dependent, so ordering is
// load-bearing.
func (s *EnergyMarketSimulator) processDailySchedule(schedule model.DailySchedule) {
	for _, iv := range schedule {
		switch {
		case iv.ChargeMWh > 0:
			s.battery.Charge(iv.ChargeMWh, s.ambientTempC)
		case iv.DischargeMWh > 0:
			s.battery.Discharge(iv.DischargeMWh, s.ambientTempC)
		}
	}
}
