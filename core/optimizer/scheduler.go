package optimizer

import (
	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/logger"
	"github.com/koulakhilesh/OpenEnergy/core/model"
)

// Scheduler plans one day of battery operation against a price series.
// Scheduling is pure planning: implementations must not mutate the battery.
type Scheduler interface {
	CreateSchedule(prices []float64, b *battery.Battery, timestepHours, maxCycles float64) (model.DailySchedule, Status, error)
}

// BatteryOptimizationScheduler composes builder, solver and extractor for a
// single planning horizon. The battery is read through a snapshot only.
type BatteryOptimizationScheduler struct {
	builder         ModelBuilder
	solver          ModelSolver
	extractor       ScheduleExtractor
	intervalsPerDay int
	log             logger.Logger
}

// NewBatteryOptimizationScheduler wires the builder/solver/extractor triad.
func NewBatteryOptimizationScheduler(builder ModelBuilder, solver ModelSolver, extractor ScheduleExtractor, intervalsPerDay int, log logger.Logger) *BatteryOptimizationScheduler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &BatteryOptimizationScheduler{
		builder:         builder,
		solver:          solver,
		extractor:       extractor,
		intervalsPerDay: intervalsPerDay,
		log:             log,
	}
}

// CreateSchedule builds, solves and extracts the day's plan. A price series
// whose length differs from the configured intervals per day is a
// DataError. Non-optimal solver terminations surface through the returned
// status with a nil schedule and no error.
func (s *BatteryOptimizationScheduler) CreateSchedule(prices []float64, b *battery.Battery, timestepHours, maxCycles float64) (model.DailySchedule, Status, error) {
	if len(prices) != s.intervalsPerDay {
		return nil, StatusError, model.NewDataError("price series has %d entries, expected %d intervals per day", len(prices), s.intervalsPerDay)
	}

	snap := b.Snapshot()
	m, err := s.builder.BuildModel(s.intervalsPerDay, prices, snap, timestepHours, maxCycles)
	if err != nil {
		return nil, StatusError, err
	}

	status, err := s.solver.Solve(m)
	if err != nil {
		return nil, StatusError, err
	}
	if status != StatusOptimal {
		s.log.Warnf("schedule solve terminated %s", status)
		return nil, status, nil
	}

	schedule, err := s.extractor.ExtractSchedule(m)
	if err != nil {
		return nil, StatusError, err
	}
	return schedule, StatusOptimal, nil
}
