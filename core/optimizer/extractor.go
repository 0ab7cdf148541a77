package optimizer

import (
	"github.com/koulakhilesh/OpenEnergy/core/model"
)

// ScheduleExtractor reads solved variable values into an ordered schedule.
type ScheduleExtractor interface {
	ExtractSchedule(m *ScheduleModel) (model.DailySchedule, error)
}

// SimplexScheduleExtractor materialises the solution of a SimplexSolver
// run. Intervals come out in time order, never filtered or reordered; a
// model without a complete solution yields a DataError.
type SimplexScheduleExtractor struct{}

func (SimplexScheduleExtractor) ExtractSchedule(m *ScheduleModel) (model.DailySchedule, error) {
	if m == nil || m.solution == nil {
		return nil, model.NewDataError("schedule model has no solution")
	}
	if len(m.solution) != m.numVars() {
		return nil, model.NewDataError("solved model has %d values, expected %d", len(m.solution), m.numVars())
	}

	schedule := make(model.DailySchedule, 0, m.numIntervals)
	for t := 0; t < m.numIntervals; t++ {
		schedule = append(schedule, model.ScheduleInterval{
			Index:           t,
			ChargeMWh:       clipRoundoff(m.solution[m.chargeIdx(t)]),
			DischargeMWh:    clipRoundoff(m.solution[m.dischargeIdx(t)]),
			SOC:             m.solution[m.socIdx(t)],
			EnergyCycledMWh: clipRoundoff(m.solution[m.cycledIdx(t)]),
		})
	}
	return schedule, nil
}

// clipRoundoff zeroes simplex round-off noise on non-negative variables.
func clipRoundoff(v float64) float64 {
	if v < 0 && v > -1e-9 {
		return 0
	}
	return v
}
