package metrics

import "time"

// DailyResultEvent captures the outcome of one simulated day.
type DailyResultEvent struct {
	Date            time.Time
	PnL             float64
	SOC             float64
	SOH             float64
	CycleCount      float64
	EnergyCycledMWh float64
}

// SolveEvent captures one schedule optimization run.
type SolveEvent struct {
	Date     time.Time
	Status   string
	Duration time.Duration
}

// Sink records simulation events for observability purposes.
type Sink interface {
	RecordDailyResult(ev DailyResultEvent) error
	RecordSolve(ev SolveEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordDailyResult(DailyResultEvent) error { return nil }
func (NopSink) RecordSolve(SolveEvent) error             { return nil }
