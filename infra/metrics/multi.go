package metrics

import (
	"errors"

	coremetrics "github.com/koulakhilesh/OpenEnergy/core/metrics"
)

// MultiSink fans events out to several sinks, joining any errors.
type MultiSink struct {
	sinks []coremetrics.Sink
}

// NewMultiSink builds a fan-out sink.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordDailyResult(ev coremetrics.DailyResultEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordDailyResult(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordSolve(ev coremetrics.SolveEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordSolve(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
