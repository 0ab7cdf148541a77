package metrics

import (
	"errors"
	"testing"

	coremetrics "github.com/koulakhilesh/OpenEnergy/core/metrics"
)

type countingSink struct {
	daily, solves int
	err           error
}

func (s *countingSink) RecordDailyResult(coremetrics.DailyResultEvent) error {
	s.daily++
	return s.err
}

func (s *countingSink) RecordSolve(coremetrics.SolveEvent) error {
	s.solves++
	return s.err
}

func TestMultiSink_FansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	multi := NewMultiSink(a, b)

	if err := multi.RecordDailyResult(coremetrics.DailyResultEvent{}); err != nil {
		t.Fatalf("record daily: %v", err)
	}
	if err := multi.RecordSolve(coremetrics.SolveEvent{}); err != nil {
		t.Fatalf("record solve: %v", err)
	}
	if a.daily != 1 || b.daily != 1 || a.solves != 1 || b.solves != 1 {
		t.Fatalf("events not fanned out: %+v %+v", a, b)
	}
}

func TestMultiSink_FailingSinkDoesNotBlockOthers(t *testing.T) {
	fail := &countingSink{err: errors.New("sink down")}
	ok := &countingSink{}
	multi := NewMultiSink(fail, ok)

	err := multi.RecordDailyResult(coremetrics.DailyResultEvent{})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if ok.daily != 1 {
		t.Fatal("healthy sink must still receive the event")
	}
}
