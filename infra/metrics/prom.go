package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/koulakhilesh/OpenEnergy/core/metrics"
)

// PromSink records simulation events in Prometheus metrics.
type PromSink struct {
	days   prometheus.Counter
	solves *prometheus.CounterVec
	pnl    prometheus.Histogram
	soc    prometheus.Gauge
	soh    prometheus.Gauge
	cycles prometheus.Gauge
}

// NewPromSink registers simulation metrics on the default Prometheus
// registerer. The metrics server is started separately on cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	days := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_days_total",
		Help: "Number of simulated trading days",
	})
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_solves_total",
		Help: "Schedule optimization runs by termination status",
	}, []string{"status"})
	pnl := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "daily_pnl",
		Help:    "Daily profit and loss distribution",
		Buckets: []float64{-1000, -100, -10, 0, 10, 100, 1000, 10000},
	})
	soc := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battery_soc",
		Help: "Battery state of charge after the last simulated day",
	})
	soh := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battery_soh",
		Help: "Battery state of health after the last simulated day",
	})
	cycles := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "battery_cycle_count",
		Help: "Accumulated equivalent cycle count",
	})

	s := &PromSink{days: days, solves: solves, pnl: pnl, soc: soc, soh: soh, cycles: cycles}
	collectors := []prometheus.Collector{days, solves, pnl, soc, soh, cycles}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				s.days = are.ExistingCollector.(prometheus.Counter)
			case 1:
				s.solves = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				s.pnl = are.ExistingCollector.(prometheus.Histogram)
			case 3:
				s.soc = are.ExistingCollector.(prometheus.Gauge)
			case 4:
				s.soh = are.ExistingCollector.(prometheus.Gauge)
			case 5:
				s.cycles = are.ExistingCollector.(prometheus.Gauge)
			}
		}
	}
	return s, nil
}

// RecordDailyResult updates the per-day counters and battery gauges.
func (s *PromSink) RecordDailyResult(ev coremetrics.DailyResultEvent) error {
	s.days.Inc()
	s.pnl.Observe(ev.PnL)
	s.soc.Set(ev.SOC)
	s.soh.Set(ev.SOH)
	s.cycles.Set(ev.CycleCount)
	return nil
}

// RecordSolve counts a schedule solve by termination status.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Status).Inc()
	return nil
}
