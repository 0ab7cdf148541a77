package app

import (
	"context"
	"fmt"

	"github.com/koulakhilesh/OpenEnergy/config"
	"github.com/koulakhilesh/OpenEnergy/core/battery"
	"github.com/koulakhilesh/OpenEnergy/core/market"
	coremetrics "github.com/koulakhilesh/OpenEnergy/core/metrics"
	"github.com/koulakhilesh/OpenEnergy/core/model"
	"github.com/koulakhilesh/OpenEnergy/core/optimizer"
	"github.com/koulakhilesh/OpenEnergy/core/prices"
	"github.com/koulakhilesh/OpenEnergy/infra/csvdata"
	"github.com/koulakhilesh/OpenEnergy/infra/logger"
	"github.com/koulakhilesh/OpenEnergy/infra/metrics"
	"github.com/koulakhilesh/OpenEnergy/infra/mqtt"
)

// Service wires the battery, scheduler, price source and simulator from
// configuration and runs one simulation per Run call.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	battery   *battery.Battery
	simulator *market.EnergyMarketSimulator
	publisher *mqtt.ResultPublisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.LogLevel)
	logg := logger.New("service")

	b, err := battery.New(cfg.Battery)
	if err != nil {
		return nil, fmt.Errorf("battery: %w", err)
	}

	source, err := newPriceSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("price source: %w", err)
	}

	scheduler := optimizer.NewBatteryOptimizationScheduler(
		optimizer.LPModelBuilder{},
		optimizer.NewSimplexSolver(logger.New("solver")),
		optimizer.SimplexScheduleExtractor{},
		cfg.Schedule.IntervalsPerDay,
		logger.New("scheduler"),
	)

	svc := &Service{cfg: cfg, log: logg, battery: b}
	sink, err := svc.newSink(cfg)
	if err != nil {
		return nil, err
	}

	start, end, err := cfg.Simulation.DateRange()
	if err != nil {
		return nil, err
	}

	sim, err := market.NewEnergyMarketSimulator(market.SimulatorParams{
		Start:         start,
		End:           end,
		Battery:       b,
		Prices:        source,
		Scheduler:     scheduler,
		PnL:           market.NewPnLCalculator(cfg.Schedule.TimestepHours),
		TimestepHours: cfg.Schedule.TimestepHours,
		MaxCycles:     cfg.Schedule.MaxCycles,
		AmbientTempC:  cfg.Simulation.AmbientTempC,
		Sink:          sink,
		Log:           logger.New("simulator"),
	})
	if err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	svc.simulator = sim
	return svc, nil
}

func newPriceSource(cfg *config.Config) (prices.PriceSource, error) {
	switch cfg.Prices.Model {
	case config.PriceModelHistorical:
		provider := csvdata.New(cfg.Prices.CSVPath)
		opts := []prices.AverageModelOption{}
		if cfg.Prices.PriceColumn != "" || cfg.Prices.TimestampColumn != "" {
			priceCol := cfg.Prices.PriceColumn
			if priceCol == "" {
				priceCol = prices.DefaultPriceColumn
			}
			tsCol := cfg.Prices.TimestampColumn
			if tsCol == "" {
				tsCol = prices.DefaultTimestampColumn
			}
			opts = append(opts, prices.WithColumns(priceCol, tsCol))
		}
		return prices.NewHistoricalAveragePriceModel(provider, opts...)
	default:
		envelope := prices.NewSimulatedPriceEnvelopeGenerator()
		envelope.NumIntervals = cfg.Schedule.IntervalsPerDay
		noise := prices.NewSimulatedPriceNoiseAdder(cfg.Prices.NoiseSeed)
		return prices.NewSimulatedPriceModel(envelope, noise), nil
	}
}

func (s *Service) newSink(cfg *config.Config) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewResultPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.publisher = pub
		sinks = append(sinks, pub)
	}

	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return metrics.NewMultiSink(sinks...), nil
	}
}

// Battery exposes the simulated asset, mainly for post-run inspection.
func (s *Service) Battery() *battery.Battery { return s.battery }

// Run executes the configured simulation. When Prometheus is enabled the
// metrics endpoint is served for the duration of the run.
func (s *Service) Run(ctx context.Context) ([]model.SimulationResult, error) {
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return s.simulator.Simulate(ctx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}
