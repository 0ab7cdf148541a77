package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/koulakhilesh/OpenEnergy/core/metrics"
	"github.com/koulakhilesh/OpenEnergy/infra/logger"
)

// Config defines the connection parameters for the results publisher.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Topic    string `json:"topic"`
	QoS      byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "openenergy"
	}
	if c.Topic == "" {
		c.Topic = "openenergy/simulation"
	}
}

// Validate checks mandatory fields for an enabled publisher.
func (c Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("broker is required when mqtt is enabled")
	}
	return nil
}

// pahoClient is the slice of the paho client the publisher needs.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// newMQTTClient can be overridden in tests.
var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// ResultPublisher streams simulation telemetry to an MQTT broker. It
// implements the metrics Sink so it slots into the same fan-out as the
// Prometheus and InfluxDB sinks.
type ResultPublisher struct {
	cli   pahoClient
	topic string
	qos   byte
	runID string
	log   logger.Logger
}

// NewResultPublisher connects to the broker described by cfg. Each
// publisher carries a run identifier so consumers can group one run's days.
func NewResultPublisher(cfg Config) (*ResultPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New("mqtt-publisher")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &ResultPublisher{
		cli:   cli,
		topic: cfg.Topic,
		qos:   cfg.QoS,
		runID: uuid.NewString(),
		log:   log,
	}, nil
}

type dailyResultMessage struct {
	RunID           string  `json:"run_id"`
	Date            string  `json:"date"`
	PnL             float64 `json:"daily_pnl"`
	SOC             float64 `json:"soc"`
	SOH             float64 `json:"soh"`
	CycleCount      float64 `json:"cycle_count"`
	EnergyCycledMWh float64 `json:"energy_cycled_mwh"`
	PublishedAt     int64   `json:"published_at"`
}

type solveMessage struct {
	RunID      string  `json:"run_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	DurationMS float64 `json:"duration_ms"`
}

// RecordDailyResult publishes the day's outcome under <topic>/result.
func (p *ResultPublisher) RecordDailyResult(ev coremetrics.DailyResultEvent) error {
	msg := dailyResultMessage{
		RunID:           p.runID,
		Date:            ev.Date.Format("2006-01-02"),
		PnL:             ev.PnL,
		SOC:             ev.SOC,
		SOH:             ev.SOH,
		CycleCount:      ev.CycleCount,
		EnergyCycledMWh: ev.EnergyCycledMWh,
		PublishedAt:     time.Now().UnixMilli(),
	}
	return p.publish(p.topic+"/result", msg)
}

// RecordSolve publishes the solver termination under <topic>/solve.
func (p *ResultPublisher) RecordSolve(ev coremetrics.SolveEvent) error {
	msg := solveMessage{
		RunID:      p.runID,
		Date:       ev.Date.Format("2006-01-02"),
		Status:     ev.Status,
		DurationMS: ev.Duration.Seconds() * 1000,
	}
	return p.publish(p.topic+"/solve", msg)
}

func (p *ResultPublisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := p.cli.Publish(topic, p.qos, false, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (p *ResultPublisher) Close() {
	p.cli.Disconnect(250)
}
