package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/koulakhilesh/OpenEnergy/app"
	"github.com/koulakhilesh/OpenEnergy/config"
	"github.com/koulakhilesh/OpenEnergy/core/model"
	"github.com/koulakhilesh/OpenEnergy/infra/logger"
)

// Server exposes simulation runs over HTTP. Each request clones the base
// configuration, applies the request overrides and runs an isolated
// simulation, so concurrent requests never share battery state.
type Server struct {
	base *config.Config
	log  logger.Logger
}

// NewServer creates a server around the given base configuration.
func NewServer(base *config.Config) *Server {
	return &Server{base: base, log: logger.New("api")}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if os.Getenv("APP_ENV") != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", s.handleSimulate)
	}
	return router
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	handler := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router())

	srv := &http.Server{
		Addr:              s.base.API.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Infof("api listening on %s", s.base.API.Port)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_REQUEST", Message: err.Error()})
		return
	}

	cfg := s.applyOverrides(req)
	if err := cfg.Simulation.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_DATE_RANGE", Message: err.Error()})
		return
	}
	if err := cfg.Prices.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "INVALID_PRICES", Message: err.Error()})
		return
	}

	svc, err := app.New(&cfg)
	if err != nil {
		status := http.StatusInternalServerError
		code := "SERVICE_ERROR"
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
			code = "INVALID_CONFIG"
		}
		c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
		return
	}
	defer svc.Close()

	results, err := svc.Run(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		code := "SIMULATION_ERROR"
		var derr *model.DataError
		if errors.As(err, &derr) {
			status = http.StatusUnprocessableEntity
			code = "DATA_ERROR"
		}
		c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
		return
	}

	var total float64
	for _, r := range results {
		total += r.DailyPnL
	}
	state := svc.Battery().Snapshot()
	c.JSON(http.StatusOK, SimulateResponse{
		RunID:      uuid.NewString(),
		Results:    results,
		TotalPnL:   total,
		FinalSOC:   state.SOC,
		FinalSOH:   state.SOH,
		CycleCount: state.CycleCount,
	})
}

// applyOverrides copies the base configuration and folds in the non-zero
// request fields. Metrics and MQTT stay off for API-triggered runs so
// ad hoc requests do not pollute the long-lived sinks.
func (s *Server) applyOverrides(req SimulateRequest) config.Config {
	cfg := *s.base
	cfg.Metrics.PrometheusEnabled = false
	cfg.Metrics.InfluxEnabled = false
	cfg.MQTT.Enabled = false

	if req.BatteryCapacityMWh > 0 {
		cfg.Battery.CapacityMWh = req.BatteryCapacityMWh
	}
	if req.ChargeEfficiency > 0 {
		cfg.Battery.ChargeEfficiency = req.ChargeEfficiency
	}
	if req.DischargeEfficiency > 0 {
		cfg.Battery.DischargeEfficiency = req.DischargeEfficiency
	}
	if req.InitialSOC > 0 {
		cfg.Battery.InitialSOC = req.InitialSOC
	}
	if req.StartDate != "" {
		cfg.Simulation.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		cfg.Simulation.EndDate = req.EndDate
	}
	if req.PriceModel != "" {
		cfg.Prices.Model = req.PriceModel
	}
	if req.CSVPath != "" {
		cfg.Prices.CSVPath = req.CSVPath
	}
	if req.MaxCycles > 0 {
		cfg.Schedule.MaxCycles = req.MaxCycles
	}
	if req.AmbientTempC != 0 {
		cfg.Simulation.AmbientTempC = req.AmbientTempC
	}
	if req.NoiseSeed != 0 {
		cfg.Prices.NoiseSeed = req.NoiseSeed
	}
	if req.LogLevel != "" {
		cfg.LogLevel = req.LogLevel
	}
	return cfg
}
